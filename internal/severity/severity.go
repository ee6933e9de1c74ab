// Package severity provides the severity levels attached to validation
// diagnostics.
//
// Only two levels exist: an error makes a model invalid, a warning does not.
// Callers decide whether warnings block further processing.
package severity

import (
	"fmt"
	"strings"
)

// Severity indicates how serious a diagnostic is.
type Severity int

const (
	// SeverityError marks a diagnostic that makes the model invalid.
	SeverityError Severity = iota

	// SeverityWarning marks a best-practice violation that does not
	// invalidate the model.
	SeverityWarning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Parse converts "error" or "warning" (case-insensitive) to a Severity.
// The second return value is false for anything else.
func Parse(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	}
	return SeverityError, false
}

// MarshalText encodes the severity as its string form.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "error" or "warning".
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("severity: unknown level %q", text)
	}
	*s = v
	return nil
}
