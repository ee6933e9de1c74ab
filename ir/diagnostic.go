package ir

import (
	"fmt"

	"github.com/erraggy/oasir/internal/severity"
)

// Severity indicates how serious a Diagnostic is.
type Severity = severity.Severity

const (
	// SeverityError makes a model invalid.
	SeverityError = severity.SeverityError
	// SeverityWarning does not invalidate a model.
	SeverityWarning = severity.SeverityWarning
)

// Location points into the source document.
type Location struct {
	Pointer string `json:"pointer" yaml:"pointer"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// String renders "line:column (pointer)", omitting unknown parts.
func (l Location) String() string {
	switch {
	case l.Line > 0 && l.Column > 0:
		return fmt.Sprintf("%d:%d (%s)", l.Line, l.Column, l.Pointer)
	case l.Line > 0:
		return fmt.Sprintf("%d (%s)", l.Line, l.Pointer)
	}
	return l.Pointer
}

// Diagnostic is one finding of the validator.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	RuleID   string   `json:"rule" yaml:"rule"`
	Location Location `json:"location" yaml:"location"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s]: %s", d.Location, d.Severity, d.RuleID, d.Message)
}

// ValidationReport is the ordered list of diagnostics for one model.
type ValidationReport struct {
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// IsValid reports whether the report holds no error-severity diagnostics.
func (r ValidationReport) IsValid() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error diagnostics.
func (r ValidationReport) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (r ValidationReport) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r ValidationReport) count(s Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// ByRule returns the diagnostics raised by rule, in report order.
func (r ValidationReport) ByRule(rule string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.RuleID == rule {
			out = append(out, d)
		}
	}
	return out
}
