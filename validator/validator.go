package validator

import (
	"sort"

	"github.com/erraggy/oasir/internal/severity"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

// Severity indicates the severity level of a diagnostic
type Severity = severity.Severity

const (
	// SeverityError indicates a finding that makes the model invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a recommendation
	SeverityWarning = severity.SeverityWarning
)

// Validator runs the rule set over a model.
type Validator struct {
	// IncludeWarnings determines whether warning diagnostics are reported
	IncludeWarnings bool
	// StrictMode promotes warnings to errors
	StrictMode bool
	// DisabledRules lists rule ids that are skipped
	DisabledRules []string
	// Logger receives debug output. Nil selects NopLogger.
	Logger loader.Logger
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
		StrictMode:      false,
	}
}

// Validate validates a model using functional options.
//
// Example:
//
//	report := validator.Validate(model, validator.WithStrictMode(true))
func Validate(m *ir.Model, opts ...Option) ir.ValidationReport {
	cfg := applyOptions(opts...)
	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
		DisabledRules:   cfg.disabledRules,
		Logger:          cfg.logger,
	}
	return v.Validate(m)
}

// Validate runs every enabled rule over m and returns the sorted report.
func (v *Validator) Validate(m *ir.Model) ir.ValidationReport {
	report := ir.ValidationReport{Diagnostics: []ir.Diagnostic{}}
	if m == nil {
		return report
	}
	disabled := make(map[string]bool, len(v.DisabledRules))
	for _, id := range v.DisabledRules {
		disabled[id] = true
	}

	var found []finding
	for order, r := range rules {
		if disabled[r.ID] {
			continue
		}
		emit := func(loc ir.Location, msg string) {
			sev := r.Severity
			if v.StrictMode {
				sev = SeverityError
			}
			if sev == SeverityWarning && !v.IncludeWarnings {
				return
			}
			found = append(found, finding{
				order: order,
				d:     ir.Diagnostic{Severity: sev, Message: msg, RuleID: r.ID, Location: loc},
			})
		}
		r.check(m, emit)
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i].d.Location, found[j].d.Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Pointer != b.Pointer {
			return a.Pointer < b.Pointer
		}
		return found[i].order < found[j].order
	})
	for _, f := range found {
		report.Diagnostics = append(report.Diagnostics, f.d)
	}

	loader.OrNop(v.Logger).Debug("validated model",
		"errors", report.ErrorCount(),
		"warnings", report.WarningCount())
	return report
}

type finding struct {
	order int
	d     ir.Diagnostic
}
