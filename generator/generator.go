package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

// ErrInvalidModel is returned by Run for models with error diagnostics.
var ErrInvalidModel = errors.New("generator: model has error diagnostics")

// Files maps output paths, relative to the output directory, to contents.
type Files map[string][]byte

// Paths returns the output paths in sorted order.
func (f Files) Paths() []string {
	out := make([]string, 0, len(f))
	for p := range f {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Backend renders a compiled model.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Generate renders the model. It must not mutate it.
	Generate(ctx context.Context, m *ir.Model) (Files, error)
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger loader.Logger
}

// WithLogger sets the logger. Nil selects NopLogger.
func WithLogger(l loader.Logger) Option {
	return func(cfg *runConfig) {
		cfg.logger = l
	}
}

// Run checks the model's report and invokes the backend.
func Run(ctx context.Context, b Backend, m *ir.Model, opts ...Option) (Files, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := loader.OrNop(cfg.logger)

	if b == nil || m == nil {
		return nil, fmt.Errorf("generator: backend and model are required")
	}
	if n := m.Report.ErrorCount(); n > 0 {
		return nil, fmt.Errorf("%w: %d error(s), first: %s", ErrInvalidModel, n, firstError(m.Report))
	}
	for _, d := range m.Report.Diagnostics {
		log.Warn("generating despite warning", "rule", d.RuleID, "message", d.Message, "at", d.Location.Pointer)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := b.Generate(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("generator: %s: %w", b.Name(), err)
	}
	log.Info("generated files", "backend", b.Name(), "files", len(files))
	return files, nil
}

func firstError(r ir.ValidationReport) string {
	for _, d := range r.Diagnostics {
		if d.Severity == ir.SeverityError {
			return d.String()
		}
	}
	return ""
}
