package validator

import "github.com/erraggy/oasir/loader"

// Option is a function that configures a validation run
type Option func(*validateConfig)

// validateConfig holds configuration for a validation run
type validateConfig struct {
	includeWarnings bool
	strictMode      bool
	disabledRules   []string
	logger          loader.Logger
}

// applyOptions applies option functions over the defaults
func applyOptions(opts ...Option) *validateConfig {
	cfg := &validateConfig{
		includeWarnings: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithIncludeWarnings enables or disables warning diagnostics
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) {
		cfg.includeWarnings = enabled
	}
}

// WithStrictMode enables or disables promoting warnings to errors
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) {
		cfg.strictMode = enabled
	}
}

// WithDisabledRules skips the named rules
func WithDisabledRules(ids ...string) Option {
	return func(cfg *validateConfig) {
		cfg.disabledRules = append(cfg.disabledRules, ids...)
	}
}

// WithLogger sets the logger
func WithLogger(l loader.Logger) Option {
	return func(cfg *validateConfig) {
		cfg.logger = l
	}
}
