package compiler

import (
	"fmt"
	"io"

	"github.com/erraggy/oasir/internal/options"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/oaserrors"
)

// Option is a function that configures a compilation.
type Option func(*compileConfig) error

type compileConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	sourceName      string
	logger          loader.Logger
	maxSize         int64
	includeWarnings bool
	strictMode      bool
	disabledRules   []string
}

// CompileWithOptions compiles a document using functional options.
//
// Example:
//
//	model, err := compiler.CompileWithOptions(compiler.WithFilePath("openapi.yaml"))
func CompileWithOptions(opts ...Option) (*ir.Model, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: invalid options: %w", err)
	}

	c := &Compiler{
		Logger:          cfg.logger,
		MaxSize:         cfg.maxSize,
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
		DisabledRules:   cfg.disabledRules,
	}

	loadOpts := []loader.Option{loader.WithLogger(cfg.logger), loader.WithMaxSize(c.maxSize())}
	switch {
	case cfg.filePath != nil:
		loadOpts = append(loadOpts, loader.WithFilePath(*cfg.filePath))
	case cfg.reader != nil:
		loadOpts = append(loadOpts, loader.WithReader(cfg.reader))
	default:
		loadOpts = append(loadOpts, loader.WithBytes(cfg.bytes))
	}
	if cfg.sourceName != "" {
		loadOpts = append(loadOpts, loader.WithSourceName(cfg.sourceName))
	}

	doc, err := loader.Load(loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	return c.CompileDocument(doc)
}

func applyOptions(opts ...Option) (*compileConfig, error) {
	cfg := &compileConfig{
		maxSize:         loader.DefaultMaxSize,
		includeWarnings: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("compiler",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *compileConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *compileConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "reader", Message: "compiler: reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies in-memory bytes as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *compileConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithSourceName sets the name used for the document in messages and in
// Model.SourcePath.
func WithSourceName(name string) Option {
	return func(cfg *compileConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithLogger sets the logger passed to every stage. Nil selects NopLogger.
func WithLogger(l loader.Logger) Option {
	return func(cfg *compileConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxSize bounds the document size in bytes.
// Default: loader.DefaultMaxSize
func WithMaxSize(size int64) Option {
	return func(cfg *compileConfig) error {
		if size <= 0 {
			return &oaserrors.ConfigError{Option: "max size", Value: size, Message: "compiler: must be positive"}
		}
		cfg.maxSize = size
		return nil
	}
}

// WithIncludeWarnings enables or disables warning diagnostics.
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode promotes warning diagnostics to errors.
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithDisabledRules skips the named validation rules.
func WithDisabledRules(ids ...string) Option {
	return func(cfg *compileConfig) error {
		cfg.disabledRules = append(cfg.disabledRules, ids...)
		return nil
	}
}
