package loader

import (
	"fmt"
	"io"

	"github.com/erraggy/oasir/internal/options"
	"github.com/erraggy/oasir/oaserrors"
)

// DefaultMaxSize is the default upper bound on document size in bytes.
const DefaultMaxSize int64 = 10 << 20

// Option is a function that configures a load operation.
type Option func(*loadConfig) error

type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	sourceName *string
	logger     Logger
	maxSize    int64
}

// Load reads a document using functional options.
//
// Example:
//
//	doc, err := loader.Load(loader.WithFilePath("openapi.yaml"))
func Load(opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	l := &Loader{Logger: cfg.logger, MaxSize: cfg.maxSize}

	var doc *Document
	switch {
	case cfg.filePath != nil:
		doc, err = l.LoadFile(*cfg.filePath)
	case cfg.reader != nil:
		doc, err = l.LoadReader(cfg.reader)
	default:
		doc, err = l.LoadBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != nil {
		doc.SourcePath = *cfg.sourceName
	}
	return doc, nil
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("loader",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "reader", Message: "loader: reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies in-memory bytes as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithSourceName overrides Document.SourcePath, which otherwise defaults to
// the file path or "LoadBytes"/"LoadReader".
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		if name == "" {
			return &oaserrors.ConfigError{Option: "source name", Message: "loader: source name cannot be empty"}
		}
		cfg.sourceName = &name
		return nil
	}
}

// WithLogger sets the logger. Nil selects NopLogger.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxSize bounds the document size in bytes.
func WithMaxSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size <= 0 {
			return &oaserrors.ConfigError{Option: "max size", Value: size, Message: "loader: must be positive"}
		}
		cfg.maxSize = size
		return nil
	}
}
