package compiler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/normalizer"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/operations"
	"github.com/erraggy/oasir/relations"
	"github.com/erraggy/oasir/resolver"
	"github.com/erraggy/oasir/validator"
)

const (
	// DefaultTitle is used when info declares no title.
	DefaultTitle = "Generated API"
	// DefaultVersion is used when info declares no version.
	DefaultVersion = "1.0.0"
)

// Compiler runs the pipeline.
type Compiler struct {
	// Logger receives stage progress. Nil selects NopLogger.
	Logger loader.Logger
	// MaxSize bounds the document size in bytes. Zero selects loader.DefaultMaxSize.
	MaxSize int64
	// IncludeWarnings determines whether warning diagnostics are reported
	IncludeWarnings bool
	// StrictMode promotes warning diagnostics to errors
	StrictMode bool
	// DisabledRules lists validation rule ids that are skipped
	DisabledRules []string
}

// New creates a new Compiler instance with default settings
func New() *Compiler {
	return &Compiler{IncludeWarnings: true}
}

func (c *Compiler) log() loader.Logger {
	return loader.OrNop(c.Logger)
}

func (c *Compiler) maxSize() int64 {
	if c.MaxSize <= 0 {
		return loader.DefaultMaxSize
	}
	return c.MaxSize
}

func (c *Compiler) loader() *loader.Loader {
	return &loader.Loader{Logger: c.Logger, MaxSize: c.maxSize()}
}

// CompileFile loads and compiles the document at path.
func (c *Compiler) CompileFile(path string) (*ir.Model, error) {
	doc, err := c.loader().LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	return c.CompileDocument(doc)
}

// CompileBytes loads and compiles an in-memory document.
func (c *Compiler) CompileBytes(data []byte) (*ir.Model, error) {
	doc, err := c.loader().LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	return c.CompileDocument(doc)
}

// CompileDocument compiles an already loaded document.
func (c *Compiler) CompileDocument(doc *loader.Document) (*ir.Model, error) {
	if doc == nil || doc.Root == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "compiler: document is nil"}
	}
	start := time.Now()
	log := c.log()
	root := doc.Root

	var errs []error
	collect := func(err error) {
		if err == nil {
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			errs = append(errs, joined.Unwrap()...)
			return
		}
		errs = append(errs, err)
	}

	collect(checkHeader(root))

	g, err := resolver.Resolve(root, resolver.WithLogger(c.Logger))
	if g == nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	collect(err)

	res, err := normalizer.Normalize(g, normalizer.WithLogger(c.Logger))
	if res == nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	collect(err)

	ops, err := operations.Compile(g, res, operations.WithLogger(c.Logger))
	collect(err)

	if len(errs) > 0 {
		log.Debug("compilation failed", "source", doc.SourcePath, "errors", len(errs))
		return nil, fmt.Errorf("compiler: %w", &oaserrors.CompilationError{
			Source:   doc.SourcePath,
			Errors:   errs,
			Resolved: res.Resolved(),
		})
	}

	info := root.Get("info")
	m := &ir.Model{
		Title:           orDefault(info.Text("title"), DefaultTitle),
		Version:         orDefault(scalarText(info.Get("version")), DefaultVersion),
		Description:     info.Text("description"),
		OpenAPI:         scalarText(root.Get("openapi")),
		Servers:         servers(root.Get("servers")),
		Tags:            tags(root.Get("tags")),
		SecuritySchemes: securitySchemes(g),
		Entities:        res.Entities,
		Schemas:         res.Schemas,
		Relationships:   relations.Infer(res.Entities, res.Schemas, relations.WithLogger(c.Logger)),
		Operations:      ops,
		DuplicateKeys:   duplicateKeys(doc.Duplicates),
		SourcePath:      doc.SourcePath,
	}
	if m.Entities == nil {
		m.Entities = []ir.EntityRef{}
	}
	if m.Relationships == nil {
		m.Relationships = []ir.RelationshipEdge{}
	}
	if m.Operations == nil {
		m.Operations = []ir.Operation{}
	}

	v := &validator.Validator{
		IncludeWarnings: c.IncludeWarnings,
		StrictMode:      c.StrictMode,
		DisabledRules:   c.DisabledRules,
		Logger:          c.Logger,
	}
	m.Report = v.Validate(m)

	log.Info("compiled document",
		"source", doc.SourcePath,
		"entities", len(m.Entities),
		"operations", len(m.Operations),
		"relationships", len(m.Relationships),
		"diagnostics", len(m.Report.Diagnostics),
		"elapsed", time.Since(start))
	return m, nil
}

// checkHeader verifies the top-level keys every document must declare.
func checkHeader(root *loader.Node) error {
	var errs []error
	fail := func(ptr string, n *loader.Node, reason string) {
		e := &oaserrors.SchemaError{Reason: reason, Location: ptr}
		if n != nil {
			e.Line, e.Column = n.Line, n.Column
		}
		errs = append(errs, e)
	}

	version, ok := root.Lookup("openapi")
	switch {
	case !ok:
		fail("#", root, "document does not declare openapi")
	case strings.SplitN(scalarText(version), ".", 2)[0] != "3":
		fail("#/openapi", version, fmt.Sprintf("unsupported OpenAPI version %q: only 3.x documents are supported", scalarText(version)))
	}
	if info, ok := root.Lookup("info"); !ok {
		fail("#", root, "document does not declare info")
	} else if !info.IsMapping() {
		fail("#/info", info, "info must be a mapping")
	}
	if paths, ok := root.Lookup("paths"); !ok {
		fail("#", root, "document does not declare paths")
	} else if !paths.IsMapping() && !paths.IsNull() {
		fail("#/paths", paths, "paths must be a mapping")
	}
	return errors.Join(errs...)
}

// scalarText renders a scalar as written. Versions such as 1.0 decode as
// numbers, so Str alone is not enough.
func scalarText(n *loader.Node) string {
	if n == nil || n.Kind != loader.ScalarKind || n.Value == nil {
		return ""
	}
	if s, ok := n.Str(); ok {
		return s
	}
	return fmt.Sprint(n.Value)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
