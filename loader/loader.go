package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/oaserrors"
)

const (
	// maxAliasDepth bounds nested YAML alias expansion.
	maxAliasDepth = 64
	// maxExpandedNodes bounds the tree size after alias expansion.
	maxExpandedNodes = 1 << 21
)

// Document is a loaded document tree plus source metadata.
type Document struct {
	// Root is the top-level mapping.
	Root *Node
	// Format is the detected serialization.
	Format Format
	// SourcePath is the file path or source identifier used in messages.
	SourcePath string
	// Size is the input size in bytes.
	Size int64
	// LoadTime is how long decoding took.
	LoadTime time.Duration
	// Duplicates lists mapping keys defined more than once, in document order.
	Duplicates []DuplicateKey
}

// Loader reads YAML or JSON documents into Node trees.
type Loader struct {
	// Logger receives debug output. Nil selects NopLogger.
	Logger Logger
	// MaxSize bounds the input size in bytes. Zero selects DefaultMaxSize.
	MaxSize int64
}

// New creates a Loader with default settings.
func New() *Loader {
	return &Loader{MaxSize: DefaultMaxSize}
}

func (l *Loader) log() Logger {
	return OrNop(l.Logger)
}

func (l *Loader) maxSize() int64 {
	if l.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return l.MaxSize
}

// LoadFile reads and decodes the file at path.
func (l *Loader) LoadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read file: %w", err)
	}
	if info.Size() > l.maxSize() {
		return nil, &oaserrors.FormatError{
			Source:  path,
			Message: fmt.Sprintf("document is %d bytes, exceeding the limit of %d bytes", info.Size(), l.maxSize()),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read file: %w", err)
	}
	return l.decode(data, path, detectFormatFromPath(path))
}

// LoadReader reads and decodes everything from r.
func (l *Loader) LoadReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize()+1))
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read input: %w", err)
	}
	if int64(len(data)) > l.maxSize() {
		return nil, &oaserrors.FormatError{
			Source:  "LoadReader",
			Message: fmt.Sprintf("document exceeds the limit of %d bytes", l.maxSize()),
		}
	}
	return l.decode(data, "LoadReader", FormatUnknown)
}

// LoadBytes decodes an in-memory document.
func (l *Loader) LoadBytes(data []byte) (*Document, error) {
	if int64(len(data)) > l.maxSize() {
		return nil, &oaserrors.FormatError{
			Source:  "LoadBytes",
			Message: fmt.Sprintf("document exceeds the limit of %d bytes", l.maxSize()),
		}
	}
	return l.decode(data, "LoadBytes", FormatUnknown)
}

func (l *Loader) decode(data []byte, source string, format Format) (*Document, error) {
	start := time.Now()

	if format == FormatUnknown {
		format = detectFormatFromContent(data)
	}
	if format == FormatUnknown {
		return nil, &oaserrors.FormatError{Source: source, Message: "document is empty"}
	}
	l.log().Debug("loading document", "source", source, "format", format, "size", len(data))

	var (
		root  *Node
		dups  []DuplicateKey
		nodes int
		err   error
	)
	if format == FormatJSON {
		if err := checkJSON(data, source); err != nil {
			return nil, err
		}
		t := newJSONTree(data, source)
		root, err = t.build()
		dups, nodes = t.dups, t.count
	} else {
		c := &converter{source: source, path: pathutil.NewPointerBuilder()}
		root, err = c.load(data, format)
		dups, nodes = c.dups, c.count
	}
	if err != nil {
		return nil, err
	}
	if root.Kind != MappingKind {
		return nil, &oaserrors.FormatError{
			Source:  source,
			Line:    root.Line,
			Column:  root.Column,
			Message: fmt.Sprintf("document root must be a mapping, found %s", root.Kind),
		}
	}

	elapsed := time.Since(start)
	for _, d := range dups {
		l.log().Warn("duplicate mapping key", "source", source, "pointer", d.Pointer, "line", d.Line, "column", d.Column)
	}
	l.log().Debug("loaded document", "source", source, "nodes", nodes, "elapsed", elapsed)
	return &Document{
		Root:       root,
		Format:     format,
		SourcePath: source,
		Size:       int64(len(data)),
		LoadTime:   elapsed,
		Duplicates: dups,
	}, nil
}

// checkJSON verifies strict JSON well-formedness so malformed JSON reports a
// JSON position instead of being accepted as permissive flow YAML.
func checkJSON(data []byte, source string) error {
	var v any
	err := gojson.Unmarshal(data, &v)
	if err == nil {
		return nil
	}
	ferr := &oaserrors.FormatError{Source: source, Message: "invalid json", Cause: err}
	var syntax *gojson.SyntaxError
	if errors.As(err, &syntax) {
		ferr.Line, ferr.Column = offsetToPosition(data, syntax.Offset)
	}
	return ferr
}

var yamlPositionRegex = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// yamlErrorPosition returns the position of a yaml error. Construct errors
// carry it as fields; parser and scanner errors only in their message.
func yamlErrorPosition(err error) (line, column int) {
	var construct *yaml.LoadError
	if errors.As(err, &construct) {
		return construct.Line, construct.Column
	}
	// A context mark may precede the error mark; the last one is the error.
	all := yamlPositionRegex.FindAllStringSubmatch(err.Error(), -1)
	if len(all) == 0 {
		return 0, 0
	}
	m := all[len(all)-1]
	line, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column
}

// converter turns a yaml.Node tree into a Node tree, expanding aliases and
// merge keys.
type converter struct {
	source string
	count  int
	path   *pathutil.PointerBuilder
	dups   []DuplicateKey
	seen   map[[2]int]bool
}

func (c *converter) load(data []byte, format Format) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line, column := yamlErrorPosition(err)
		return nil, &oaserrors.FormatError{
			Source:  c.source,
			Line:    line,
			Column:  column,
			Message: "invalid " + string(format),
			Cause:   err,
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &oaserrors.FormatError{Source: c.source, Message: "document is empty"}
	}
	return c.convert(doc.Content[0], 0)
}

// duplicate records a repeated key once, even when an alias expands the
// mapping that holds it several times.
func (c *converter) duplicate(k *yaml.Node) {
	at := [2]int{k.Line, k.Column}
	if c.seen[at] {
		return
	}
	if c.seen == nil {
		c.seen = make(map[[2]int]bool)
	}
	c.seen[at] = true
	c.dups = append(c.dups, DuplicateKey{Pointer: c.path.String(), Line: k.Line, Column: k.Column})
}

func (c *converter) fail(n *yaml.Node, msg string) error {
	return &oaserrors.FormatError{Source: c.source, Line: n.Line, Column: n.Column, Message: msg}
}

func (c *converter) convert(n *yaml.Node, aliasDepth int) (*Node, error) {
	c.count++
	if c.count > maxExpandedNodes {
		return nil, c.fail(n, "document expands to too many nodes")
	}

	switch n.Kind {
	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth {
			return nil, c.fail(n, fmt.Sprintf("alias nesting exceeds %d levels", maxAliasDepth))
		}
		if n.Alias == nil {
			return nil, c.fail(n, "unknown alias")
		}
		out, err := c.convert(n.Alias, aliasDepth+1)
		if err != nil {
			return nil, err
		}
		expanded := *out
		expanded.Line, expanded.Column = n.Line, n.Column
		return &expanded, nil

	case yaml.MappingNode:
		out := &Node{Kind: MappingKind, Line: n.Line, Column: n.Column}
		// Keys written in this mapping; entries pulled in by a merge key may
		// be overridden without counting as duplicates.
		written := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				if err := c.merge(out, v, aliasDepth); err != nil {
					return nil, err
				}
				continue
			}
			c.path.Push(k.Value)
			val, err := c.convert(v, aliasDepth)
			if err == nil {
				setEntry(out, k.Value, val, true)
				if written[k.Value] {
					c.duplicate(k)
				}
				written[k.Value] = true
			}
			c.path.Pop()
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case yaml.SequenceNode:
		out := &Node{Kind: SequenceKind, Line: n.Line, Column: n.Column, Items: make([]*Node, 0, len(n.Content))}
		for i, item := range n.Content {
			c.path.Push(strconv.Itoa(i))
			val, err := c.convert(item, aliasDepth)
			c.path.Pop()
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, val)
		}
		return out, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, c.fail(n, "invalid scalar: "+err.Error())
		}
		if _, isTime := v.(time.Time); isTime {
			v = n.Value
		}
		return &Node{Kind: ScalarKind, Value: v, Line: n.Line, Column: n.Column}, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Node{Kind: ScalarKind, Line: n.Line, Column: n.Column}, nil
		}
		return c.convert(n.Content[0], aliasDepth)
	}
	return nil, c.fail(n, "unsupported node")
}

// merge applies a YAML merge key: entries from the merged mapping(s) that the
// target does not define yet are appended.
func (c *converter) merge(target *Node, v *yaml.Node, aliasDepth int) error {
	src, err := c.convert(v, aliasDepth)
	if err != nil {
		return err
	}
	sources := []*Node{src}
	if src.Kind == SequenceKind {
		sources = src.Items
	}
	for _, s := range sources {
		if s.Kind != MappingKind {
			return c.fail(v, "merge value must be a mapping or a sequence of mappings")
		}
		for _, e := range s.Entries {
			setEntry(target, e.Key, e.Value, false)
		}
	}
	return nil
}

// setEntry stores key in a mapping and reports whether the key was already
// present. A duplicate key keeps its first position; overwrite selects
// whether the later value wins.
func setEntry(m *Node, key string, val *Node, overwrite bool) bool {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			if overwrite {
				m.Entries[i].Value = val
			}
			return true
		}
	}
	m.Entries = append(m.Entries, Entry{Key: key, Value: val})
	return false
}

// Equal reports whether two trees hold the same keys, order, and values.
// Positions are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case MappingKind:
		if len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if a.Entries[i].Key != b.Entries[i].Key || !Equal(a.Entries[i].Value, b.Entries[i].Value) {
				return false
			}
		}
		return true
	case SequenceKind:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	}
	return scalarEqual(a.Value, b.Value)
}

func scalarEqual(a, b any) bool {
	na, aNum := asFloat(a)
	nb, bNum := asFloat(b)
	if aNum && bNum {
		return na == nb
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	n := &Node{Kind: ScalarKind, Value: v}
	return n.Number()
}
