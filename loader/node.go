package loader

import "fmt"

// Kind identifies the shape of a Node.
type Kind int

const (
	// ScalarKind is a string, number, boolean, or null leaf.
	ScalarKind Kind = iota
	// MappingKind is an ordered key/value collection.
	MappingKind
	// SequenceKind is an ordered list.
	SequenceKind
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case MappingKind:
		return "mapping"
	case SequenceKind:
		return "sequence"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Node
}

// Node is one element of the raw document tree.
// Nodes are immutable once Load returns.
type Node struct {
	Kind Kind
	// Entries holds mapping entries in document order.
	Entries []Entry
	// Items holds sequence elements in document order.
	Items []*Node
	// Value is the decoded scalar: string, int, float64, bool, or nil.
	Value any
	// Line and Column are 1-based positions in the source (0 if unknown).
	Line   int
	Column int
}

// Lookup returns the value stored under key in a mapping node.
// It is safe to call on a nil node.
func (n *Node) Lookup(key string) (*Node, bool) {
	if n == nil || n.Kind != MappingKind {
		return nil, false
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Get returns the value stored under key, or nil.
func (n *Node) Get(key string) *Node {
	v, _ := n.Lookup(key)
	return v
}

// Has reports whether a mapping node holds key.
func (n *Node) Has(key string) bool {
	_, ok := n.Lookup(key)
	return ok
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != MappingKind {
		return nil
	}
	keys := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries or items, and 0 for scalars.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case MappingKind:
		return len(n.Entries)
	case SequenceKind:
		return len(n.Items)
	}
	return 0
}

// IsMapping reports whether n is a non-nil mapping.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == MappingKind }

// IsSequence reports whether n is a non-nil sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == SequenceKind }

// IsNull reports whether n is absent or an explicit null scalar.
func (n *Node) IsNull() bool {
	return n == nil || (n.Kind == ScalarKind && n.Value == nil)
}

// Str returns the scalar string value.
func (n *Node) Str() (string, bool) {
	if n == nil || n.Kind != ScalarKind {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// Text returns the child scalar string under key, or "".
func (n *Node) Text(key string) string {
	s, _ := n.Get(key).Str()
	return s
}

// Bool returns the scalar boolean value.
func (n *Node) Bool() (bool, bool) {
	if n == nil || n.Kind != ScalarKind {
		return false, false
	}
	b, ok := n.Value.(bool)
	return b, ok
}

// Flag returns the child boolean under key, or false.
func (n *Node) Flag(key string) bool {
	b, _ := n.Get(key).Bool()
	return b
}

// Number returns the scalar numeric value as a float64.
func (n *Node) Number() (float64, bool) {
	if n == nil || n.Kind != ScalarKind {
		return 0, false
	}
	switch v := n.Value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Interface converts the subtree into plain Go values (map[string]any,
// []any, scalars). Key order is lost; use it only for literal payloads such
// as examples and defaults.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case MappingKind:
		m := make(map[string]any, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = e.Value.Interface()
		}
		return m
	case SequenceKind:
		s := make([]any, len(n.Items))
		for i, item := range n.Items {
			s[i] = item.Interface()
		}
		return s
	}
	return n.Value
}

// Position renders "line:column" for messages.
func (n *Node) Position() string {
	if n == nil || n.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", n.Line, n.Column)
}
