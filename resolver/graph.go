package resolver

import (
	"sort"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/loader"
)

// Reference is one $ref site.
type Reference struct {
	// From is the pointer of the mapping that holds the $ref.
	From string
	// Ref is the reference string as written.
	Ref string
	// Target is the canonical pointer the reference names ("" when it is not
	// a usable local reference).
	Target string
	// Final is the pointer reached after following alias chains: targets that
	// are themselves $ref mappings. Equal to Target for a direct reference.
	Final string
	// Chain lists every pointer visited from Target to Final, inclusive.
	Chain []string
	// AliasCycle reports an alias chain that returns to a pointer already on
	// it. Such a reference has no real target; consumers use a placeholder.
	AliasCycle bool
	// ChainBroken reports an alias chain ending at a dangling reference. The
	// dangling site itself carries the error.
	ChainBroken bool
	// Cyclic reports that the target can reach, through references inside
	// its own subtree, a node that contains this reference.
	Cyclic bool
	// Dangling reports a missing or unusable target.
	Dangling bool
	// Reason explains a dangling reference.
	Reason string
	// Line and Column locate the $ref value.
	Line   int
	Column int
}

// Resolved reports whether the reference leads to a real node.
func (r *Reference) Resolved() bool {
	return !r.Dangling && !r.AliasCycle && !r.ChainBroken
}

// Graph indexes every node of a document by canonical JSON pointer and
// records every $ref site. A Graph is immutable once Resolve returns.
type Graph struct {
	root   *loader.Node
	nodes  map[string]*loader.Node
	order  []string
	refs   []*Reference
	byFrom map[string]*Reference
}

// Root returns the document root.
func (g *Graph) Root() *loader.Node {
	return g.root
}

// Node returns the node at ptr.
func (g *Graph) Node(ptr string) (*loader.Node, bool) {
	n, ok := g.nodes[ptr]
	return n, ok
}

// Pointers returns every indexed pointer in document order.
func (g *Graph) Pointers() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of indexed nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// References returns every $ref site in document order.
func (g *Graph) References() []Reference {
	out := make([]Reference, len(g.refs))
	for i, r := range g.refs {
		out[i] = *r
		out[i].Chain = append([]string(nil), r.Chain...)
	}
	return out
}

// RefAt returns the reference held by the mapping at ptr.
func (g *Graph) RefAt(ptr string) (Reference, bool) {
	r, ok := g.byFrom[ptr]
	if !ok {
		return Reference{}, false
	}
	out := *r
	out.Chain = append([]string(nil), r.Chain...)
	return out, true
}

// Follow returns the node that ptr stands for: the final target when ptr
// holds a resolvable $ref, or the node at ptr otherwise. ok is false when ptr
// is unknown or its reference does not resolve.
func (g *Graph) Follow(ptr string) (node *loader.Node, final string, ok bool) {
	if r, isRef := g.byFrom[ptr]; isRef {
		if !r.Resolved() {
			return nil, "", false
		}
		ptr = r.Final
	}
	n, found := g.nodes[ptr]
	return n, ptr, found
}

// CyclicReferences returns the references marked Cyclic, in document order.
func (g *Graph) CyclicReferences() []Reference {
	var out []Reference
	for _, r := range g.refs {
		if r.Cyclic {
			out = append(out, *r)
		}
	}
	return out
}

// refsWithin returns the references whose site lies inside the subtree at
// root. sorted holds every reference ordered by From.
func refsWithin(sorted []*Reference, root string) []*Reference {
	if root == pathutil.Root {
		return sorted
	}
	var out []*Reference
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].From >= root })
	if i < len(sorted) && sorted[i].From == root {
		out = append(out, sorted[i])
	}
	prefix := root + "/"
	j := sort.Search(len(sorted), func(i int) bool { return sorted[i].From >= prefix })
	for ; j < len(sorted) && len(sorted[j].From) >= len(prefix) && sorted[j].From[:len(prefix)] == prefix; j++ {
		out = append(out, sorted[j])
	}
	return out
}
