package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/oaserrors"
)

// literalKeys hold payloads whose contents are data, not schema. Nodes
// beneath them are indexed but never treated as $ref sites.
var literalKeys = map[string]bool{
	"example": true,
	"default": true,
	"enum":    true,
	"const":   true,
}

// nameContainers are mappings keyed by user-chosen names, where a key such as
// "default" or "enum" is a name rather than a keyword.
var nameContainers = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"responses":         true,
	"schemas":           true,
	"parameters":        true,
	"headers":           true,
	"requestBodies":     true,
	"securitySchemes":   true,
	"examples":          true,
	"content":           true,
	"links":             true,
	"callbacks":         true,
	"$defs":             true,
}

// isLiteral reports whether the value stored under key in the mapping at
// parent is data rather than document structure.
func isLiteral(parent, key string, value *loader.Node) bool {
	rest, name := lastToken(parent)
	// An Example Object holds its payload under value: #/.../examples/<name>/value.
	if key == "value" || key == "externalValue" {
		owner, container := lastToken(rest)
		_, ownerKey := lastToken(owner)
		if container == "examples" && !nameContainers[ownerKey] {
			return true
		}
	}
	if nameContainers[name] {
		return false
	}
	if key == "examples" {
		// A schema lists example values; everywhere else examples maps names
		// to Example Objects.
		return value.Kind == loader.SequenceKind
	}
	return literalKeys[key]
}

func lastToken(ptr string) (rest, token string) {
	i := strings.LastIndex(ptr, "/")
	if i < 0 {
		return "", ptr
	}
	return ptr[:i], ptr[i+1:]
}

// Option configures Resolve.
type Option func(*config) error

type config struct {
	logger loader.Logger
}

// WithLogger sets the logger. Nil selects NopLogger.
func WithLogger(l loader.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// resolver holds the mutable state of one Resolve call.
type resolver struct {
	log   loader.Logger
	graph *Graph
	errs  []error
	// edges memoizes, per subtree root, the final targets of the references
	// located inside that subtree.
	edges  map[string][]string
	sorted []*Reference
}

// Resolve indexes root and resolves every $ref.
//
// Every dangling reference is collected; the returned error joins them and
// each unwraps to an *oaserrors.DanglingReferenceError. The graph is returned
// even on error so later stages can keep collecting problems.
func Resolve(root *loader.Node, opts ...Option) (*Graph, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("resolver: invalid options: %w", err)
		}
	}
	if root == nil {
		return nil, &oaserrors.ConfigError{Option: "root", Message: "resolver: document root is nil"}
	}

	r := &resolver{
		log: loader.OrNop(cfg.logger),
		graph: &Graph{
			root:   root,
			nodes:  make(map[string]*loader.Node),
			byFrom: make(map[string]*Reference),
		},
		edges: make(map[string][]string),
	}
	r.index(root, pathutil.Root, false)
	for _, ref := range r.graph.refs {
		r.resolve(ref)
	}
	r.sorted = slices.Clone(r.graph.refs)
	slices.SortFunc(r.sorted, func(a, b *Reference) int { return strings.Compare(a.From, b.From) })
	cyclic := 0
	for _, ref := range r.graph.refs {
		if r.markCyclic(ref) {
			cyclic++
		}
	}

	r.log.Debug("resolved references",
		"nodes", len(r.graph.order),
		"refs", len(r.graph.refs),
		"cyclic", cyclic,
		"dangling", len(r.errs))
	return r.graph, errors.Join(r.errs...)
}

// index records n and its subtree, registering $ref sites.
func (r *resolver) index(n *loader.Node, ptr string, literal bool) {
	r.graph.nodes[ptr] = n
	r.graph.order = append(r.graph.order, ptr)

	switch n.Kind {
	case loader.MappingKind:
		if !literal {
			if refNode, ok := n.Lookup("$ref"); ok {
				if s, isStr := refNode.Str(); isStr {
					ref := &Reference{From: ptr, Ref: s, Line: refNode.Line, Column: refNode.Column}
					r.graph.refs = append(r.graph.refs, ref)
					r.graph.byFrom[ptr] = ref
				}
			}
		}
		for _, e := range n.Entries {
			r.index(e.Value, pathutil.Append(ptr, e.Key), literal || isLiteral(ptr, e.Key, e.Value))
		}
	case loader.SequenceKind:
		for i, item := range n.Items {
			r.index(item, fmt.Sprintf("%s/%d", ptr, i), literal)
		}
	}
}

func (r *resolver) dangling(ref *Reference, reason string) {
	ref.Dangling = true
	ref.Reason = reason
	r.errs = append(r.errs, &oaserrors.DanglingReferenceError{
		Pointer:  ref.Ref,
		Location: ref.From,
		Line:     ref.Line,
		Column:   ref.Column,
		Reason:   reason,
	})
}

// target canonicalizes a reference string and checks it exists.
func (r *resolver) target(raw string) (string, string) {
	if !pathutil.IsLocal(raw) {
		return "", "external references are not supported"
	}
	ptr, err := pathutil.Canonical(raw)
	if err != nil {
		return "", err.Error()
	}
	if _, ok := r.graph.nodes[ptr]; !ok {
		return ptr, "target does not exist"
	}
	return ptr, ""
}

// resolve sets Target and follows the alias chain to Final.
func (r *resolver) resolve(ref *Reference) {
	target, reason := r.target(ref.Ref)
	ref.Target = target
	if reason != "" {
		r.dangling(ref, reason)
		return
	}

	stack := []string{ref.From}
	cur := target
	for {
		if slices.Contains(stack, cur) {
			ref.AliasCycle = true
			ref.Final = cur
			r.log.Debug("alias cycle", "from", ref.From, "chain", ref.Chain)
			return
		}
		stack = append(stack, cur)
		ref.Chain = append(ref.Chain, cur)

		next, isRef := r.graph.byFrom[cur]
		if !isRef {
			ref.Final = cur
			return
		}
		nt, reason := r.target(next.Ref)
		if reason != "" {
			// the inner site reports itself
			ref.ChainBroken = true
			ref.Final = cur
			return
		}
		cur = nt
	}
}

// markCyclic reports whether ref's target can reach a node containing ref.
func (r *resolver) markCyclic(ref *Reference) bool {
	if ref.Dangling || ref.ChainBroken {
		return false
	}
	if ref.AliasCycle {
		ref.Cyclic = true
		return true
	}

	visited := map[string]bool{}
	queue := []string{ref.Final}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if pathutil.Contains(cur, ref.From) {
			ref.Cyclic = true
			return true
		}
		queue = append(queue, r.outgoing(cur)...)
	}
	return false
}

// outgoing returns the final targets of references inside the subtree at root.
func (r *resolver) outgoing(root string) []string {
	if out, ok := r.edges[root]; ok {
		return out
	}
	var out []string
	for _, inner := range refsWithin(r.sorted, root) {
		if inner.Resolved() || inner.AliasCycle {
			out = append(out, inner.Final)
		}
	}
	r.edges[root] = out
	return out
}
