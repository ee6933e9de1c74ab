package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/resolver"
)

// Option configures Normalize.
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

// Result holds the normalized schema arena.
type Result struct {
	// Schemas is the arena holding every normalized schema position.
	Schemas *ir.SchemaSet
	// Entities lists the component schemas that normalized, in declaration order.
	Entities []ir.EntityRef

	failed     map[string]bool
	components []string
}

// Failed reports whether normalizing the schema position ptr failed. The
// failure has already been reported, so later stages must not report it again.
func (r *Result) Failed(ptr string) bool {
	return r.failed[ptr]
}

// Resolved returns the component schema pointers that normalized cleanly.
func (r *Result) Resolved() []string {
	var out []string
	for _, ptr := range r.components {
		if _, ok := r.Schemas.IDFor(ptr); ok {
			out = append(out, ptr)
		}
	}
	return out
}

// normalizer holds the mutable state of one Normalize call.
type normalizer struct {
	g      *resolver.Graph
	log    loader.Logger
	set    *ir.SchemaSet
	done   map[string]string
	failed map[string]bool
	active map[string]bool
	errs   []error

	// stack holds the positions being normalized, outermost first.
	stack []frame
	// unwind names the $ref site every frame above it is abandoning; empty
	// when no deferral is in progress.
	unwind string
	// deferred lists the targets of deferred $ref sites still to normalize.
	deferred []string
}

type frame struct {
	ptr string
	ref bool
}

// Normalize converts every schema position of the graph into ir.Schema nodes.
//
// Component schemas are visited first, then the schema positions under
// components parameters, request bodies, responses, and headers, then those
// under paths, all in document order. Every contradiction is collected; the
// returned error joins them and each unwraps to an *oaserrors.SchemaError.
// The Result is returned even on error.
func Normalize(g *resolver.Graph, opts ...Option) (*Result, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("normalizer: invalid options: %w", err)
		}
	}
	if g == nil {
		return nil, &oaserrors.ConfigError{Option: "graph", Message: "normalizer: reference graph is nil"}
	}

	z := &normalizer{
		g:      g,
		log:    loader.OrNop(cfg.logger),
		set:    ir.NewSchemaSet(),
		done:   make(map[string]string),
		failed: make(map[string]bool),
		active: make(map[string]bool),
	}
	res := &Result{Schemas: z.set, failed: z.failed}

	root := g.Root()
	if schemas, ok := root.Get("components").Lookup("schemas"); ok {
		base := pathutil.Append(pathutil.RefPrefixComponents, "schemas")
		if !schemas.IsMapping() {
			z.fail(base, schemas, "components schemas must be a mapping")
		} else {
			for _, e := range schemas.Entries {
				ptr := pathutil.SchemaRef(e.Key)
				res.components = append(res.components, ptr)
				if id, ok := z.normalizeAt(ptr); ok {
					res.Entities = append(res.Entities, ir.EntityRef{Name: e.Key, Schema: id})
				}
			}
		}
	}
	z.discoverComponents()
	z.discoverPaths()

	z.log.Debug("normalized schemas",
		"schemas", z.set.Len(),
		"entities", len(res.Entities),
		"errors", len(z.errs))
	return res, errors.Join(z.errs...)
}

func location(ptr string, n *loader.Node) ir.Location {
	loc := ir.Location{Pointer: ptr}
	if n != nil {
		loc.Line, loc.Column = n.Line, n.Column
	}
	return loc
}

// fail records a schema error at ptr.
func (z *normalizer) fail(ptr string, n *loader.Node, reason string) {
	z.failed[ptr] = true
	loc := location(ptr, n)
	z.errs = append(z.errs, &oaserrors.SchemaError{
		Reason:   reason,
		Location: ptr,
		Line:     loc.Line,
		Column:   loc.Column,
	})
}

// normalizeAt returns the schema id for the schema position ptr.
func (z *normalizer) normalizeAt(ptr string) (string, bool) {
	if id, ok := z.done[ptr]; ok {
		return id, true
	}
	if z.failed[ptr] || z.unwind != "" {
		return "", false
	}

	ref, isRef := z.g.RefAt(ptr)
	z.stack = append(z.stack, frame{ptr: ptr, ref: isRef})
	var id string
	var ok bool
	if isRef {
		id, ok = z.normalizeRef(ptr, ref)
	} else {
		id, ok = z.normalizeNode(ptr)
	}
	z.stack = z.stack[:len(z.stack)-1]

	if len(z.stack) == 0 {
		z.drainDeferred()
	}
	return id, ok
}

func (z *normalizer) normalizeNode(ptr string) (string, bool) {
	n, ok := z.g.Node(ptr)
	if !ok {
		z.failed[ptr] = true
		return "", false
	}

	z.active[ptr] = true
	s, ok := z.build(ptr, n)
	delete(z.active, ptr)
	if !ok {
		if z.unwind == "" {
			z.failed[ptr] = true
		}
		return "", false
	}
	z.set.Add(s)
	z.done[ptr] = ptr
	return ptr, true
}

// normalizeRef records a $ref position as an alias to its target, or as a
// placeholder when the target is part of a cycle still being normalized.
func (z *normalizer) normalizeRef(ptr string, ref resolver.Reference) (string, bool) {
	switch {
	case ref.Dangling || ref.ChainBroken:
		// reported by the resolver
		z.failed[ptr] = true
		return "", false
	case ref.AliasCycle:
		return z.placeholder(ptr, ref.Target, ref), true
	case z.active[ref.Final]:
		// An allOf member needs its target complete. When the cycle passes
		// through some other $ref, that site becomes the placeholder instead.
		if isAllOfMember(ptr) {
			if site := z.deferralSite(ref.Final); site != "" {
				z.unwind = site
				return "", false
			}
		}
		return z.placeholder(ptr, ref.Final, ref), true
	}

	id, ok := z.normalizeAt(ref.Final)
	if !ok {
		if z.unwind == ptr {
			z.unwind = ""
			z.deferred = append(z.deferred, ref.Final)
			return z.placeholder(ptr, ref.Final, ref), true
		}
		if z.unwind == "" {
			z.failed[ptr] = true
		}
		return "", false
	}
	z.set.Alias(ptr, id)
	z.done[ptr] = id
	return id, true
}

// deferralSite returns the innermost active $ref site between the current
// position and target that is not itself an allOf member, or "" when the
// cycle runs through allOf members only.
func (z *normalizer) deferralSite(target string) string {
	for i := len(z.stack) - 2; i >= 0; i-- {
		f := z.stack[i]
		if f.ptr == target && !f.ref {
			return ""
		}
		if f.ref && !isAllOfMember(f.ptr) {
			return f.ptr
		}
	}
	return ""
}

// drainDeferred normalizes the targets whose $ref sites were deferred.
func (z *normalizer) drainDeferred() {
	for len(z.deferred) > 0 {
		target := z.deferred[0]
		z.deferred = z.deferred[1:]
		z.normalizeAt(target)
	}
}

// isAllOfMember reports whether ptr is a direct member of an allOf list.
func isAllOfMember(ptr string) bool {
	i := strings.LastIndexByte(ptr, '/')
	if i < 0 {
		return false
	}
	return strings.HasSuffix(ptr[:i], "/allOf")
}

func (z *normalizer) placeholder(ptr, target string, ref resolver.Reference) string {
	s := &ir.Schema{
		ID:       ptr,
		Name:     componentName(ptr),
		Kind:     ir.KindPlaceholder,
		Target:   target,
		Location: ir.Location{Pointer: ptr, Line: ref.Line, Column: ref.Column},
	}
	z.set.Add(s)
	z.done[ptr] = ptr
	z.log.Debug("cycle placeholder", "at", ptr, "target", target)
	return ptr
}

func componentName(ptr string) string {
	name, _ := pathutil.ComponentName(ptr, pathutil.RefPrefixSchemas)
	return name
}
