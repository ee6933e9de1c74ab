package relations

import (
	"sort"

	"github.com/erraggy/oasir/internal/naming"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/loader"
)

// Option configures Infer.
type Option func(*config)

type config struct {
	logger loader.Logger
}

// WithLogger sets the logger. Nil selects NopLogger.
func WithLogger(l loader.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// link is one property of an entity that references another entity.
type link struct {
	prop     string
	index    int
	target   string
	array    bool
	consumed bool
}

type entity struct {
	name   string
	index  int
	schema *ir.Schema
	links  []*link
}

type inferrer struct {
	schemas  *ir.SchemaSet
	entities []*entity
	byName   map[string]*entity
	byID     map[string]*entity
	edges    []ir.RelationshipEdge
}

// Infer returns the relationships between the object entities.
func Infer(entities []ir.EntityRef, schemas *ir.SchemaSet, opts ...Option) []ir.RelationshipEdge {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := loader.OrNop(cfg.logger)
	if schemas == nil {
		return nil
	}

	in := &inferrer{
		schemas: schemas,
		byName:  make(map[string]*entity),
		byID:    make(map[string]*entity),
	}
	for _, ref := range entities {
		s, ok := schemas.Resolve(ref.Schema)
		if !ok || s.Kind != ir.KindObject {
			continue
		}
		e := &entity{name: ref.Name, index: len(in.entities), schema: s}
		in.entities = append(in.entities, e)
		in.byName[e.name] = e
		if _, dup := in.byID[s.ID]; !dup {
			in.byID[s.ID] = e
		}
	}
	for _, e := range in.entities {
		e.links = in.links(e)
	}

	in.pairManyToMany()
	in.oneToMany()
	in.oneToOne()
	in.byNaming()
	in.sort()

	log.Debug("inferred relationships", "entities", len(in.entities), "edges", len(in.edges))
	return in.edges
}

func (in *inferrer) links(e *entity) []*link {
	var out []*link
	for i, p := range e.schema.Properties {
		s, ok := in.schemas.Resolve(p.Schema)
		if !ok {
			continue
		}
		if s.Kind == ir.KindArray {
			if target := in.entityOf(s.Items); target != nil {
				out = append(out, &link{prop: p.Name, index: i, target: target.name, array: true})
			}
			continue
		}
		if target := in.entityOf(p.Schema); target != nil {
			out = append(out, &link{prop: p.Name, index: i, target: target.name})
		}
	}
	return out
}

// entityOf returns the entity a schema id stands for, looking through
// placeholders and single-entity allOf wrappers that add no properties.
func (in *inferrer) entityOf(id string) *entity {
	if id == "" {
		return nil
	}
	s, ok := in.schemas.Resolve(id)
	if !ok {
		return nil
	}
	if e, ok := in.byID[s.ID]; ok {
		return e
	}
	if s.Kind == ir.KindObject && len(s.Extends) == 1 {
		if e, ok := in.byID[s.Extends[0]]; ok && len(s.Properties) == len(e.schema.Properties) {
			return e
		}
	}
	return nil
}

func (in *inferrer) pairManyToMany() {
	for _, a := range in.entities {
		for _, p := range a.links {
			if !p.array || p.consumed || p.target == a.name {
				continue
			}
			b := in.byName[p.target]
			for _, q := range b.links {
				if q.array && !q.consumed && q.target == a.name {
					p.consumed, q.consumed = true, true
					in.add(a, p, ir.ManyToMany, q.prop, ir.SourceReference)
					break
				}
			}
		}
	}
}

func (in *inferrer) oneToMany() {
	for _, a := range in.entities {
		for _, p := range a.links {
			if !p.array || p.consumed {
				continue
			}
			p.consumed = true
			inverse := ""
			if back := in.singleBackReference(in.byName[p.target], a.name, p); back != nil {
				back.consumed = true
				inverse = back.prop
			}
			in.add(a, p, ir.OneToMany, inverse, ir.SourceReference)
		}
	}
}

// singleBackReference returns the only unconsumed single reference from b to
// a, or nil when there is none or more than one.
func (in *inferrer) singleBackReference(b *entity, a string, exclude *link) *link {
	var found *link
	for _, q := range b.links {
		if q == exclude || q.array || q.consumed || q.target != a {
			continue
		}
		if found != nil {
			return nil
		}
		found = q
	}
	return found
}

func (in *inferrer) oneToOne() {
	for _, a := range in.entities {
		for _, p := range a.links {
			if p.consumed {
				continue
			}
			p.consumed = true
			in.add(a, p, ir.OneToOne, "", ir.SourceReference)
		}
	}
}

// byNaming adds edges for scalar properties named "<entity>Id".
func (in *inferrer) byNaming() {
	bySnake := make(map[string]*entity, len(in.entities))
	for _, e := range in.entities {
		bySnake[naming.ToSnakeCase(e.name)+"_id"] = e
	}
	for _, a := range in.entities {
		for i, p := range a.schema.Properties {
			b, ok := bySnake[naming.ToSnakeCase(p.Name)]
			if !ok || b == a || in.joined(a.name, b.name) {
				continue
			}
			s, ok := in.schemas.Resolve(p.Schema)
			if !ok || s.Kind != ir.KindScalar || (s.Type != "string" && s.Type != "integer") {
				continue
			}
			in.add(a, &link{prop: p.Name, index: i, target: b.name}, ir.OneToOne, "", ir.SourceNaming)
		}
	}
}

func (in *inferrer) joined(a, b string) bool {
	for _, e := range in.edges {
		if e.Source == ir.SourceReference && ((e.From == a && e.To == b) || (e.From == b && e.To == a)) {
			return true
		}
	}
	return false
}

func (in *inferrer) add(from *entity, p *link, card ir.Cardinality, inverse string, source ir.RelationshipSource) {
	in.edges = append(in.edges, ir.RelationshipEdge{
		From:               from.name,
		To:                 p.target,
		Cardinality:        card,
		ForeignKeyProperty: p.prop,
		InverseProperty:    inverse,
		Source:             source,
	})
}

// sort orders edges by declaring entity, then by property position.
func (in *inferrer) sort() {
	position := func(e ir.RelationshipEdge) (int, int) {
		from := in.byName[e.From]
		for i, p := range from.schema.Properties {
			if p.Name == e.ForeignKeyProperty {
				return from.index, i
			}
		}
		return from.index, len(from.schema.Properties)
	}
	sort.SliceStable(in.edges, func(i, j int) bool {
		ei, pi := position(in.edges[i])
		ej, pj := position(in.edges[j])
		if ei != ej {
			return ei < ej
		}
		return pi < pj
	})
}
