package ir

import (
	"maps"

	gojson "github.com/goccy/go-json"
)

// maxPlaceholderHops bounds placeholder chains followed by Resolve.
const maxPlaceholderHops = 64

// SchemaSet is the arena of normalized schemas, keyed by id.
//
// Every schema position of the document maps to an id: either the id of a
// node stored at that position, or an alias to the id of the node a $ref
// points at. Nodes are stored once and never modified afterwards.
type SchemaSet struct {
	nodes   map[string]*Schema
	order   []string
	aliases map[string]string
}

// NewSchemaSet returns an empty arena.
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{
		nodes:   make(map[string]*Schema),
		aliases: make(map[string]string),
	}
}

// Add stores s under s.ID. It reports false, leaving the arena unchanged,
// when the id is already taken.
func (set *SchemaSet) Add(s *Schema) bool {
	if _, exists := set.nodes[s.ID]; exists {
		return false
	}
	set.nodes[s.ID] = s
	set.order = append(set.order, s.ID)
	return true
}

// Alias records that the schema position ptr stands for the node id.
func (set *SchemaSet) Alias(ptr, id string) {
	if ptr == id {
		return
	}
	set.aliases[ptr] = id
}

// Get returns the node stored under id.
func (set *SchemaSet) Get(id string) (*Schema, bool) {
	s, ok := set.nodes[id]
	return s, ok
}

// Has reports whether a node is stored under id.
func (set *SchemaSet) Has(id string) bool {
	_, ok := set.nodes[id]
	return ok
}

// IDFor returns the node id for a schema position, following an alias.
func (set *SchemaSet) IDFor(ptr string) (string, bool) {
	if _, ok := set.nodes[ptr]; ok {
		return ptr, true
	}
	id, ok := set.aliases[ptr]
	if !ok {
		return "", false
	}
	_, stored := set.nodes[id]
	return id, stored
}

// Lookup returns the node for a schema position.
func (set *SchemaSet) Lookup(ptr string) (*Schema, bool) {
	id, ok := set.IDFor(ptr)
	if !ok {
		return nil, false
	}
	return set.nodes[id], true
}

// Resolve returns the node for id, following placeholders to their target.
func (set *SchemaSet) Resolve(id string) (*Schema, bool) {
	s, ok := set.nodes[id]
	for hops := 0; ok && s.Kind == KindPlaceholder; hops++ {
		if hops >= maxPlaceholderHops {
			return nil, false
		}
		s, ok = set.nodes[s.Target]
	}
	return s, ok
}

// IDs returns every stored id in insertion order.
func (set *SchemaSet) IDs() []string {
	out := make([]string, len(set.order))
	copy(out, set.order)
	return out
}

// All returns every stored node in insertion order.
func (set *SchemaSet) All() []*Schema {
	out := make([]*Schema, 0, len(set.order))
	for _, id := range set.order {
		out = append(out, set.nodes[id])
	}
	return out
}

// Aliases returns a copy of the position → id alias table.
func (set *SchemaSet) Aliases() map[string]string {
	return maps.Clone(set.aliases)
}

// Len returns the number of stored nodes.
func (set *SchemaSet) Len() int {
	return len(set.order)
}

// schemaSetView is the serialized form of a SchemaSet.
type schemaSetView struct {
	Schemas []*Schema         `json:"schemas" yaml:"schemas"`
	Aliases map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

func (set *SchemaSet) view() schemaSetView {
	return schemaSetView{Schemas: set.All(), Aliases: set.aliases}
}

// MarshalYAML implements yaml.Marshaler.
func (set *SchemaSet) MarshalYAML() (any, error) {
	return set.view(), nil
}

// MarshalJSON implements json.Marshaler.
func (set *SchemaSet) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(set.view())
}
