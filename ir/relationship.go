package ir

// Cardinality describes how many instances of each side a relationship joins.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToMany Cardinality = "many-to-many"
)

// RelationshipSource says which heuristic produced an edge.
type RelationshipSource string

const (
	// SourceReference means a property references the other entity's schema.
	SourceReference RelationshipSource = "reference"
	// SourceNaming means a scalar property is named after the other entity.
	SourceNaming RelationshipSource = "naming"
)

// RelationshipEdge is an inferred relationship between two entities.
//
// Edges are a generation aid, not a source of truth for foreign keys.
type RelationshipEdge struct {
	From        string      `json:"from" yaml:"from"`
	To          string      `json:"to" yaml:"to"`
	Cardinality Cardinality `json:"cardinality" yaml:"cardinality"`
	// ForeignKeyProperty is the property on From that carries the relationship.
	ForeignKeyProperty string `json:"foreignKeyProperty" yaml:"foreignKeyProperty"`
	// InverseProperty is the property on To pointing back, when one exists.
	InverseProperty string             `json:"inverseProperty,omitempty" yaml:"inverseProperty,omitempty"`
	Source          RelationshipSource `json:"source" yaml:"source"`
}
