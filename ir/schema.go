package ir

// SchemaKind classifies a normalized schema.
type SchemaKind string

const (
	// KindScalar is a string, integer, number, or boolean value, or an
	// unconstrained value when Type is empty.
	KindScalar SchemaKind = "scalar"
	// KindObject has named properties.
	KindObject SchemaKind = "object"
	// KindArray has an item schema.
	KindArray SchemaKind = "array"
	// KindEnum is a closed set of literal values.
	KindEnum SchemaKind = "enum"
	// KindUnion is a oneOf or anyOf choice between member schemas.
	KindUnion SchemaKind = "union"
	// KindPlaceholder stands in for a schema that is still being normalized
	// when a cycle reaches it. Target holds the real schema id.
	KindPlaceholder SchemaKind = "reference-cycle-placeholder"
)

// Composition identifies how a union combines its members.
type Composition string

const (
	// CompositionOneOf means exactly one member matches.
	CompositionOneOf Composition = "oneOf"
	// CompositionAnyOf means one or more members match.
	CompositionAnyOf Composition = "anyOf"
)

// Property is one named property of an object schema.
type Property struct {
	Name   string `json:"name" yaml:"name"`
	Schema string `json:"schema" yaml:"schema"`
}

// DiscriminatorMapping maps a discriminator value to a schema id.
type DiscriminatorMapping struct {
	Value  string `json:"value" yaml:"value"`
	Schema string `json:"schema" yaml:"schema"`
}

// Discriminator records the property that selects a union member.
type Discriminator struct {
	PropertyName string                 `json:"propertyName" yaml:"propertyName"`
	Mapping      []DiscriminatorMapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

// Constraints holds validation keywords. Nil pointers mean unset.
type Constraints struct {
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`
	MinLength        *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinItems         *int     `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`
	MinProperties    *int     `json:"minProperties,omitempty" yaml:"minProperties,omitempty"`
	MaxProperties    *int     `json:"maxProperties,omitempty" yaml:"maxProperties,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.Minimum == nil && c.Maximum == nil && !c.ExclusiveMinimum && !c.ExclusiveMaximum &&
		c.MultipleOf == nil && c.MinLength == nil && c.MaxLength == nil && c.Pattern == "" &&
		c.MinItems == nil && c.MaxItems == nil && !c.UniqueItems &&
		c.MinProperties == nil && c.MaxProperties == nil
}

// Schema is one normalized schema node. Nodes reference each other only by
// id through the owning SchemaSet.
type Schema struct {
	// ID is the pointer of the schema position that produced this node.
	ID string `json:"id" yaml:"id"`
	// Name is the component name for component schemas.
	Name string     `json:"name,omitempty" yaml:"name,omitempty"`
	Kind SchemaKind `json:"kind" yaml:"kind"`
	// Type is the scalar or enum base type; empty means unconstrained.
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string   `json:"required,omitempty" yaml:"required,omitempty"`
	// AdditionalProperties is the id of the schema for undeclared properties.
	AdditionalProperties string `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	// NoAdditionalProperties records an explicit additionalProperties: false.
	NoAdditionalProperties bool `json:"noAdditionalProperties,omitempty" yaml:"noAdditionalProperties,omitempty"`

	Items string `json:"items,omitempty" yaml:"items,omitempty"`

	EnumValues []any `json:"enum,omitempty" yaml:"enum,omitempty"`

	Members       []string       `json:"members,omitempty" yaml:"members,omitempty"`
	Composition   Composition    `json:"composition,omitempty" yaml:"composition,omitempty"`
	Discriminator *Discriminator `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`

	// Target is the real schema id of a placeholder.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Extends lists the named schemas merged into this node by allOf.
	Extends []string `json:"extends,omitempty" yaml:"extends,omitempty"`

	Constraints Constraints `json:"constraints" yaml:"constraints,omitempty"`

	Nullable    bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty" yaml:"writeOnly,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Example     any    `json:"example,omitempty" yaml:"example,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`

	Location Location `json:"location" yaml:"location"`
}

// Property returns the schema id of the named property.
func (s *Schema) Property(name string) (string, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return "", false
}

// IsRequired reports whether name is in the required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether s stands in for a cyclic target.
func (s *Schema) IsPlaceholder() bool {
	return s.Kind == KindPlaceholder
}
