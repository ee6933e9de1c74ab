package ir

import "slices"

// Copy returns a deep copy of the model.
func (m *Model) Copy() *Model {
	if m == nil {
		return nil
	}
	out := *m
	out.Servers = copyServers(m.Servers)
	out.Tags = slices.Clone(m.Tags)
	out.SecuritySchemes = copySecuritySchemes(m.SecuritySchemes)
	out.Entities = slices.Clone(m.Entities)
	out.Schemas = m.Schemas.Copy()
	out.Relationships = slices.Clone(m.Relationships)
	out.Operations = make([]Operation, len(m.Operations))
	for i := range m.Operations {
		out.Operations[i] = m.Operations[i].Copy()
	}
	out.DuplicateKeys = slices.Clone(m.DuplicateKeys)
	out.Report = ValidationReport{Diagnostics: slices.Clone(m.Report.Diagnostics)}
	if m.Operations == nil {
		out.Operations = nil
	}
	return &out
}

func copyServers(in []Server) []Server {
	if in == nil {
		return nil
	}
	out := make([]Server, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Variables = make([]ServerVariable, len(s.Variables))
		for j, v := range s.Variables {
			out[i].Variables[j] = v
			out[i].Variables[j].Enum = slices.Clone(v.Enum)
		}
		if s.Variables == nil {
			out[i].Variables = nil
		}
	}
	return out
}

func copySecuritySchemes(in []SecurityScheme) []SecurityScheme {
	if in == nil {
		return nil
	}
	out := make([]SecurityScheme, len(in))
	for i, s := range in {
		out[i] = s
		if s.Flows != nil {
			out[i].Flows = make([]OAuthFlow, len(s.Flows))
			for j, f := range s.Flows {
				out[i].Flows[j] = f
				out[i].Flows[j].Scopes = slices.Clone(f.Scopes)
			}
		}
	}
	return out
}

// Copy returns a deep copy of the arena.
func (set *SchemaSet) Copy() *SchemaSet {
	if set == nil {
		return nil
	}
	out := NewSchemaSet()
	for _, id := range set.order {
		out.Add(set.nodes[id].Copy())
	}
	for k, v := range set.aliases {
		out.aliases[k] = v
	}
	return out
}

// Copy returns a deep copy of the schema.
func (s *Schema) Copy() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Properties = slices.Clone(s.Properties)
	out.Required = slices.Clone(s.Required)
	out.Members = slices.Clone(s.Members)
	out.Extends = slices.Clone(s.Extends)
	if s.EnumValues != nil {
		out.EnumValues = make([]any, len(s.EnumValues))
		for i, v := range s.EnumValues {
			out.EnumValues[i] = copyValue(v)
		}
	}
	if s.Discriminator != nil {
		d := *s.Discriminator
		d.Mapping = slices.Clone(s.Discriminator.Mapping)
		out.Discriminator = &d
	}
	out.Constraints = s.Constraints.copy()
	out.Example = copyValue(s.Example)
	out.Default = copyValue(s.Default)
	return &out
}

func (c Constraints) copy() Constraints {
	out := c
	out.Minimum = clonePtr(c.Minimum)
	out.Maximum = clonePtr(c.Maximum)
	out.MultipleOf = clonePtr(c.MultipleOf)
	out.MinLength = clonePtr(c.MinLength)
	out.MaxLength = clonePtr(c.MaxLength)
	out.MinItems = clonePtr(c.MinItems)
	out.MaxItems = clonePtr(c.MaxItems)
	out.MinProperties = clonePtr(c.MinProperties)
	out.MaxProperties = clonePtr(c.MaxProperties)
	return out
}

// Copy returns a deep copy of the operation.
func (o Operation) Copy() Operation {
	out := o
	out.Tags = slices.Clone(o.Tags)
	out.PathParameters = copyParams(o.PathParameters)
	out.QueryParameters = copyParams(o.QueryParameters)
	out.HeaderParameters = copyParams(o.HeaderParameters)
	out.CookieParameters = copyParams(o.CookieParameters)
	if o.RequestBody != nil {
		rb := *o.RequestBody
		rb.Content = slices.Clone(o.RequestBody.Content)
		out.RequestBody = &rb
	}
	if o.Responses != nil {
		out.Responses = make([]Response, len(o.Responses))
		for i, r := range o.Responses {
			out.Responses[i] = r
			out.Responses[i].Content = slices.Clone(r.Content)
			out.Responses[i].Headers = slices.Clone(r.Headers)
		}
	}
	if o.Security != nil {
		out.Security = make([]SecurityRequirement, len(o.Security))
		for i, req := range o.Security {
			schemes := make([]SecurityScope, len(req.Schemes))
			for j, sc := range req.Schemes {
				schemes[j] = SecurityScope{Scheme: sc.Scheme, Scopes: slices.Clone(sc.Scopes)}
			}
			out.Security[i] = SecurityRequirement{Schemes: schemes}
		}
	}
	return out
}

func copyParams(in []Parameter) []Parameter {
	if in == nil {
		return nil
	}
	out := make([]Parameter, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Explode = clonePtr(p.Explode)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// copyValue deep-copies literal payloads built from maps, slices, and scalars.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	}
	return v
}
