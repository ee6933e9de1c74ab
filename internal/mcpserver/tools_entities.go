package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/ir"
)

type entitiesInput struct {
	Handle string    `json:"handle,omitempty" jsonschema:"Model handle returned by the compile tool"`
	Spec   specInput `json:"spec,omitempty"   jsonschema:"The OpenAPI document, when no handle is given"`
	Name   string    `json:"name,omitempty"   jsonschema:"Filter by entity name (glob, e.g. Pet*)"`
	Kind   string    `json:"kind,omitempty"   jsonschema:"Filter by kind: object, array, scalar, enum, or union"`
	Detail bool      `json:"detail,omitempty" jsonschema:"Include each entity's properties"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N entities (for pagination)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of entities to return (default 100)"`
}

type propertySummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

type entitySummary struct {
	Name       string            `json:"name"`
	Schema     string            `json:"schema"`
	Kind       string            `json:"kind"`
	ClassName  string            `json:"class_name"`
	TableName  string            `json:"table_name"`
	Extends    []string          `json:"extends,omitempty"`
	Properties []propertySummary `json:"properties,omitempty"`
}

type entitiesOutput struct {
	Total    int             `json:"total"`
	Matched  int             `json:"matched"`
	Returned int             `json:"returned"`
	Entities []entitySummary `json:"entities,omitempty"`
}

func handleEntities(ctx context.Context, _ *mcp.CallToolRequest, input entitiesInput) (*mcp.CallToolResult, entitiesOutput, error) {
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), entitiesOutput{}, nil
	}
	_, m, err := modelInput{Handle: input.Handle, Spec: input.Spec}.model(ctx)
	if err != nil {
		return errResult(err), entitiesOutput{}, nil
	}

	var matched []entitySummary
	for _, e := range m.Entities {
		s, ok := m.Schemas.Resolve(e.Schema)
		if !ok || !matchGlob(input.Name, e.Name) {
			continue
		}
		if input.Kind != "" && string(s.Kind) != input.Kind {
			continue
		}
		summary := entitySummary{
			Name:      e.Name,
			Schema:    e.Schema,
			Kind:      string(s.Kind),
			ClassName: ir.ClassName(e.Name),
			TableName: ir.TableName(e.Name),
			Extends:   s.Extends,
		}
		if input.Detail {
			summary.Properties = makeSlice[propertySummary](len(s.Properties))
			for _, p := range s.Properties {
				summary.Properties = append(summary.Properties, propertySummary{
					Name:     p.Name,
					Type:     describeSchema(m.Schemas, p.Schema),
					Required: s.IsRequired(p.Name),
				})
			}
		}
		matched = append(matched, summary)
	}

	page := paginate(matched, input.Offset, input.Limit)
	return nil, entitiesOutput{
		Total:    len(m.Entities),
		Matched:  len(matched),
		Returned: len(page),
		Entities: page,
	}, nil
}

// describeSchema renders a short type description such as "string(uuid)",
// "array<Pet>", or "ref<Owner>" for a cyclic placeholder.
func describeSchema(set *ir.SchemaSet, id string) string {
	s, ok := set.Get(id)
	if !ok {
		return "unknown"
	}
	if s.IsPlaceholder() {
		if t, ok := set.Get(s.Target); ok && t.Name != "" {
			return "ref<" + t.Name + ">"
		}
		return "ref<" + s.Target + ">"
	}
	if s.Name != "" {
		return s.Name
	}
	switch s.Kind {
	case ir.KindArray:
		return "array<" + describeSchema(set, s.Items) + ">"
	case ir.KindObject:
		if s.AdditionalProperties != "" {
			return "map<" + describeSchema(set, s.AdditionalProperties) + ">"
		}
		return "object"
	case ir.KindUnion:
		return string(s.Composition)
	}
	t := s.Type
	if t == "" {
		t = "any"
	}
	if s.Kind == ir.KindEnum {
		t = "enum<" + t + ">"
	}
	if s.Format != "" {
		t += "(" + s.Format + ")"
	}
	return t
}
