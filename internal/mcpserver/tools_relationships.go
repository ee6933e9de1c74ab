package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/ir"
)

type relationshipsInput struct {
	Handle      string    `json:"handle,omitempty"      jsonschema:"Model handle returned by the compile tool"`
	Spec        specInput `json:"spec,omitempty"        jsonschema:"The OpenAPI document, when no handle is given"`
	Entity      string    `json:"entity,omitempty"      jsonschema:"Only edges touching this entity (either side)"`
	Cardinality string    `json:"cardinality,omitempty" jsonschema:"Filter by cardinality: one-to-one, one-to-many, or many-to-many"`
	Offset      int       `json:"offset,omitempty"      jsonschema:"Skip the first N edges (for pagination)"`
	Limit       int       `json:"limit,omitempty"       jsonschema:"Maximum number of edges to return (default 100)"`
}

type relationshipsOutput struct {
	Total         int                   `json:"total"`
	Matched       int                   `json:"matched"`
	Returned      int                   `json:"returned"`
	Relationships []ir.RelationshipEdge `json:"relationships,omitempty"`
}

var validCardinalities = map[string]bool{
	string(ir.OneToOne): true, string(ir.OneToMany): true, string(ir.ManyToMany): true,
}

func handleRelationships(ctx context.Context, _ *mcp.CallToolRequest, input relationshipsInput) (*mcp.CallToolResult, relationshipsOutput, error) {
	if input.Cardinality != "" && !validCardinalities[input.Cardinality] {
		return errResult(fmt.Errorf("invalid cardinality %q; valid values: one-to-one, one-to-many, many-to-many", input.Cardinality)), relationshipsOutput{}, nil
	}
	_, m, err := modelInput{Handle: input.Handle, Spec: input.Spec}.model(ctx)
	if err != nil {
		return errResult(err), relationshipsOutput{}, nil
	}

	var matched []ir.RelationshipEdge
	for _, r := range m.Relationships {
		if input.Entity != "" && r.From != input.Entity && r.To != input.Entity {
			continue
		}
		if input.Cardinality != "" && string(r.Cardinality) != input.Cardinality {
			continue
		}
		matched = append(matched, r)
	}

	page := paginate(matched, input.Offset, input.Limit)
	return nil, relationshipsOutput{
		Total:         len(m.Relationships),
		Matched:       len(matched),
		Returned:      len(page),
		Relationships: page,
	}, nil
}
