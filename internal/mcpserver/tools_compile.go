package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type compileInput struct {
	Spec specInput `json:"spec" jsonschema:"The OpenAPI 3.x document to compile"`
}

type compileOutput struct {
	Handle            string `json:"handle,omitempty"`
	Title             string `json:"title"`
	Version           string `json:"version"`
	OpenAPI           string `json:"openapi"`
	EntityCount       int    `json:"entity_count"`
	SchemaCount       int    `json:"schema_count"`
	OperationCount    int    `json:"operation_count"`
	RelationshipCount int    `json:"relationship_count"`
	Valid             bool   `json:"valid"`
	ErrorCount        int    `json:"error_count"`
	WarningCount      int    `json:"warning_count"`
}

func handleCompile(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	handle, m, err := input.Spec.compile(ctx)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}
	return nil, compileOutput{
		Handle:            handle,
		Title:             m.Title,
		Version:           m.Version,
		OpenAPI:           m.OpenAPI,
		EntityCount:       len(m.Entities),
		SchemaCount:       m.Schemas.Len(),
		OperationCount:    len(m.Operations),
		RelationshipCount: len(m.Relationships),
		Valid:             m.Report.IsValid(),
		ErrorCount:        m.Report.ErrorCount(),
		WarningCount:      m.Report.WarningCount(),
	}, nil
}
