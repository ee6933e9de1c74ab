package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/ir"
)

type operationsInput struct {
	Handle  string    `json:"handle,omitempty"   jsonschema:"Model handle returned by the compile tool"`
	Spec    specInput `json:"spec,omitempty"     jsonschema:"The OpenAPI document, when no handle is given"`
	Method  string    `json:"method,omitempty"   jsonschema:"Filter by HTTP method (case-insensitive)"`
	Path    string    `json:"path,omitempty"     jsonschema:"Filter by path template; * matches one segment, e.g. /pets/*"`
	Tag     string    `json:"tag,omitempty"      jsonschema:"Filter by tag"`
	GroupBy string    `json:"group_by,omitempty" jsonschema:"Group results and return counts: tag or method"`
	Offset  int       `json:"offset,omitempty"   jsonschema:"Skip the first N operations (for pagination)"`
	Limit   int       `json:"limit,omitempty"    jsonschema:"Maximum number of operations to return (default 100)"`
}

type operationSummary struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	OperationID  string   `json:"operation_id,omitempty"`
	FunctionName string   `json:"function_name"`
	Summary      string   `json:"summary,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Deprecated   bool     `json:"deprecated,omitempty"`
	Parameters   int      `json:"parameters"`
	RequestBody  string   `json:"request_body,omitempty"`
	Success      string   `json:"success_schema,omitempty"`
}

type operationsOutput struct {
	Total      int                `json:"total"`
	Matched    int                `json:"matched"`
	Returned   int                `json:"returned"`
	Operations []operationSummary `json:"operations,omitempty"`
	Groups     []groupCount       `json:"groups,omitempty"`
}

func handleOperations(ctx context.Context, _ *mcp.CallToolRequest, input operationsInput) (*mcp.CallToolResult, operationsOutput, error) {
	if err := validateGroupBy(input.GroupBy, []string{"tag", "method"}); err != nil {
		return errResult(err), operationsOutput{}, nil
	}
	_, m, err := modelInput{Handle: input.Handle, Spec: input.Spec}.model(ctx)
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}

	var matched []ir.Operation
	for _, op := range m.Operations {
		if input.Method != "" && !strings.EqualFold(op.Method, input.Method) {
			continue
		}
		if input.Tag != "" && !op.HasTag(input.Tag) {
			continue
		}
		if !matchPath(input.Path, op.Path) {
			continue
		}
		matched = append(matched, op)
	}

	output := operationsOutput{Total: len(m.Operations), Matched: len(matched)}
	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, func(op ir.Operation) []string {
			if strings.EqualFold(input.GroupBy, "method") {
				return []string{op.Method}
			}
			if len(op.Tags) == 0 {
				return []string{"(untagged)"}
			}
			return op.Tags
		})
		return nil, output, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	output.Operations = makeSlice[operationSummary](len(page))
	for _, op := range page {
		summary := operationSummary{
			Method:       op.Method,
			Path:         op.Path,
			OperationID:  op.OperationID,
			FunctionName: op.FunctionName(),
			Summary:      op.Summary,
			Tags:         op.Tags,
			Deprecated:   op.Deprecated,
			Parameters:   len(op.Parameters()),
		}
		if op.RequestBody != nil && len(op.RequestBody.Content) > 0 {
			summary.RequestBody = describeSchema(m.Schemas, op.RequestBody.Content[0].Schema)
		}
		if r, ok := op.SuccessResponse(); ok {
			summary.Success = describeSchema(m.Schemas, r.Schema())
		}
		output.Operations = append(output.Operations, summary)
	}
	output.Returned = len(output.Operations)
	return nil, output, nil
}
