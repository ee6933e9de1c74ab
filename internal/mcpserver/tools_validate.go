package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasir/validator"
)

type validateInput struct {
	Handle        string    `json:"handle,omitempty"         jsonschema:"Model handle returned by the compile tool"`
	Spec          specInput `json:"spec,omitempty"           jsonschema:"The OpenAPI document, when no handle is given"`
	Strict        *bool     `json:"strict,omitempty"         jsonschema:"Promote warnings to errors"`
	NoWarnings    *bool     `json:"no_warnings,omitempty"    jsonschema:"Suppress warnings from output"`
	DisabledRules []string  `json:"disabled_rules,omitempty" jsonschema:"Rule ids to skip"`
	Offset        int       `json:"offset,omitempty"         jsonschema:"Skip the first N diagnostics (for pagination)"`
	Limit         int       `json:"limit,omitempty"          jsonschema:"Maximum number of diagnostics to return (default 100)"`
}

type diagnosticItem struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Pointer  string `json:"pointer"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

type validateOutput struct {
	Valid        bool             `json:"valid"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
	Returned     int              `json:"returned"`
	Diagnostics  []diagnosticItem `json:"diagnostics,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	_, m, err := modelInput{Handle: input.Handle, Spec: input.Spec}.model(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	report := validator.Validate(m,
		validator.WithStrictMode(strict),
		validator.WithIncludeWarnings(!noWarnings),
		validator.WithDisabledRules(input.DisabledRules...),
	)

	output := validateOutput{
		Valid:        report.IsValid(),
		ErrorCount:   report.ErrorCount(),
		WarningCount: report.WarningCount(),
	}
	page := paginate(report.Diagnostics, input.Offset, input.Limit)
	output.Diagnostics = makeSlice[diagnosticItem](len(page))
	for _, d := range page {
		output.Diagnostics = append(output.Diagnostics, diagnosticItem{
			Severity: d.Severity.String(),
			Rule:     d.RuleID,
			Message:  d.Message,
			Pointer:  d.Location.Pointer,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
		})
	}
	output.Returned = len(output.Diagnostics)
	return nil, output, nil
}
