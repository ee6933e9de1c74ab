package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/internal/cliutil"
	"github.com/erraggy/oasir/ir"
)

// validateResult is the structured output of the validate command.
type validateResult struct {
	Source       string          `json:"source" yaml:"source"`
	Valid        bool            `json:"valid" yaml:"valid"`
	ErrorCount   int             `json:"errorCount" yaml:"errorCount"`
	WarningCount int             `json:"warningCount" yaml:"warningCount"`
	Diagnostics  []ir.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

func (a *app) newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|->",
		Short: "Compile a document and report its diagnostics",
		Long: `Compile an OpenAPI 3.x document and print one line per diagnostic, sorted by
source location. Use '-' to read from stdin.

Exit codes:
  0  the document compiled and has no error diagnostics
  1  the model has error diagnostics
  2  the document could not be compiled`,
		Example: `  oasir validate openapi.yaml
  oasir validate --strict --format json openapi.yaml | jq '.valid'
  cat openapi.yaml | oasir validate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runValidate(args[0])
		},
	}
	addValidationFlags(cmd)
	cmd.Flags().String("format", cliutil.FormatText, "output format: text, json, or yaml")
	return cmd
}

// addValidationFlags declares the flags that tune the rule set.
func addValidationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("strict", false, "promote warnings to errors")
	f.Bool("no-warnings", false, "suppress warning diagnostics")
	f.StringSlice("disable-rules", nil, "rule ids to skip (comma-separated)")
}

func (a *app) runValidate(path string) error {
	format := a.v.GetString("format")
	if err := cliutil.ValidateOutputFormat(format, cliutil.FormatText, cliutil.FormatJSON, cliutil.FormatYAML); err != nil {
		return err
	}

	m, err := a.compile(path)
	if err != nil {
		return err
	}
	report := m.Report

	if format == cliutil.FormatText {
		for _, d := range report.Diagnostics {
			cliutil.Writef(a.stdout, "%s\n", d)
		}
	} else {
		data, err := cliutil.Marshal(validateResult{
			Source:       cliutil.FormatSpecPath(path),
			Valid:        report.IsValid(),
			ErrorCount:   report.ErrorCount(),
			WarningCount: report.WarningCount(),
			Diagnostics:  report.Diagnostics,
		}, format)
		if err != nil {
			return err
		}
		if _, err := a.stdout.Write(data); err != nil {
			return err
		}
	}
	return a.summarize(path, report)
}
