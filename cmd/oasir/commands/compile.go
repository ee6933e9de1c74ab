package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/internal/cliutil"
)

func (a *app) newCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] <file|->",
		Short: "Compile a document and print the IR",
		Long: `Compile an OpenAPI 3.x document and write the complete intermediate
representation (entities, schema arena, relationships, operations, and the
validation report) as JSON or YAML. Use '-' to read from stdin.

The exit code follows the validate command.`,
		Example: `  oasir compile openapi.yaml > model.json
  oasir compile --format yaml -o model.yaml openapi.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runCompile(args[0])
		},
	}
	addValidationFlags(cmd)
	cmd.Flags().String("format", cliutil.FormatJSON, "output format: json or yaml")
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) runCompile(path string) error {
	format := a.v.GetString("format")
	if err := cliutil.ValidateOutputFormat(format, cliutil.FormatJSON, cliutil.FormatYAML); err != nil {
		return err
	}

	m, err := a.compile(path)
	if err != nil {
		return err
	}
	data, err := cliutil.Marshal(m, format)
	if err != nil {
		return err
	}
	if err := a.emit(data); err != nil {
		return err
	}
	return a.summarize(path, m.Report)
}
