package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/generator"
	"github.com/erraggy/oasir/internal/cliutil"
	"github.com/erraggy/oasir/internal/pathutil"
)

func (a *app) newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <file|->",
		Short: "Render Go model types from a document",
		Long: `Compile an OpenAPI 3.x document and render one Go type per entity into
<output-dir>/<package>/models.go. Models with error diagnostics are refused;
warnings are logged and tolerated.`,
		Example: `  oasir generate --output-dir ./gen --package models openapi.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args[0])
		},
	}
	addValidationFlags(cmd)
	cmd.Flags().String("output-dir", ".", "directory to write generated files to")
	cmd.Flags().String("package", "", "Go package name (default: derived from the API title)")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, path string) error {
	dir, err := pathutil.SanitizeOutputPath(a.v.GetString("output-dir"))
	if err != nil {
		return err
	}
	m, err := a.compile(path)
	if err != nil {
		return err
	}

	backend := generator.GoModels{PackageName: a.v.GetString("package")}
	files, err := generator.Run(cmd.Context(), backend, m, generator.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if err := files.Write(dir); err != nil {
		return err
	}
	for _, p := range files.Paths() {
		cliutil.Writef(a.stdout, "%s\n", p)
	}
	return nil
}
