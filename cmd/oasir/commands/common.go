package commands

import (
	"fmt"

	"github.com/erraggy/oasir/compiler"
	"github.com/erraggy/oasir/internal/cliutil"
	"github.com/erraggy/oasir/internal/fileutil"
	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/ir"
)

// compile runs the pipeline on path ("-" reads stdin) with the validation
// settings from configuration.
func (a *app) compile(path string) (*ir.Model, error) {
	opts := []compiler.Option{
		compiler.WithLogger(a.logger),
		compiler.WithMaxSize(a.v.GetInt64("max-size")),
		compiler.WithStrictMode(a.v.GetBool("strict")),
		compiler.WithIncludeWarnings(!a.v.GetBool("no-warnings")),
		compiler.WithDisabledRules(a.v.GetStringSlice("disable-rules")...),
	}
	if path == cliutil.StdinFilePath {
		opts = append(opts, compiler.WithReader(a.stdin), compiler.WithSourceName(cliutil.FormatSpecPath(path)))
	} else {
		opts = append(opts, compiler.WithFilePath(path))
	}
	return compiler.CompileWithOptions(opts...)
}

// emit writes data to the configured output file, or to stdout.
func (a *app) emit(data []byte) error {
	output := a.v.GetString("output")
	if output == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	clean, err := pathutil.SanitizeOutputPath(output)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(clean, data, fileutil.ReadableByAll); err != nil {
		return err
	}
	a.logger.Info("wrote output", "path", clean, "bytes", len(data))
	return nil
}

// summarize prints the diagnostic counts to stderr and reports whether the
// model is invalid.
func (a *app) summarize(source string, report ir.ValidationReport) error {
	cliutil.Writef(a.stderr, "%s: %d error(s), %d warning(s)\n",
		cliutil.FormatSpecPath(source), report.ErrorCount(), report.WarningCount())
	if !report.IsValid() {
		return fmt.Errorf("%s: %w", cliutil.FormatSpecPath(source), errInvalidModel)
	}
	return nil
}
