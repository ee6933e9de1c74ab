// Package commands provides the oasir CLI commands.
package commands

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/internal/cliutil"
	"github.com/erraggy/oasir/loader"
)

// Exit codes
const (
	ExitOK      = 0
	ExitInvalid = 1 // the model has error diagnostics
	ExitFailure = 2 // usage, I/O, or compilation errors
)

// errInvalidModel signals that the report was printed and holds errors.
var errInvalidModel = errors.New("model has error diagnostics")

// app carries the streams and configuration shared by every command.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger loader.Logger
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: loader.NopLogger{},
	}
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errInvalidModel):
		return ExitInvalid
	default:
		cliutil.Writef(stderr, "Error: %v\n", err)
		return ExitFailure
	}
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "oasir",
		Short: "Compile OpenAPI 3.x documents into a normalized IR",
		Long: `oasir resolves every $ref of an OpenAPI 3.x document, normalizes schema
composition, infers entity relationships, compiles operations, and validates
the result.

Configuration is read from flags, OASIR_* environment variables, and a
.oasir.yaml file in the working or home directory, in that order of precedence.`,
		Version:       oasir.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}
	root.SetVersionTemplate("oasir v{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: .oasir.yaml in the working or home directory)")
	pf.String("log-level", "warn", "log level: debug, info, warn, or error")
	pf.Int64("max-size", loader.DefaultMaxSize, "maximum document size in bytes")

	root.AddCommand(
		a.newValidateCommand(),
		a.newCompileCommand(),
		a.newGenerateCommand(),
		a.newMCPCommand(),
		a.newVersionCommand(),
	)
	return root
}
