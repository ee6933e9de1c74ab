package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/internal/cliutil"
)

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			cliutil.Writef(a.stdout, "oasir v%s\n%s\n", oasir.Version(), oasir.BuildInfo())
		},
	}
}
