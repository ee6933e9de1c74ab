package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir/internal/mcpserver"
)

func (a *app) newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the compiler as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the compile,
validate, entities, relationships, operations, and generate tools.

The server is configured with OASIR_* environment variables
(OASIR_CACHE_TTL, OASIR_LIST_LIMIT, OASIR_VALIDATE_STRICT, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Info("starting MCP server")
			return mcpserver.Run(cmd.Context())
		},
	}
}
