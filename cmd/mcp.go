package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/gitpulse/internal/iostate"
	"github.com/huangsam/gitpulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitpulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query dashboards,
open detail panes and change the filter of a session.

Datasets given with --data are loaded up front; agents can load more with the
load_data tool. With --persist, filter and level changes are saved.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, session, iostate.Manager.Store())
	},
}
