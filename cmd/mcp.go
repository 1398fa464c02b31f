package cmd

import (
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/huangsam/callerid/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the callerid MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents resolve phone numbers,
check the cache status and trigger a refresh.

The cache follows the stored preference: run 'callerid enable' first.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr := newResolver(rootCtx, cfg, iocache.Stores)
		return mcp.StartMCPServer(rootCtx, mgr, version)
	},
}
