package cmd

import (
	"github.com/huangsam/fairprice/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the fairprice MCP server",
	Long:  `Launch an MCP server that allows AI agents to run pricing analysis via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Results and logs stay off stdout, which carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
