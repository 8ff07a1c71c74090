package cmd

import (
	"context"

	"github.com/haierkeys/fast-note-ai-service/internal/routers/mcp_router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [-c config_file]",
	Short: "Serve note tools over MCP on stdin/stdout",
	Long: `Serve note tools over the Model Context Protocol on stdin/stdout.

Tools: create_note, get_note, search_notes, ingest_note.
Logs are written to stderr and the configured log file only.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		a, err := newAppWithConfig(configPath)
		if err != nil {
			bootstrapLogger.Error("mcp service start err", zap.Error(err))
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
			defer cancel()
			_ = a.Shutdown(ctx)
		}()

		if err := mcp_router.ServeStdio(a); err != nil {
			a.Logger().Error("mcp server error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("config", "c", "", "config file path")
}
