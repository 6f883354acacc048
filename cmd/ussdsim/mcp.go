package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/aretw0/ussdsim/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the simulator as MCP tools (dial, select_option, close_session, get_session,
list_codes) so AI agents can drive USSD sessions.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		noDelay, _ := cmd.Flags().GetBool("no-delay")

		st, err := loadStack(cmd, cli.StackOptions{NoDelay: noDelay, LogEvents: true})
		if err != nil {
			return err
		}
		defer st.Close()

		srv := mcp.NewServer(st.Sessions, st.Devices, st.Catalog, mcp.WithLogger(st.Logger))

		switch transport {
		case "stdio":
			// Logs go to stderr; stdout carries JSON-RPC.
			st.Logger.Info("Starting ussdsim MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			st.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("no-delay", false, "Answer immediately instead of simulating network latency")
}
