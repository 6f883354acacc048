package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the simulator as a JSON API. Sessions are kept in process memory, or in Redis
when --redis (or USSDSIM_REDIS_ADDR) is set so several replicas can share them.
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noDelay, _ := cmd.Flags().GetBool("no-delay")

		st, err := loadStack(cmd, cli.StackOptions{NoDelay: noDelay, Metrics: true, LogEvents: true})
		if err != nil {
			return err
		}
		defer st.Close()

		addr := st.Config.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, st, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("no-delay", false, "Answer immediately instead of simulating network latency")
}
