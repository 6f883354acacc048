package main

import (
	"fmt"
	"os"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/aretw0/ussdsim/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ussdsim",
	Short: "ussdsim simulates USSD sessions against a catalog of canned responses",
	Long: `ussdsim lets you dial USSD codes such as *123# from a simulated handset and walk
through the operator menus, either in an interactive console, over HTTP or as MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML config file (USSDSIM_* environment variables override it)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")
	flags.String("catalog", "", "YAML response catalog (built-in when empty)")
	flags.String("devices", "", "YAML device list (built-in when empty)")
	flags.String("redis", "", "Redis address for shared sessions, e.g. localhost:6379")
}

// loadConfig reads the config file and environment, then applies explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	override := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("catalog", &cfg.Catalog)
	override("devices", &cfg.Devices)
	override("redis", &cfg.Redis.Addr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStack builds the simulator for a command.
func loadStack(cmd *cobra.Command, opts cli.StackOptions) (*cli.Stack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := cli.NewStack(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := st.Ping(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
