package main

import (
	"fmt"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/internal/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ussdsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ussdsim version %s\n", ussdsim.Version)
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported USSDSIM_* environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(envCmd)
}
