package main

import (
	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage sessions held in Redis",
	Long:  `List, inspect, and remove sessions shared by 'ussdsim serve' replicas through Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		return cli.ListSessions(cmd.Context(), cmd.OutOrStdout(), st)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		return cli.InspectSession(cmd.Context(), cmd.OutOrStdout(), st, args[0])
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		return cli.RemoveSessions(cmd.Context(), cmd.OutOrStdout(), st, args)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
