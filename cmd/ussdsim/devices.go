package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Inspect the simulated handsets",
}

var devicesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List devices and the operator of each SIM slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDEVICE\tSLOT\tOPERATOR")
		for _, d := range st.Devices.List() {
			for _, sim := range d.SIMs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, sim.Slot, sim.Operator)
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesLsCmd)
}
