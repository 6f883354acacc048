package main

import (
	"os"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive handset console",
	Long: `Starts a simulated handset. Type a code such as *123#; it is sent as soon as it ends
with #. Reply to menus with option numbers (9 back, 0 exit) and type :help for commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noDelay, _ := cmd.Flags().GetBool("no-delay")
		plain, _ := cmd.Flags().GetBool("plain")
		manual, _ := cmd.Flags().GetBool("manual-send")
		device, _ := cmd.Flags().GetString("device")
		sim, _ := cmd.Flags().GetString("sim")

		st, err := loadStack(cmd, cli.StackOptions{NoDelay: noDelay})
		if err != nil {
			return err
		}
		defer st.Close()

		interactive := !plain && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
		return cli.RunConsole(cmd.Context(), st, cli.ConsoleOptions{
			In:          os.Stdin,
			Out:         os.Stdout,
			Interactive: interactive,
			DeviceID:    device,
			SIMSlot:     sim,
			NoAutoDial:  manual,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("device", "", "Device ID to dial from (see 'ussdsim devices ls')")
	runCmd.Flags().String("sim", "", "SIM slot of the device, e.g. \"Slot 2\"")
	runCmd.Flags().Bool("no-delay", false, "Answer immediately instead of simulating network latency")
	runCmd.Flags().Bool("plain", false, "Disable the banner and colours")
	runCmd.Flags().Bool("manual-send", false, "Only send a code when Enter is pressed on an empty line")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
