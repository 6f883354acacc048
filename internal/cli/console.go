package cli

import (
	"context"
	"io"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/internal/presentation/tui"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/muesli/termenv"
)

// ConsoleOptions configures the interactive phone.
type ConsoleOptions struct {
	In  io.Reader
	Out io.Writer

	// Interactive enables the banner and coloured screens.
	Interactive bool

	DeviceID   string
	SIMSlot    string
	NoAutoDial bool
}

// RunConsole drives one handset session on the given streams until input ends or ":quit".
func RunConsole(ctx context.Context, st *Stack, opts ConsoleOptions) error {
	renderer := runner.PlainScreen
	if opts.Interactive {
		tui.PrintBanner(opts.Out, ussdsim.Version)
		renderer = tui.ScreenRenderer(termenv.NewOutput(opts.Out).Profile)
	}

	deviceID, slot := opts.DeviceID, opts.SIMSlot
	if deviceID == "" {
		deviceID = st.Config.Console.Device
	}
	if slot == "" {
		slot = st.Config.Console.SIM
	}

	r := runner.NewRunner(
		runner.WithLogger(st.Logger),
		runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out)),
		runner.WithRenderer(renderer),
		runner.WithDevices(st.Devices.List()),
		runner.WithDevice(deviceID, slot),
		runner.WithAutoDial(!opts.NoAutoDial),
	)
	return r.Run(ctx, st.Engine.NewSession())
}
