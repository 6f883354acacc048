package runner

import (
	"log/slog"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithRenderer configures how screens are printed.
func WithRenderer(renderer ScreenRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithDevice preselects the handset and SIM used for dialing.
func WithDevice(deviceID, slot string) Option {
	return func(r *Runner) {
		r.DeviceID = deviceID
		r.SIMSlot = slot
	}
}

// WithDevices lists the handsets offered by the ":devices" command.
func WithDevices(devices []domain.Device) Option {
	return func(r *Runner) {
		r.Devices = devices
	}
}

// WithAutoDial toggles dialing as soon as the keypad buffer ends with "#". Enabled by default.
func WithAutoDial(enabled bool) Option {
	return func(r *Runner) {
		r.keypad.AutoDial = enabled
	}
}
