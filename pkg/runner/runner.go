package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/pkg/domain"
)

// Phone is the session handle the console drives. *ussdsim.Session implements it.
type Phone interface {
	DialFrom(ctx context.Context, deviceID, slot, code string) (domain.Response, error)
	Select(ctx context.Context, key string) (domain.Outcome, error)
	Close(ctx context.Context) (domain.Outcome, error)
	Status() domain.Status
	Snapshot() *domain.Session
}

// Screen is what the console shows after the network answers.
type Screen struct {
	Response domain.Response
	Operator domain.OperatorContext
	Status   domain.Status
}

// ScreenRenderer formats a screen for display.
type ScreenRenderer func(Screen) string

// Runner handles the console loop using the provided IO.
type Runner struct {
	Handler  IOHandler
	Renderer ScreenRenderer
	Logger   *slog.Logger

	DeviceID string
	SIMSlot  string
	Devices  []domain.Device

	keypad Keypad
}

// NewRunner creates a Runner reading Stdin and writing Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		keypad: Keypad{AutoDial: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Renderer == nil {
		r.Renderer = PlainScreen
	}
	return r
}

// errQuit ends the loop without error.
var errQuit = errors.New("quit")

// Run executes the console loop until input is exhausted, ":quit" is typed or ctx is done.
// An interrupt while a request is pending abandons that request only.
func (r *Runner) Run(ctx context.Context, phone Phone) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		line, err := r.Handler.Input(signals.Context(), r.prompt(phone.Status()))
		if err != nil {
			if errors.Is(err, io.EOF) || signals.Interrupted() {
				return nil
			}
			return err
		}

		if strings.HasPrefix(line, ":") {
			if err := r.command(signals.Context(), line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
			continue
		}

		if err := r.dispatch(signals.Context(), phone, line); err != nil {
			if signals.Interrupted() {
				r.say(ctx, "Request cancelled.")
				signals.Reset()
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.say(ctx, "Error: "+err.Error())
		}
	}
}

// dispatch routes one input line according to the session state.
func (r *Runner) dispatch(ctx context.Context, phone Phone, line string) error {
	switch phone.Status() {
	case domain.StatusIdle:
		var (
			code  string
			ready bool
		)
		if line == "" {
			code, ready = r.keypad.Send()
		} else {
			code, ready = r.keypad.Press(line)
		}
		if !ready {
			return nil
		}
		return r.dial(ctx, phone, code)

	case domain.StatusTerminalDisplayed:
		if line == "" || line == domain.KeyExit {
			out, err := phone.Close(ctx)
			if err != nil {
				return err
			}
			r.ended(ctx, out)
			return nil
		}
		return r.selectKey(ctx, phone, line)

	default:
		if line == "" {
			return nil
		}
		return r.selectKey(ctx, phone, line)
	}
}

func (r *Runner) dial(ctx context.Context, phone Phone, code string) error {
	if r.DeviceID == "" || r.SIMSlot == "" {
		return fmt.Errorf("select a device and SIM first (:devices, :device <id> <slot>)")
	}
	r.say(ctx, "Dialing "+code+" ...")
	if _, err := phone.DialFrom(ctx, r.DeviceID, r.SIMSlot, code); err != nil {
		return err
	}
	r.show(ctx, phone)
	return nil
}

func (r *Runner) selectKey(ctx context.Context, phone Phone, key string) error {
	out, err := phone.Select(ctx, key)
	if err != nil {
		return err
	}
	if out.Ended {
		r.ended(ctx, out)
		return nil
	}
	r.show(ctx, phone)
	return nil
}

func (r *Runner) show(ctx context.Context, phone Phone) {
	snap := phone.Snapshot()
	resp, _ := snap.Current()
	r.say(ctx, r.Renderer(Screen{Response: resp, Operator: snap.Operator, Status: snap.Status}))
}

func (r *Runner) ended(ctx context.Context, out domain.Outcome) {
	r.Logger.Debug("session ended", "session_id", out.Response.SessionID, "reason", out.Reason)
	r.say(ctx, "Session ended.")
}

func (r *Runner) say(ctx context.Context, text string) {
	if err := r.Handler.Output(ctx, text); err != nil {
		r.Logger.Warn("failed to write output", "err", err)
	}
}

func (r *Runner) prompt(status domain.Status) string {
	switch status {
	case domain.StatusMenuDisplayed:
		return "Reply> "
	case domain.StatusTerminalDisplayed:
		return "[Enter to close]> "
	default:
		if buf := r.keypad.Buffer(); buf != "" {
			return "Dial " + buf + "> "
		}
		return "Dial> "
	}
}

// command handles console commands (lines starting with ":").
func (r *Runner) command(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q", "exit":
		return errQuit
	case "help", "h":
		r.say(ctx, helpText)
	case "clear":
		r.keypad.Clear()
	case "devices":
		r.say(ctx, r.deviceList())
	case "device":
		id, slot, _ := strings.Cut(arg, " ")
		slot = strings.TrimSpace(slot)
		if id == "" || slot == "" {
			r.say(ctx, "Usage: :device <id> <slot>")
			return nil
		}
		r.DeviceID, r.SIMSlot = id, slot
		r.say(ctx, fmt.Sprintf("Using device %s, %s.", id, slot))
	default:
		r.say(ctx, fmt.Sprintf("Unknown command %q. Type :help.", name))
	}
	return nil
}

func (r *Runner) deviceList() string {
	if len(r.Devices) == 0 {
		return "No devices configured."
	}
	var b strings.Builder
	for _, d := range r.Devices {
		fmt.Fprintf(&b, "%s  %s\n", d.ID, d.Name)
		for _, sim := range d.SIMs {
			marker := " "
			if d.ID == r.DeviceID && sim.Slot == r.SIMSlot {
				marker = "*"
			}
			fmt.Fprintf(&b, "   %s %s: %s\n", marker, sim.Slot, sim.Operator)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

const helpText = `Type a USSD code such as *123#. It is sent as soon as it ends with #.
Press Enter on an empty line to send a partial code.
On a menu, reply with an option number (9 back, 0 exit).
On a final screen, press Enter (or 0) to close.

Commands:
  :devices             list handsets and SIMs
  :device <id> <slot>  dial from another SIM, e.g. ":device 2 eSIM 1"
  :clear               clear the dial buffer
  :quit                leave`

// PlainScreen renders a screen without colours.
func PlainScreen(s Screen) string {
	var b strings.Builder
	header := s.Operator.Name
	if s.Operator.DeviceName != "" {
		header += " | " + s.Operator.DeviceName + " | " + s.Operator.SIMSlot
	}
	if id := s.Response.ShortID(); id != "" {
		header += " | Session ..." + id
	}
	b.WriteString("[" + header + "]\n")
	b.WriteString(s.Response.Message)
	return b.String()
}
