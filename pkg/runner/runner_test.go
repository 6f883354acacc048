package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, opts ...runner.Option) string {
	t.Helper()
	eng, err := ussdsim.New()
	require.NoError(t, err)

	var out bytes.Buffer
	opts = append([]runner.Option{
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), &out)),
		runner.WithDevices(eng.Devices().List()),
	}, opts...)

	r := runner.NewRunner(opts...)
	require.NoError(t, r.Run(context.Background(), eng.NewSession()))
	return out.String()
}

func TestRunner_NavigateAndEnd(t *testing.T) {
	input := strings.Join([]string{"*12", "3#", "1", "9", "0", "*999#", "", ":quit"}, "\n") + "\n"
	out := run(t, input, runner.WithDevice("1", "Slot 2"))

	assert.Contains(t, out, "Dial *12> ", "partial codes stay in the keypad buffer")
	assert.Contains(t, out, "Dialing *123# ...")
	assert.Contains(t, out, "Welcome to Orange")
	assert.Contains(t, out, "Orange Airtime Purchase")
	assert.Contains(t, out, "Samsung Galaxy A54 | Slot 2 | Session ...")
	assert.Contains(t, out, "USSD code *999# executed successfully on Orange network.")
	assert.Equal(t, 2, strings.Count(out, "Session ended."))
	assert.NotContains(t, out, "Error:")
}

func TestRunner_RequiresDevice(t *testing.T) {
	out := run(t, "*123#\n")
	assert.Contains(t, out, "Error: select a device and SIM first")
	assert.NotContains(t, out, "Welcome to")
}

func TestRunner_ReportsRejections(t *testing.T) {
	input := strings.Join([]string{"123#", "", "*131#", "7", "1"}, "\n") + "\n"
	out := run(t, input, runner.WithDevice("2", "eSIM 1"))

	assert.Contains(t, out, "Error: invalid dial code format")
	assert.Contains(t, out, "Error: unknown option")
	assert.Contains(t, out, "IAM Data Bundles")
}

func TestRunner_SwitchDevice(t *testing.T) {
	input := strings.Join([]string{":devices", ":device 3 Slot 1", "*999#", ":nope"}, "\n") + "\n"
	out := run(t, input, runner.WithDevice("1", "Slot 1"))

	assert.Contains(t, out, "Xiaomi Redmi Note 12")
	assert.Contains(t, out, "* Slot 1: Inwi")
	assert.Contains(t, out, "Using device 3, Slot 1.")
	assert.Contains(t, out, "executed successfully on Inwi network.")
	assert.Contains(t, out, `Unknown command "nope"`)
}

func TestRunner_ManualSendWithoutAutoDial(t *testing.T) {
	input := strings.Join([]string{"*321#", "", ""}, "\n") + "\n"
	out := run(t, input, runner.WithDevice("1", "Slot 1"), runner.WithAutoDial(false))

	assert.Contains(t, out, "Dial *321#> ")
	assert.Contains(t, out, "Inwi Line Activation")
	assert.Contains(t, out, "Session ended.")
}
