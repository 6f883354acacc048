package devices_test

import (
	"testing"

	"github.com/aretw0/ussdsim/pkg/devices"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolveOperator(t *testing.T) {
	reg := devices.Default()

	tests := []struct {
		device, slot string
		want         string
	}{
		{"1", "Slot 1", "Inwi"},
		{"1", "Slot 2", "Orange"},
		{"2", "eSIM 1", "IAM"},
		{"2", "Physical SIM", "Orange"},
		{"3", "Slot 2", "IAM"},
	}
	for _, tt := range tests {
		op, err := reg.ResolveOperator(tt.device, tt.slot)
		require.NoError(t, err)
		assert.Equal(t, tt.want, op.Name, "device %s slot %s", tt.device, tt.slot)
		assert.Equal(t, tt.slot, op.SIMSlot)
		assert.NotEmpty(t, op.DeviceName)
	}
}

func TestResolveOperator_Unknown(t *testing.T) {
	reg := devices.Default()

	_, err := reg.ResolveOperator("42", "Slot 1")
	assert.ErrorIs(t, err, domain.ErrUnknownDevice)

	_, err = reg.ResolveOperator("2", "Slot 1")
	assert.ErrorIs(t, err, domain.ErrUnknownSIM)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := devices.New(domain.Device{ID: "1"}, domain.Device{ID: "1"})
	assert.Error(t, err)

	_, err = devices.New(domain.Device{ID: "1", SIMs: []domain.SIM{{Slot: "A"}, {Slot: "A"}}})
	assert.Error(t, err)

	_, err = devices.New(domain.Device{Name: "nameless"})
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	reg, err := devices.Parse([]byte(`
devices:
  - id: lab
    name: Lab Phone
    sims: [{slot: "SIM", operator: Orange}]
`))
	require.NoError(t, err)
	assert.Len(t, reg.List(), 1)

	op, err := reg.ResolveOperator("lab", "SIM")
	require.NoError(t, err)
	assert.Equal(t, domain.OperatorContext{Name: "Orange", DeviceID: "lab", DeviceName: "Lab Phone", SIMSlot: "SIM"}, op)
}
