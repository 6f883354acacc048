// Package devices holds the handsets and SIM cards an operator can dial from.
package devices

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/ussdsim/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed devices.yaml
var defaultDevices []byte

// Registry resolves (device, SIM slot) pairs to operators.
type Registry struct {
	devices []domain.Device
}

type file struct {
	Devices []domain.Device `yaml:"devices"`
}

// New builds a registry, rejecting duplicate device IDs and duplicate slots.
func New(devices ...domain.Device) (*Registry, error) {
	ids := make(map[string]bool, len(devices))
	for _, d := range devices {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("device %q has an empty id", d.Name)
		}
		if ids[d.ID] {
			return nil, fmt.Errorf("duplicate device id %q", d.ID)
		}
		ids[d.ID] = true

		slots := make(map[string]bool, len(d.SIMs))
		for _, sim := range d.SIMs {
			if slots[sim.Slot] {
				return nil, fmt.Errorf("device %q: duplicate sim slot %q", d.ID, sim.Slot)
			}
			slots[sim.Slot] = true
		}
	}
	return &Registry{devices: append([]domain.Device(nil), devices...)}, nil
}

// Parse decodes a YAML device list.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse devices: %w", err)
	}
	return New(f.Devices...)
}

// Load reads a YAML device list from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read devices: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in handsets.
func Default() *Registry {
	r, err := Parse(defaultDevices)
	if err != nil {
		panic(fmt.Sprintf("embedded devices.yaml is invalid: %v", err))
	}
	return r
}

// List returns the devices in registration order.
func (r *Registry) List() []domain.Device {
	return append([]domain.Device(nil), r.devices...)
}

// Device looks up a device by ID.
func (r *Registry) Device(id string) (domain.Device, bool) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Device{}, false
}

// ResolveOperator returns the operator context for the SIM in slot of device deviceID.
func (r *Registry) ResolveOperator(deviceID, slot string) (domain.OperatorContext, error) {
	d, ok := r.Device(deviceID)
	if !ok {
		return domain.OperatorContext{}, fmt.Errorf("%w: %q", domain.ErrUnknownDevice, deviceID)
	}
	for _, sim := range d.SIMs {
		if sim.Slot == slot {
			return domain.OperatorContext{
				Name:       sim.Operator,
				DeviceID:   d.ID,
				DeviceName: d.Name,
				SIMSlot:    sim.Slot,
			}, nil
		}
	}
	return domain.OperatorContext{}, fmt.Errorf("%w: device %q has no sim in %q", domain.ErrUnknownSIM, deviceID, slot)
}
