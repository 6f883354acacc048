package domain

// OperatorContext is the network the session runs on.
// It is resolved once per dial and only parameterizes message templates.
type OperatorContext struct {
	Name       string `json:"name"`
	DeviceID   string `json:"device_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
	SIMSlot    string `json:"sim_slot,omitempty"`
}

// SIM is a card inserted in a device slot.
type SIM struct {
	Slot     string `json:"slot" yaml:"slot"`
	Operator string `json:"operator" yaml:"operator"`
}

// Device is a handset that can place USSD requests.
type Device struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	SIMs []SIM  `json:"sims" yaml:"sims"`
}
