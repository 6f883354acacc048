package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDialCode is returned when a dial string is not of the form *<digits>[*<digits>...]#.
var ErrInvalidDialCode = errors.New("invalid dial code format")

// ErrUnknownOption is returned when the selected key is not offered by the current screen.
var ErrUnknownOption = errors.New("unknown option")

// ErrInvalidTransition is returned when an operation is attempted from the wrong session status.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrOperationInProgress is returned when a call is made while another one is still pending.
var ErrOperationInProgress = errors.New("operation in progress")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownDevice is returned when a device ID is not present in the device registry.
var ErrUnknownDevice = errors.New("unknown device")

// ErrUnknownSIM is returned when a device has no SIM in the requested slot.
var ErrUnknownSIM = errors.New("unknown sim slot")

// DialCodeError describes why a dial string was rejected.
type DialCodeError struct {
	Input  string
	Reason string
}

func (e *DialCodeError) Error() string {
	return fmt.Sprintf("%s: %q %s", ErrInvalidDialCode, e.Input, e.Reason)
}

func (e *DialCodeError) Unwrap() error { return ErrInvalidDialCode }

// UnknownOptionError reports a key that is absent from the current option set.
type UnknownOptionError struct {
	Key     string
	Allowed []string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s: %q (allowed: %s)", ErrUnknownOption, e.Key, strings.Join(e.Allowed, ", "))
}

func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

// TransitionError reports an operation attempted from a status that does not allow it.
type TransitionError struct {
	Op     string
	Status Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidTransition, e.Op, e.Status)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsValidation reports whether err is a locally recoverable validation failure.
// Validation failures never mutate session state.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDialCode) ||
		errors.Is(err, ErrUnknownOption) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrOperationInProgress)
}
