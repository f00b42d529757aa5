package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrInvalidState) {
//	    // discard the edit, keep the previous value
//	}
var (
	// ErrDeviceExists is returned when adding a device whose address is
	// already present in the registry.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidState is returned when a candidate state fails parsing or
	// schema validation. Callers recover by keeping the previous state.
	ErrInvalidState = errors.New("device: invalid state")

	// ErrInvalidStatus is returned when a status value is outside {On, Off}.
	ErrInvalidStatus = errors.New("device: invalid status")

	// ErrInvalidFaultStatus is returned when a fault status value is outside
	// {Ok, Fault}.
	ErrInvalidFaultStatus = errors.New("device: invalid fault status")
)
