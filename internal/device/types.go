package device

import "strings"

// Device represents one simulated IoT endpoint.
//
// The JSON tags define the wire form exchanged with the EcoCare server.
// Connected is deliberately excluded from marshalling: the server infers
// connectivity from having received a device at all, so no outbound payload
// ever carries the field.
type Device struct {
	// Address is the unique key for the device. Immutable after creation.
	// The wire name is ipAddress; the core does not validate the format.
	Address string `json:"ipAddress"`

	// Name and Description are display-only; never edited through the core.
	Name        string `json:"name"`
	Description string `json:"description"`

	// State is the ordered sequence of state entries. Order is significant
	// for display but not for equality.
	State State `json:"state"`

	Status      Status      `json:"status"`
	FaultStatus FaultStatus `json:"faultStatus"`

	// Connected is true once the remote side has acknowledged the device.
	// The transition is one-way; a device never reverts to unconnected.
	Connected bool `json:"-"`
}

// Copy returns an independent copy of the Device. State entries are cloned
// so mutations of the copy do not reach the registry's record.
func (d *Device) Copy() Device {
	cpy := *d
	cpy.State = d.State.Copy()
	return cpy
}

// StateEntry is one element of a device's state array.
//
// Value holds a string, a float64, or a bool. The datatype field is an open
// string set; the core does not cross-validate it against the runtime type
// of Value, except for the boolean coercion rule in Normalize.
type StateEntry struct {
	FieldName string `json:"fieldName"`
	Datatype  string `json:"datatype"`
	Value     any    `json:"value"`
}

// State is the ordered state of a device.
type State []StateEntry

// DatatypeBoolean is the only datatype the core gives special treatment:
// boolean-typed entries always hold a bool value at rest.
const DatatypeBoolean = "boolean"

// Copy returns an independent copy of the state slice.
func (s State) Copy() State {
	if s == nil {
		return nil
	}
	cpy := make(State, len(s))
	copy(cpy, s)
	return cpy
}

// Normalize coerces boolean-typed entry values to bool in place.
//
// Textual "true"/"false" (any case) and numeric 0/1 become real booleans,
// regardless of the literal form they arrived in. Values that cannot be
// interpreted are left untouched; Normalize never fails.
func (s State) Normalize() {
	for i := range s {
		if s[i].Datatype != DatatypeBoolean {
			continue
		}
		if v, ok := coerceBool(s[i].Value); ok {
			s[i].Value = v
		}
	}
}

// coerceBool interprets a state value as a boolean.
func coerceBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		// JSON numbers decode as float64.
		if val == 0 {
			return false, true
		}
		if val == 1 {
			return true, true
		}
	case int:
		if val == 0 {
			return false, true
		}
		if val == 1 {
			return true, true
		}
	}
	return false, false
}

// Status is the operational state of a device.
type Status string

// Status constants.
const (
	StatusOn  Status = "On"
	StatusOff Status = "Off"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusOn, StatusOff}
}

// FaultStatus is the fault indicator of a device.
type FaultStatus string

// FaultStatus constants.
const (
	FaultStatusOk    FaultStatus = "Ok"
	FaultStatusFault FaultStatus = "Fault"
)

// AllFaultStatuses returns all valid fault status values.
func AllFaultStatuses() []FaultStatus {
	return []FaultStatus{FaultStatusOk, FaultStatusFault}
}

// Update is the payload of an inbound per-device update from the server.
// It carries the new state and status for an existing device; updates for
// unknown addresses are discarded by the registry.
type Update struct {
	Address string `json:"ipAddress"`
	State   State  `json:"state"`
	Status  Status `json:"status"`
}
