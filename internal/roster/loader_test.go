package roster

import (
	"errors"
	"strings"
	"testing"

	"github.com/ecocare/spoof-core/internal/device"
)

const validRoster = `ipAddress,name,description,state,connected,status,faultStatus
10.0.0.5,Thermostat,Hallway thermostat,"[{""fieldName"":""temp"",""datatype"":""number"",""value"":21}]",false,Off,Ok
10.0.0.6,Door Sensor,Front door,"[{""fieldName"":""open"",""datatype"":""boolean"",""value"":""false""}]",false,On,Ok
`

func TestParse(t *testing.T) {
	devices, err := Parse(strings.NewReader(validRoster))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("Parse() returned %d devices, want 2", len(devices))
	}

	first := devices[0]
	if first.Address != "10.0.0.5" {
		t.Errorf("Address = %q, want 10.0.0.5", first.Address)
	}
	if first.Name != "Thermostat" || first.Description != "Hallway thermostat" {
		t.Errorf("identity fields = %q / %q", first.Name, first.Description)
	}
	if first.Connected {
		t.Error("Connected = true, want false")
	}
	if first.Status != device.StatusOff || first.FaultStatus != device.FaultStatusOk {
		t.Errorf("status fields = %v / %v", first.Status, first.FaultStatus)
	}
	if len(first.State) != 1 || first.State[0].FieldName != "temp" {
		t.Errorf("state not parsed: %+v", first.State)
	}
	if first.State[0].Value != float64(21) {
		t.Errorf("state value = %v (%T), want 21", first.State[0].Value, first.State[0].Value)
	}
}

func TestParse_BooleanCoercion(t *testing.T) {
	devices, err := Parse(strings.NewReader(validRoster))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// The door sensor's boolean entry arrived as the text "false".
	entry := devices[1].State[0]
	v, ok := entry.Value.(bool)
	if !ok {
		t.Fatalf("boolean entry value = %T(%v), want bool", entry.Value, entry.Value)
	}
	if v {
		t.Error("textual \"false\" coerced to true")
	}
}

func TestParse_ColumnOrderIndependent(t *testing.T) {
	shuffled := `name,ipAddress,faultStatus,status,connected,description,state
Lamp,10.0.0.7,Ok,On,true,Desk lamp,"[]"
`
	devices, err := Parse(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := devices[0]
	if d.Address != "10.0.0.7" || d.Name != "Lamp" || !d.Connected {
		t.Errorf("record misparsed: %+v", d)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	noState := `ipAddress,name,description,connected,status,faultStatus
10.0.0.5,Thermostat,Hallway,false,Off,Ok
`
	_, err := Parse(strings.NewReader(noState))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Parse() error = %v, want ErrMissingColumn", err)
	}
}

func TestParse_MalformedState(t *testing.T) {
	bad := `ipAddress,name,description,state,connected,status,faultStatus
10.0.0.5,Thermostat,Hallway,"[{""fieldName"":",false,Off,Ok
`
	_, err := Parse(strings.NewReader(bad))
	if !errors.Is(err, ErrInvalidRow) {
		t.Errorf("Parse() error = %v, want ErrInvalidRow", err)
	}
}

func TestParse_EmptyRoster(t *testing.T) {
	headerOnly := "ipAddress,name,description,state,connected,status,faultStatus\n"
	devices, err := Parse(strings.NewReader(headerOnly))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("Parse() returned %d devices, want 0", len(devices))
	}
}
