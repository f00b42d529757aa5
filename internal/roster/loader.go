package roster

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ecocare/spoof-core/internal/device"
)

// MaxFileSize is the maximum allowed roster file size (10MB).
// A device roster is operator-curated; anything larger is a mistake.
const MaxFileSize = 10 * 1024 * 1024

// Required roster columns. The file is row-oriented CSV with a header row;
// column order is not significant.
var requiredColumns = []string{
	"ipAddress", "name", "description", "state", "connected", "status", "faultStatus",
}

// Load reads the bulk device roster from a CSV file.
//
// Each record yields one Device: the state column holds the serialized state
// array (parsed once here, boolean entries coerced), and the connected
// column holds a textual boolean. Devices bulk-loaded this way are normally
// all unconnected; the file format carries the column anyway so a roster
// can be round-tripped from captured data.
func Load(path string) ([]device.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads roster records from r. Split from Load for testability.
func Parse(r io.Reader) ([]device.Device, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // validated per row against the header

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading roster header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var devices []device.Device
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidRow, row, err)
		}
		if len(record) < len(header) {
			return nil, fmt.Errorf("%w %d: %d fields, want %d", ErrInvalidRow, row, len(record), len(header))
		}

		d, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidRow, row, err)
		}
		devices = append(devices, d)
	}

	return devices, nil
}

// parseRecord converts one CSV record into a Device.
func parseRecord(record []string, index map[string]int) (device.Device, error) {
	field := func(name string) string { return record[index[name]] }

	var state device.State
	if err := json.Unmarshal([]byte(field("state")), &state); err != nil {
		return device.Device{}, fmt.Errorf("parsing state: %w", err)
	}
	state.Normalize()

	return device.Device{
		Address:     field("ipAddress"),
		Name:        field("name"),
		Description: field("description"),
		State:       state,
		Status:      device.Status(field("status")),
		FaultStatus: device.FaultStatus(field("faultStatus")),
		Connected:   field("connected") == "true",
	}, nil
}
