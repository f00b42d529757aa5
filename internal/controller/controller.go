package controller

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/device"
)

// Logger interface for controller logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log messages (used when no logger is set).
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Recorder receives telemetry points for controller activity. All methods
// must be non-blocking; a nil Recorder disables recording.
type Recorder interface {
	RecordEdit(address, field string, published bool)
	RecordRemoteUpdate(address string, applied bool)
	RecordSnapshot(received int)
	RecordHandshake(announced int)
}

// Field names a device attribute editable through HandleLocalEdit.
type Field string

// Editable fields.
const (
	FieldState       Field = "state"
	FieldStatus      Field = "status"
	FieldFaultStatus Field = "faultStatus"
)

// EditResult reports the outcome of a local edit so the presentation
// layer can refresh or revert its inputs.
type EditResult struct {
	// Applied is true when the edit mutated the registry.
	Applied bool

	// Err carries the rejection reason when a known device's edit failed
	// validation. Nil when the edit applied or the address is unknown.
	Err error

	// Current is the device record after the call: the updated record on
	// success, the unchanged record on rejection.
	Current device.Device

	// Known is false when the address is not in the registry. Unknown
	// addresses are a silent no-op.
	Known bool
}

// editFunc parses a raw field value and applies it to the registry.
type editFunc func(address, raw string) error

// Controller owns the reconciliation logic between the registry and the
// communication channel. Configure the logger, recorder and refresh
// callback before calling Connect.
type Controller struct {
	mu       sync.Mutex
	registry *device.Registry
	ch       channel.Channel

	logger   Logger
	recorder Recorder

	// onRefresh fires after any remote event changes the registry, so the
	// presentation layer can redraw. Called outside the mutation lock.
	onRefresh func()

	edits map[Field]editFunc
}

// New creates a controller bound to a registry and a channel, and
// registers the inbound event handlers on the channel.
func New(registry *device.Registry, ch channel.Channel) *Controller {
	c := &Controller{
		registry: registry,
		ch:       ch,
		logger:   noopLogger{},
	}

	c.edits = map[Field]editFunc{
		FieldState:       c.editState,
		FieldStatus:      c.editStatus,
		FieldFaultStatus: c.editFaultStatus,
	}

	ch.On(channel.EventConnectedDevices, c.handleSnapshotEvent)
	ch.On(channel.EventServerDeviceUpdate, c.handleUpdateEvent)

	return c
}

// SetLogger sets the logger. Call before Connect.
func (c *Controller) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetRecorder sets the telemetry recorder. Call before Connect.
func (c *Controller) SetRecorder(recorder Recorder) {
	c.recorder = recorder
}

// SetOnRefresh sets the callback fired after remote events change the
// registry. Call before Connect.
func (c *Controller) SetOnRefresh(fn func()) {
	c.onRefresh = fn
}

// Connect establishes the channel and announces the unconnected roster.
// The announcement is sent even when the roster is empty, so the server
// always learns the spoof population on connect.
func (c *Controller) Connect(ctx context.Context) error {
	if err := c.ch.Connect(ctx); err != nil {
		return err
	}
	c.announceUnconnected()
	return nil
}

// Disconnect closes the channel. Safe to call when already disconnected.
func (c *Controller) Disconnect() error {
	return c.ch.Disconnect()
}

// HandleLocalEdit applies a user edit to one field of one device. On
// success the new record is published to the server when the device is
// connected. Validation failures leave the registry untouched and return
// the current record so the caller can revert its display.
func (c *Controller) HandleLocalEdit(address string, field Field, raw string) EditResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.registry.Get(address)
	if !ok {
		c.logger.Debug("edit for unknown device ignored", "address", address)
		return EditResult{}
	}

	apply, ok := c.edits[field]
	if !ok {
		return EditResult{Err: ErrFieldNotEditable, Current: current, Known: true}
	}

	if err := apply(address, raw); err != nil {
		c.logger.Warn("edit rejected",
			"address", address,
			"field", string(field),
			"error", err)
		return EditResult{Err: err, Current: current, Known: true}
	}

	updated, _ := c.registry.Get(address)
	published := c.publishDeviceUpdate(updated)

	if c.recorder != nil {
		c.recorder.RecordEdit(address, string(field), published)
	}

	return EditResult{Applied: true, Current: updated, Known: true}
}

// HandleRemoteSnapshot merges a bulk device snapshot from the server.
// Known devices are marked connected, unknown devices are appended.
// Nothing is echoed back.
func (c *Controller) HandleRemoteSnapshot(devices []device.Device) {
	c.mu.Lock()
	c.registry.MergeSnapshot(devices)
	c.mu.Unlock()

	c.logger.Debug("remote snapshot merged", "devices", len(devices))

	if c.recorder != nil {
		c.recorder.RecordSnapshot(len(devices))
	}
	c.signalRefresh()
}

// HandleRemoteUpdate applies a single-device update from the server.
// Updates for unknown addresses are dropped. Nothing is echoed back.
func (c *Controller) HandleRemoteUpdate(update device.Update) {
	c.mu.Lock()
	applied := c.registry.ApplyUpdate(update)
	c.mu.Unlock()

	if !applied {
		c.logger.Debug("remote update for unknown device dropped",
			"address", update.Address)
	}

	if c.recorder != nil {
		c.recorder.RecordRemoteUpdate(update.Address, applied)
	}
	if applied {
		c.signalRefresh()
	}
}

// announceUnconnected emits the bulk roster of devices not yet claimed by
// the server.
func (c *Controller) announceUnconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()

	unconnected := c.registry.SnapshotUnconnected()
	if unconnected == nil {
		unconnected = []device.Device{}
	}

	if err := c.ch.Emit(channel.EventUnconnectedDevices, unconnected); err != nil {
		c.logger.Warn("roster announcement failed", "error", err)
		return
	}

	c.logger.Info("roster announced", "devices", len(unconnected))

	if c.recorder != nil {
		c.recorder.RecordHandshake(len(unconnected))
	}
}

// publishDeviceUpdate sends the full device record to the server. Devices
// the server has not claimed stay local. A channel that is down drops the
// delta silently; there is no outbound queue.
func (c *Controller) publishDeviceUpdate(d device.Device) bool {
	if !d.Connected {
		return false
	}

	if err := c.ch.Emit(channel.EventDeviceUpdate, d); err != nil {
		c.logger.Debug("device update dropped",
			"address", d.Address,
			"error", err)
		return false
	}
	return true
}

func (c *Controller) editState(address, raw string) error {
	state, err := device.ParseState([]byte(raw))
	if err != nil {
		return err
	}
	c.registry.SetState(address, state)
	return nil
}

func (c *Controller) editStatus(address, raw string) error {
	status, err := device.ParseStatus(raw)
	if err != nil {
		return err
	}
	c.registry.SetStatus(address, status)
	return nil
}

func (c *Controller) editFaultStatus(address, raw string) error {
	fault, err := device.ParseFaultStatus(raw)
	if err != nil {
		return err
	}
	c.registry.SetFaultStatus(address, fault)
	return nil
}

// handleSnapshotEvent decodes the bulk snapshot payload off the channel.
func (c *Controller) handleSnapshotEvent(payload json.RawMessage) {
	var devices []device.Device
	if err := json.Unmarshal(payload, &devices); err != nil {
		c.logger.Warn("malformed snapshot payload dropped", "error", err)
		return
	}
	c.HandleRemoteSnapshot(devices)
}

// handleUpdateEvent decodes a single-device update payload off the channel.
func (c *Controller) handleUpdateEvent(payload json.RawMessage) {
	var update device.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		c.logger.Warn("malformed update payload dropped", "error", err)
		return
	}
	c.HandleRemoteUpdate(update)
}

func (c *Controller) signalRefresh() {
	if c.onRefresh != nil {
		c.onRefresh()
	}
}
