package device

import "sync"

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the authoritative in-process collection of device records,
// keyed by address. Insertion order is preserved so display refreshes are
// reproducible: bulk-loaded devices first, then remote-discovered devices in
// arrival order.
//
// Records live for the lifetime of the process; devices are never deleted in
// normal operation.
//
// All public methods are thread-safe, but the registry does not serialise
// compound read-modify-write sequences across calls; the sync controller is
// the single mutation-serialising entry point.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device // records by address
	order   []string           // addresses in insertion order
	logger  Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Get retrieves a copy of the device with the given address.
// A missing address is a normal outcome, not an error; callers silently
// ignore edits and updates for unknown devices.
func (r *Registry) Get(address string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[address]
	if !ok {
		return Device{}, false
	}
	return d.Copy(), true
}

// Add appends a device to the registry. Used by the bulk loader at startup.
// Returns ErrDeviceExists if the address is already present.
func (r *Registry) Add(d Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[d.Address]; exists {
		return ErrDeviceExists
	}
	cpy := d.Copy()
	r.devices[d.Address] = &cpy
	r.order = append(r.order, d.Address)

	r.logger.Debug("device added", "address", d.Address, "name", d.Name)
	return nil
}

// MergeSnapshot merges an inbound server snapshot into the registry.
//
// Every incoming device is marked connected. Devices with unknown addresses
// are appended in arrival order; devices that already exist are left
// untouched apart from the connected flag (first-writer-wins for identity;
// updates arrive separately). Merging the same snapshot twice is idempotent.
func (r *Registry) MergeSnapshot(devices []Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for i := range devices {
		if existing, ok := r.devices[devices[i].Address]; ok {
			existing.Connected = true
			continue
		}
		cpy := devices[i].Copy()
		cpy.Connected = true
		cpy.State.Normalize()
		r.devices[cpy.Address] = &cpy
		r.order = append(r.order, cpy.Address)
		added++
	}

	r.logger.Info("remote snapshot merged", "received", len(devices), "added", added)
}

// ApplyUpdate applies an inbound per-device update from the server.
//
// The update overwrites state and status and forces the device connected.
// Updates are trusted: no re-validation. An unknown address is a no-op; a
// bare update never creates a device.
func (r *Registry) ApplyUpdate(u Update) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[u.Address]
	if !ok {
		r.logger.Debug("update for unknown device ignored", "address", u.Address)
		return false
	}

	state := u.State.Copy()
	state.Normalize()
	d.State = state
	d.Status = u.Status
	d.Connected = true

	r.logger.Debug("remote update applied", "address", u.Address, "status", u.Status)
	return true
}

// SetState replaces the state of the device with the given address.
// Returns false if the address is unknown.
func (r *Registry) SetState(address string, state State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[address]
	if !ok {
		return false
	}
	d.State = state.Copy()
	return true
}

// SetStatus replaces the status of the device with the given address.
// Returns false if the address is unknown.
func (r *Registry) SetStatus(address string, status Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[address]
	if !ok {
		return false
	}
	d.Status = status
	return true
}

// SetFaultStatus replaces the fault status of the device with the given
// address. Returns false if the address is unknown.
func (r *Registry) SetFaultStatus(address string, status FaultStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[address]
	if !ok {
		return false
	}
	d.FaultStatus = status
	return true
}

// SnapshotUnconnected returns copies of all devices that have not yet been
// acknowledged by the remote side, in insertion order. The copies marshal
// without a connected field, which is all the remote needs: the field would
// always be false in this context.
func (r *Registry) SnapshotUnconnected() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []Device
	for _, address := range r.order {
		if d := r.devices[address]; !d.Connected {
			devices = append(devices, d.Copy())
		}
	}
	return devices
}

// All returns copies of every device in insertion order.
func (r *Registry) All() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, address := range r.order {
		devices = append(devices, r.devices[address].Copy())
	}
	return devices
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
