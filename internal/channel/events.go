package channel

// Event names of the EcoCare wire protocol.
//
// Two outbound and two inbound event kinds exist; the core registers
// handlers for exactly the inbound pair.
const (
	// EventUnconnectedDevices is the one-time bulk announcement emitted
	// after a successful connect: every device not yet acknowledged by the
	// server, without connected fields.
	EventUnconnectedDevices = "unconnected_iot_devices"

	// EventDeviceUpdate is the outbound per-device delta emitted for each
	// accepted local edit on a connected device.
	EventDeviceUpdate = "spoof_app_iot_device_update"

	// EventConnectedDevices is the inbound snapshot of devices the server
	// considers connected.
	EventConnectedDevices = "connected_iot_devices"

	// EventServerDeviceUpdate is the inbound per-device update from the
	// server, carrying new state and status.
	EventServerDeviceUpdate = "server_iot_device_update"
)
