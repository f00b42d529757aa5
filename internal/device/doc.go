// Package device provides the device registry for the EcoCare spoof core.
//
// The registry is the authoritative in-process collection of simulated IoT
// device records, keyed by network address. It absorbs three independent
// mutation sources: local operator edits (validated before acceptance),
// inbound server snapshots (merged, first-writer-wins for identity) and
// inbound server updates (trusted, applied unconditionally).
//
// # Key Types
//
//   - Device: one simulated endpoint; Connected gates outbound publication
//   - State / StateEntry: the ordered, schema-constrained mutable state
//   - Registry: address-keyed collection preserving insertion order
//   - Update: the inbound per-device delta from the server
//
// # Usage
//
//	registry := device.NewRegistry()
//	registry.SetLogger(log)
//
//	state, err := device.ParseState([]byte(`[{"fieldName":"temp","datatype":"number","value":21}]`))
//	if err != nil {
//	    // edit rejected; keep the previous value
//	}
//	registry.SetState("10.0.0.5", state)
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Compound sequences
// (look up, validate, mutate, publish) are serialised by the sync
// controller, which is the single mutation entry point.
package device
