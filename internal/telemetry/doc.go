// Package telemetry records spoof activity to InfluxDB.
//
// Recording is optional: when disabled in configuration the controller runs
// with a nil recorder and no points are written. All writes are batched and
// asynchronous so the sync controller's mutation path never blocks on the
// time-series backend.
//
// Measurements:
//
//   - local_edits: accepted operator edits, tagged by address and field
//   - remote_updates: inbound per-device updates, applied or ignored
//   - remote_snapshots: inbound snapshot merges and their sizes
//   - handshakes: bulk announcements after connect
package telemetry
