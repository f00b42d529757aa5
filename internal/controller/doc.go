// Package controller reconciles local device edits and remote channel
// events against the device registry and decides what gets published.
//
// All mutation paths (local edits, remote snapshots, remote updates,
// connection handshake) serialise through a single mutex, so edits and
// inbound events never interleave mid-sequence. Local edits to connected
// devices are published as deltas; remote events are absorbed without
// echo. The controller never queues outbound traffic: a channel that is
// down simply drops the delta.
package controller
