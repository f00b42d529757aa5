// Package channel defines the abstract event channel between the spoof core
// and the EcoCare server, along with the event names of the wire protocol.
//
// The sync controller consumes the Channel interface only; the websocket and
// mqtt subpackages provide the concrete transports. Both frame events as
// JSON and deliver inbound payloads to handlers registered with On.
//
// Publication through a channel is fire-and-forget: there is no queueing or
// retry, and an emit while disconnected simply fails with ErrNotConnected.
// Local state stays accurate regardless; still-unconnected devices are
// covered by the bulk announcement of the next successful handshake.
package channel
