package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordEdit records an accepted local edit.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - address: device address the edit applied to
//   - field: the edited field name (state, status, faultStatus)
//   - published: whether the edit produced an outbound delta
func (c *Client) RecordEdit(address, field string, published bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"local_edits",
		map[string]string{
			"address": address,
			"field":   field,
		},
		map[string]interface{}{
			"published": published,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordRemoteUpdate records an inbound per-device update from the server.
func (c *Client) RecordRemoteUpdate(address string, applied bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"remote_updates",
		map[string]string{
			"address": address,
		},
		map[string]interface{}{
			"applied": applied,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordSnapshot records an inbound server snapshot merge.
func (c *Client) RecordSnapshot(received int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"remote_snapshots",
		nil,
		map[string]interface{}{
			"received": received,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordHandshake records a bulk announcement after a successful connect.
func (c *Client) RecordHandshake(announced int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"handshakes",
		nil,
		map[string]interface{}{
			"announced": announced,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
