package mqtt

import "fmt"

// defaultTopicPrefix is used when the configuration leaves the prefix empty.
const defaultTopicPrefix = "ecocare"

// Topics builds MQTT topic names for the spoof channel.
//
// Every channel event maps to exactly one topic under a common prefix, so
// the event names of the wire protocol double as topic leaves:
//
//	topics := Topics{Prefix: "ecocare"}
//	topics.Event("spoof_app_iot_device_update")
//	// Returns: "ecocare/spoof_app_iot_device_update"
type Topics struct {
	Prefix string
}

// Event returns the topic carrying the given channel event.
func (t Topics) Event(event string) string {
	prefix := t.Prefix
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return fmt.Sprintf("%s/%s", prefix, event)
}

// Status returns the topic carrying the spoof client's online status,
// used for the Last Will and Testament.
func (t Topics) Status(clientID string) string {
	prefix := t.Prefix
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return fmt.Sprintf("%s/status/%s", prefix, clientID)
}
