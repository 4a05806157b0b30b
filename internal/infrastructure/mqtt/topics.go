package mqtt

import "fmt"

// Topic prefixes for the ouidb MQTT surface.
const (
	// TopicPrefix is the root of every ouidb topic.
	TopicPrefix = "ouidb"

	// TopicPrefixSystem is the base for service liveness topics.
	TopicPrefixSystem = "ouidb/system"

	// TopicPrefixRegistry is the base for registry state topics.
	TopicPrefixRegistry = "ouidb/registry"
)

// Topics provides builders for ouidb MQTT topics.
//
//	topics := mqtt.Topics{}
//	reply := topics.LookupResponse("req-abc123")
//	// Returns: "ouidb/response/lookup/req-abc123"
type Topics struct{}

// LookupResponse returns the topic the answer to a lookup request is published on.
//
// Example: ouidb/response/lookup/req-abc123
func (Topics) LookupResponse(requestID string) string {
	return fmt.Sprintf("%s/response/lookup/%s", TopicPrefix, requestID)
}

// RegistryStatus returns the retained topic describing the loaded registry.
//
// Example: ouidb/registry/status
func (Topics) RegistryStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixRegistry)
}

// SystemStatus returns the service status topic used for online/offline and LWT.
//
// Example: ouidb/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllLookupRequests returns a pattern matching every lookup request.
//
// Pattern: ouidb/request/lookup/+
func (Topics) AllLookupRequests() string {
	return fmt.Sprintf("%s/request/lookup/+", TopicPrefix)
}

// RequestIDFromTopic returns the last level of a request topic, or "" when
// the topic has no trailing level.
func RequestIDFromTopic(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return ""
}
