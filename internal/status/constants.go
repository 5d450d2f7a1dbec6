// internal/status/constants.go
package status

// Health codes for the bridge as a whole.
// Text values are part of the published contract and MUST NOT change.

// Health is the bridge health state.
type Health uint8

// HealthUnknown represents the boot state, before the first cycle.
const HealthUnknown Health = 0

// HealthOK means every charging point yielded data in the last cycle.
const HealthOK Health = 1

// HealthDegraded means some, but not all, charging points yielded data.
const HealthDegraded Health = 2

// HealthError means no charging point yielded data or the link is down.
const HealthError Health = 3

// HealthOffline is published on shutdown and as the MQTT last will.
const HealthOffline Health = 4

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "online"
	case HealthDegraded:
		return "degraded"
	case HealthError:
		return "error"
	case HealthOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// TopicSuffix is appended to the topic prefix for status messages.
const TopicSuffix = "status"
