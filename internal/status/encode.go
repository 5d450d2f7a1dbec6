// internal/status/encode.go
package status

// Encode converts a Snapshot into the status payload.
// Only health is published; counters stay in logs.
// No IO. No side effects.
func Encode(s Snapshot) string {
	return s.Health.String()
}

// Topic returns the status topic under prefix.
func Topic(prefix string) string {
	if prefix == "" {
		return TopicSuffix
	}
	return prefix + "/" + TopicSuffix
}
