// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Topic prefix is joined with "/" later; strip edges so we never
	// emit "a//b" or a leading slash.
	cfg.MQTT.TopicPrefix = strings.Trim(strings.TrimSpace(cfg.MQTT.TopicPrefix), "/")

	for i := range cfg.ChargingPoints {
		cp := &cfg.ChargingPoints[i]
		cp.Name = strings.TrimSpace(cp.Name)
		cp.ID = strings.TrimSpace(cp.ID)
		if cp.ID == "" {
			cp.ID = cp.Name
		}
	}
}
