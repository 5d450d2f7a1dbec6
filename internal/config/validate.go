// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// registerSpan is the number of holding registers a charging point owns,
// counted from its base address (highest offset 299 + 1).
const registerSpan = 300

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	// ------------------------------------------------------------
	// MODBUS
	// ------------------------------------------------------------

	if strings.TrimSpace(cfg.Modbus.Host) == "" {
		return errors.New("modbus: host required")
	}
	if err := validPort(cfg.Modbus.Port); err != nil {
		return fmt.Errorf("modbus: %w", err)
	}
	if cfg.Modbus.UnitID == 0 || cfg.Modbus.UnitID > 247 {
		return fmt.Errorf("modbus: unit_id %d out of range 1..247", cfg.Modbus.UnitID)
	}
	if cfg.Modbus.TimeoutMs <= 0 {
		return fmt.Errorf("modbus: timeout_ms must be > 0, got %d", cfg.Modbus.TimeoutMs)
	}

	// ------------------------------------------------------------
	// MQTT
	// ------------------------------------------------------------

	if strings.TrimSpace(cfg.MQTT.Host) == "" {
		return errors.New("mqtt: host required")
	}
	if err := validPort(cfg.MQTT.Port); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt: qos %d out of range 0..2", cfg.MQTT.QoS)
	}
	if strings.ContainsAny(cfg.MQTT.TopicPrefix, "+#") {
		return fmt.Errorf("mqtt: topic_prefix %q must not contain wildcards", cfg.MQTT.TopicPrefix)
	}

	// ------------------------------------------------------------
	// POLL + RECONNECT
	// ------------------------------------------------------------

	if cfg.Poll.IntervalSec <= 0 {
		return fmt.Errorf("poll: interval_sec must be > 0, got %d", cfg.Poll.IntervalSec)
	}
	if cfg.Poll.CooldownSec < 0 {
		return fmt.Errorf("poll: cooldown_sec must be >= 0, got %d", cfg.Poll.CooldownSec)
	}
	if cfg.Poll.FailureThreshold < 1 {
		return fmt.Errorf("poll: failure_threshold must be >= 1, got %d", cfg.Poll.FailureThreshold)
	}
	if cfg.Reconnect.MaxAttempts < 1 {
		return fmt.Errorf("reconnect: max_attempts must be >= 1, got %d", cfg.Reconnect.MaxAttempts)
	}
	if cfg.Reconnect.DelaySec < 0 || cfg.Reconnect.BackoffBaseSec < 0 {
		return errors.New("reconnect: delays must be >= 0")
	}

	// ------------------------------------------------------------
	// CHARGING POINTS
	// ------------------------------------------------------------

	if len(cfg.ChargingPoints) == 0 {
		return errors.New("charging_points: at least one required")
	}

	ids := make(map[string]struct{})
	names := make(map[string]struct{})

	for i, cp := range cfg.ChargingPoints {
		name := strings.TrimSpace(cp.Name)
		if name == "" {
			return fmt.Errorf("charging_points[%d]: name required", i)
		}
		// name becomes one topic level
		if strings.ContainsAny(name, "/+#") {
			return fmt.Errorf("charging_points[%d]: name %q must not contain '/', '+' or '#'", i, name)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("charging_points[%d]: duplicate name %q", i, name)
		}
		names[name] = struct{}{}

		// an empty id falls back to the name in Normalize
		id := strings.TrimSpace(cp.ID)
		if id == "" {
			id = name
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("charging_points[%d]: duplicate id %q", i, id)
		}
		ids[id] = struct{}{}

		if int(cp.BaseAddress)+registerSpan > 0x10000 {
			return fmt.Errorf(
				"charging_points[%d]: base_address %d leaves no room for %d registers",
				i,
				cp.BaseAddress,
				registerSpan,
			)
		}
	}

	return nil
}

func validPort(p int) error {
	if p < 1 || p > 65535 {
		return fmt.Errorf("port %d out of range 1..65535", p)
	}
	return nil
}
