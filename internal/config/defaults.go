// internal/config/defaults.go
package config

// Defaults mirror the field installation the bridge was written for.
const (
	DefaultModbusHost    = "192.168.1.50"
	DefaultModbusPort    = 502
	DefaultUnitID        = 1
	DefaultModbusTimeout = 5000 // ms

	DefaultMQTTHost     = "192.168.1.5"
	DefaultMQTTPort     = 1883
	DefaultMQTTClientID = "blitz_publisher"
	DefaultTopicPrefix  = "klskmp/metering/blitz"

	DefaultPollInterval     = 30 // s
	DefaultCooldown         = 30 // s
	DefaultFailureThreshold = 5

	DefaultMaxAttempts    = 3
	DefaultReconnectDelay = 1 // s
	DefaultBackoffBase    = 1 // s
)

// Default returns a fully populated configuration.
func Default() *Config {
	return &Config{
		Modbus: ModbusConfig{
			Host:      DefaultModbusHost,
			Port:      DefaultModbusPort,
			UnitID:    DefaultUnitID,
			TimeoutMs: DefaultModbusTimeout,
		},
		MQTT: MQTTConfig{
			Host:        DefaultMQTTHost,
			Port:        DefaultMQTTPort,
			ClientID:    DefaultMQTTClientID,
			TopicPrefix: DefaultTopicPrefix,
			Retain:      true,
		},
		Poll: PollConfig{
			IntervalSec:      DefaultPollInterval,
			CooldownSec:      DefaultCooldown,
			FailureThreshold: DefaultFailureThreshold,
		},
		Reconnect: ReconnectConfig{
			MaxAttempts:    DefaultMaxAttempts,
			DelaySec:       DefaultReconnectDelay,
			BackoffBaseSec: DefaultBackoffBase,
		},
		ChargingPoints: []ChargingPointConfig{
			{ID: "cp1", Name: "links", BaseAddress: 1000},
			{ID: "cp2", Name: "rechts", BaseAddress: 2000},
		},
	}
}
