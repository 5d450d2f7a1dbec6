// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is built once at startup and shared read-only.
type Config struct {
	Modbus         ModbusConfig          `yaml:"modbus"`
	MQTT           MQTTConfig            `yaml:"mqtt"`
	Poll           PollConfig            `yaml:"poll"`
	Reconnect      ReconnectConfig       `yaml:"reconnect"`
	ChargingPoints []ChargingPointConfig `yaml:"charging_points"`
}

// ---- MODBUS ----

type ModbusConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Endpoint returns host:port.
func (m ModbusConfig) Endpoint() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

func (m ModbusConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

// ---- MQTT ----

type MQTTConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`

	// Retain selects retained delivery for metric messages.
	Retain bool `yaml:"retain"`
	QoS    byte `yaml:"qos"`

	// Strict waits for broker acknowledgement of every publish.
	// Off by default: publishing is fire-and-forget.
	Strict bool `yaml:"strict"`
}

// BrokerURL returns the paho broker URL.
func (m MQTTConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s", net.JoinHostPort(m.Host, strconv.Itoa(m.Port)))
}

// ---- POLL ----

type PollConfig struct {
	IntervalSec      int `yaml:"interval_sec"`
	CooldownSec      int `yaml:"cooldown_sec"`
	FailureThreshold int `yaml:"failure_threshold"`
}

func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSec) * time.Second
}

func (p PollConfig) Cooldown() time.Duration {
	return time.Duration(p.CooldownSec) * time.Second
}

// ---- RECONNECT ----

type ReconnectConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	DelaySec       int `yaml:"delay_sec"`
	BackoffBaseSec int `yaml:"backoff_base_sec"`

	// ProbeAddress is the holding register read to test a live link.
	// nil => first charging point's voltage L1 register.
	ProbeAddress *uint16 `yaml:"probe_address"`
}

func (r ReconnectConfig) Delay() time.Duration {
	return time.Duration(r.DelaySec) * time.Second
}

func (r ReconnectConfig) BackoffBase() time.Duration {
	return time.Duration(r.BackoffBaseSec) * time.Second
}

// ---- CHARGING POINTS ----

type ChargingPointConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	BaseAddress uint16 `yaml:"base_address"`
}
