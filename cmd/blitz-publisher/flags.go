// cmd/blitz-publisher/flags.go
package main

import (
	"fmt"

	"github.com/klskmp/blitz-publisher/internal/config"
	"github.com/urfave/cli/v2"
)

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Optional YAML config file; flags and env override it",
			EnvVars: []string{"CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "trace, debug, info, warn, error",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "console or json",
			EnvVars: []string{"LOG_FORMAT"},
			Value:   "console",
		},

		// ---- modbus ----
		&cli.StringFlag{
			Name:    "modbus-host",
			Usage:   "Charging controller Modbus TCP host",
			EnvVars: []string{"MODBUS_HOST"},
			Value:   config.DefaultModbusHost,
		},
		&cli.IntFlag{
			Name:    "modbus-port",
			EnvVars: []string{"MODBUS_PORT"},
			Value:   config.DefaultModbusPort,
		},
		&cli.IntFlag{
			Name:    "device-id",
			Usage:   "Modbus unit identifier",
			EnvVars: []string{"DEVICE_ID"},
			Value:   config.DefaultUnitID,
		},
		&cli.IntFlag{
			Name:    "modbus-timeout-ms",
			Usage:   "Socket timeout for connect and every read",
			EnvVars: []string{"MODBUS_TIMEOUT_MS"},
			Value:   config.DefaultModbusTimeout,
		},

		// ---- mqtt ----
		&cli.StringFlag{
			Name:    "mqtt-broker",
			EnvVars: []string{"MQTT_BROKER"},
			Value:   config.DefaultMQTTHost,
		},
		&cli.IntFlag{
			Name:    "mqtt-port",
			EnvVars: []string{"MQTT_PORT"},
			Value:   config.DefaultMQTTPort,
		},
		&cli.StringFlag{
			Name:    "mqtt-client-id",
			EnvVars: []string{"MQTT_CLIENT_ID"},
			Value:   config.DefaultMQTTClientID,
		},
		&cli.StringFlag{
			Name:    "mqtt-user",
			EnvVars: []string{"MQTT_USER"},
		},
		&cli.StringFlag{
			Name:    "mqtt-password",
			EnvVars: []string{"MQTT_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "topic-prefix",
			EnvVars: []string{"MQTT_TOPIC_PREFIX"},
			Value:   config.DefaultTopicPrefix,
		},
		&cli.BoolFlag{
			Name:    "retain",
			Usage:   "Publish metrics as retained messages",
			EnvVars: []string{"MQTT_RETAIN"},
			Value:   true,
		},
		&cli.IntFlag{
			Name:    "qos",
			EnvVars: []string{"MQTT_QOS"},
			Value:   0,
		},
		&cli.BoolFlag{
			Name:    "strict",
			Usage:   "Wait for broker acknowledgement and log delivery failures",
			EnvVars: []string{"MQTT_STRICT"},
		},

		// ---- polling ----
		&cli.IntFlag{
			Name:    "poll-interval",
			Usage:   "Seconds between the end of one cycle and the start of the next",
			EnvVars: []string{"POLL_INTERVAL"},
			Value:   config.DefaultPollInterval,
		},
		&cli.IntFlag{
			Name:    "cooldown",
			Usage:   "Seconds to wait after reconnect attempts are exhausted",
			EnvVars: []string{"COOLDOWN"},
			Value:   config.DefaultCooldown,
		},
		&cli.IntFlag{
			Name:    "failure-threshold",
			Usage:   "Consecutive empty cycles before a forced reconnect",
			EnvVars: []string{"FAILURE_THRESHOLD"},
			Value:   config.DefaultFailureThreshold,
		},
		&cli.IntFlag{
			Name:    "reconnect-attempts",
			EnvVars: []string{"RECONNECT_ATTEMPTS"},
			Value:   config.DefaultMaxAttempts,
		},
		&cli.IntFlag{
			Name:    "probe-address",
			Usage:   "Holding register probed to test the link (default: first point voltage L1)",
			EnvVars: []string{"PROBE_ADDRESS"},
		},
	}
}

// applyFlags overlays flags (and their env vars) that were actually set.
func applyFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("modbus-host") {
		cfg.Modbus.Host = ctx.String("modbus-host")
	}
	if ctx.IsSet("modbus-port") {
		cfg.Modbus.Port = ctx.Int("modbus-port")
	}
	if ctx.IsSet("device-id") {
		v := ctx.Int("device-id")
		if v < 0 || v > 255 {
			return fmt.Errorf("device-id %d out of range", v)
		}
		cfg.Modbus.UnitID = uint8(v)
	}
	if ctx.IsSet("modbus-timeout-ms") {
		cfg.Modbus.TimeoutMs = ctx.Int("modbus-timeout-ms")
	}

	if ctx.IsSet("mqtt-broker") {
		cfg.MQTT.Host = ctx.String("mqtt-broker")
	}
	if ctx.IsSet("mqtt-port") {
		cfg.MQTT.Port = ctx.Int("mqtt-port")
	}
	if ctx.IsSet("mqtt-client-id") {
		cfg.MQTT.ClientID = ctx.String("mqtt-client-id")
	}
	if ctx.IsSet("mqtt-user") {
		cfg.MQTT.Username = ctx.String("mqtt-user")
	}
	if ctx.IsSet("mqtt-password") {
		cfg.MQTT.Password = ctx.String("mqtt-password")
	}
	if ctx.IsSet("topic-prefix") {
		cfg.MQTT.TopicPrefix = ctx.String("topic-prefix")
	}
	if ctx.IsSet("retain") {
		cfg.MQTT.Retain = ctx.Bool("retain")
	}
	if ctx.IsSet("qos") {
		v := ctx.Int("qos")
		if v < 0 || v > 2 {
			return fmt.Errorf("qos %d out of range 0..2", v)
		}
		cfg.MQTT.QoS = byte(v)
	}
	if ctx.IsSet("strict") {
		cfg.MQTT.Strict = ctx.Bool("strict")
	}

	if ctx.IsSet("poll-interval") {
		cfg.Poll.IntervalSec = ctx.Int("poll-interval")
	}
	if ctx.IsSet("cooldown") {
		cfg.Poll.CooldownSec = ctx.Int("cooldown")
	}
	if ctx.IsSet("failure-threshold") {
		cfg.Poll.FailureThreshold = ctx.Int("failure-threshold")
	}
	if ctx.IsSet("reconnect-attempts") {
		cfg.Reconnect.MaxAttempts = ctx.Int("reconnect-attempts")
	}
	if ctx.IsSet("probe-address") {
		v := ctx.Int("probe-address")
		if v < 0 || v > 0xFFFF {
			return fmt.Errorf("probe-address %d out of range", v)
		}
		addr := uint16(v)
		cfg.Reconnect.ProbeAddress = &addr
	}

	return nil
}
