// cmd/blitz-publisher/flags_test.go
package main

import (
	"testing"

	"github.com/klskmp/blitz-publisher/internal/config"
	"github.com/urfave/cli/v2"
)

// parse runs the flag set against args and returns the overlaid config.
func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	cfg := config.Default()
	var applyErr error

	app := &cli.App{
		Name:  "test",
		Flags: flags(),
		Action: func(ctx *cli.Context) error {
			applyErr = applyFlags(ctx, cfg)
			return nil
		},
	}
	if err := app.Run(append([]string{"test"}, args...)); err != nil {
		t.Fatalf("app.Run err=%v", err)
	}
	return cfg, applyErr
}

func TestApplyFlags_UnsetKeepsConfig(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}
	if cfg.Modbus.Host != config.DefaultModbusHost || !cfg.MQTT.Retain || cfg.Reconnect.ProbeAddress != nil {
		t.Fatalf("defaults changed: %+v", cfg)
	}
}

func TestApplyFlags_Flags(t *testing.T) {
	cfg, err := parse(t,
		"--modbus-host", "10.1.1.1",
		"--device-id", "3",
		"--retain=false",
		"--qos", "1",
		"--poll-interval", "15",
		"--probe-address", "1299",
	)
	if err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}
	if cfg.Modbus.Host != "10.1.1.1" || cfg.Modbus.UnitID != 3 {
		t.Fatalf("modbus not applied: %+v", cfg.Modbus)
	}
	if cfg.MQTT.Retain || cfg.MQTT.QoS != 1 {
		t.Fatalf("mqtt not applied: %+v", cfg.MQTT)
	}
	if cfg.Poll.IntervalSec != 15 {
		t.Fatalf("interval=%d", cfg.Poll.IntervalSec)
	}
	if cfg.Reconnect.ProbeAddress == nil || *cfg.Reconnect.ProbeAddress != 1299 {
		t.Fatalf("probe address not applied")
	}
}

func TestApplyFlags_EnvVars(t *testing.T) {
	t.Setenv("MQTT_TOPIC_PREFIX", "home/meters")
	t.Setenv("MODBUS_PORT", "1502")
	t.Setenv("MQTT_RETAIN", "false")

	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}
	if cfg.MQTT.TopicPrefix != "home/meters" {
		t.Fatalf("prefix=%q", cfg.MQTT.TopicPrefix)
	}
	if cfg.Modbus.Port != 1502 {
		t.Fatalf("port=%d", cfg.Modbus.Port)
	}
	if cfg.MQTT.Retain {
		t.Fatalf("retain env not applied")
	}
}

func TestApplyFlags_RangeErrors(t *testing.T) {
	if _, err := parse(t, "--qos", "3"); err == nil {
		t.Fatalf("expected qos range error")
	}
	if _, err := parse(t, "--device-id", "300"); err == nil {
		t.Fatalf("expected device-id range error")
	}
	if _, err := parse(t, "--probe-address", "70000"); err == nil {
		t.Fatalf("expected probe-address range error")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug", "json"); err != nil {
		t.Fatalf("json logger: %v", err)
	}
	if _, err := newLogger("info", "console"); err != nil {
		t.Fatalf("console logger: %v", err)
	}
	if _, err := newLogger("loud", "json"); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := newLogger("info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
