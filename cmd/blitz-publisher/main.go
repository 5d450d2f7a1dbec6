// cmd/blitz-publisher/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klskmp/blitz-publisher/internal/config"
	"github.com/klskmp/blitz-publisher/internal/poller"
	"github.com/klskmp/blitz-publisher/internal/publisher"
	"github.com/klskmp/blitz-publisher/internal/publisher/mqtt"
	"github.com/klskmp/blitz-publisher/internal/status"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	// Exported before flag parsing so the file can feed EnvVars below.
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:   "blitz-publisher",
		Usage:  "Publish CharX charging point Modbus metrics to MQTT (mbmd topic layout)",
		Flags:  flags(),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log, err := newLogger(ctx.String("log-level"), ctx.String("log-format"))
	if err != nil {
		return err
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if err := applyFlags(ctx, cfg); err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log.Info().
		Str("modbus", cfg.Modbus.Endpoint()).
		Str("mqtt", cfg.MQTT.BrokerURL()).
		Str("prefix", cfg.MQTT.TopicPrefix).
		Bool("retain", cfg.MQTT.Retain).
		Msg("blitz publisher starting")

	// --------------------
	// MQTT (fatal if unreachable)
	// --------------------

	statusTopic := status.Topic(cfg.MQTT.TopicPrefix)

	mc, err := mqtt.Connect(mqtt.Config{
		BrokerURL:      cfg.MQTT.BrokerURL(),
		ClientID:       cfg.MQTT.ClientID,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		ConnectTimeout: 10 * time.Second,
		WillTopic:      statusTopic,
		WillPayload:    status.Encode(status.Snapshot{Health: status.HealthOffline}),
	}, log.With().Str("component", "mqtt").Logger())
	if err != nil {
		return fmt.Errorf("mqtt connect failed: %w", err)
	}

	pub := publisher.New(publisher.Config{
		Prefix: cfg.MQTT.TopicPrefix,
		QoS:    cfg.MQTT.QoS,
		Retain: cfg.MQTT.Retain,
		Strict: cfg.MQTT.Strict,
	}, mc, log.With().Str("component", "publisher").Logger())

	sw := publisher.NewStatusWriter(cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, mc, log.With().Str("component", "status").Logger())

	// --------------------
	// Modbus (fatal if unreachable)
	// --------------------

	runner, closeLink, err := poller.Build(cfg, pub, sw, log)
	if err != nil {
		mc.Disconnect(250)
		return fmt.Errorf("modbus connect failed: %w", err)
	}
	log.Info().Str("modbus", cfg.Modbus.Endpoint()).Msg("modbus connected")

	// --------------------
	// Run until SIGINT / SIGTERM
	// --------------------

	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner.Run(sigCtx)

	log.Info().Msg("stopping")

	if err := closeLink(); err != nil {
		log.Warn().Err(err).Msg("modbus close")
	}
	if err := sw.Offline(2 * time.Second); err != nil {
		log.Warn().Err(err).Msg("offline status not delivered")
	}
	mc.Disconnect(250)

	log.Info().Msg("disconnected")
	return nil
}

func newLogger(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}

	var logger zerolog.Logger
	switch format {
	case "json":
		logger = zerolog.New(os.Stderr)
	case "console", "":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want console or json", format)
	}

	return logger.Level(lvl).With().Timestamp().Logger(), nil
}
