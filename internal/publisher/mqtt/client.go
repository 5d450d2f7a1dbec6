// internal/publisher/mqtt/client.go
package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Config is minimal broker config.
type Config struct {
	BrokerURL      string // tcp://host:port
	ClientID       string
	Username       string
	Password       string
	ConnectTimeout time.Duration

	// Last will, published by the broker if we vanish.
	WillTopic   string
	WillPayload string
}

// Client wraps a paho client. paho runs its own network goroutines for
// outbound delivery, keep-alive and reconnect.
type Client struct {
	c   paho.Client
	log zerolog.Logger
}

// Connect dials the broker and waits up to ConnectTimeout.
// Failure here is fatal for the caller (startup).
func Connect(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("mqtt: broker url required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	c := paho.NewClient(newOptions(cfg, log))

	tok := c.Connect()
	if !tok.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect %s: timeout after %v", cfg.BrokerURL, cfg.ConnectTimeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.BrokerURL, err)
	}

	return &Client{c: c, log: log}, nil
}

func newOptions(cfg Config, log zerolog.Logger) *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetOrderMatters(false).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxReconnectInterval(30 * time.Second).
		SetKeepAlive(60 * time.Second).
		SetWriteTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.WillTopic != "" {
		opts.SetWill(cfg.WillTopic, cfg.WillPayload, 1, true)
	}

	opts.SetOnConnectHandler(func(paho.Client) {
		log.Info().Str("broker", cfg.BrokerURL).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Str("broker", cfg.BrokerURL).Msg("mqtt connection lost")
	})
	opts.SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
		log.Debug().Str("broker", cfg.BrokerURL).Msg("mqtt reconnecting")
	})

	return opts
}

// Publish hands the message to paho and returns immediately.
func (c *Client) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	return c.c.Publish(topic, qos, retained, payload)
}

// Disconnect waits up to quiesce ms for in-flight work, then stops paho.
func (c *Client) Disconnect(quiesce uint) {
	c.c.Disconnect(quiesce)
	c.log.Info().Msg("mqtt disconnected")
}
