// internal/publisher/publisher.go
package publisher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/klskmp/blitz-publisher/internal/poller"
	"github.com/rs/zerolog"
)

// Broker is the exact contract the publisher uses.
// Satisfied by paho.Client and by mqtt.Client.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Config is the publisher's delivery policy.
type Config struct {
	Prefix string
	QoS    byte
	Retain bool

	// Strict waits for every token and reports delivery errors.
	// Default is fire-and-forget.
	Strict  bool
	Timeout time.Duration // per token in strict mode
}

// Publisher maps a point's metric set onto topics.
// Delivery only: no logic, no state.
type Publisher struct {
	cfg    Config
	broker Broker
	log    zerolog.Logger
}

func New(cfg Config, broker Broker, log zerolog.Logger) *Publisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Publisher{cfg: cfg, broker: broker, log: log}
}

// Topic returns <prefix>/<name>/<label>.
func (p *Publisher) Topic(name, label string) string {
	parts := make([]string, 0, 3)
	if p.cfg.Prefix != "" {
		parts = append(parts, p.cfg.Prefix)
	}
	parts = append(parts, name, label)
	return strings.Join(parts, "/")
}

// Publish emits one message per metric.
// In the default mode tokens are dropped and the result is always nil;
// broker-level failures are not surfaced.
func (p *Publisher) Publish(name string, metrics poller.MetricSet) error {
	items := metrics.Metrics()

	type pending struct {
		topic string
		tok   paho.Token
	}
	var waits []pending

	for _, m := range items {
		topic := p.Topic(name, m.Label)
		tok := p.broker.Publish(topic, p.cfg.QoS, p.cfg.Retain, m.Value.String())
		if p.cfg.Strict {
			waits = append(waits, pending{topic: topic, tok: tok})
		}
	}

	p.log.Info().Str("point", name).Int("metrics", len(items)).Msg("published metrics")

	var errs []error
	for _, w := range waits {
		if !w.tok.WaitTimeout(p.cfg.Timeout) {
			errs = append(errs, fmt.Errorf("publish %s: timeout after %v", w.topic, p.cfg.Timeout))
			continue
		}
		if err := w.tok.Error(); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", w.topic, err))
		}
	}

	return errors.Join(errs...)
}
