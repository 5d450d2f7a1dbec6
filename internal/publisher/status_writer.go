// internal/publisher/status_writer.go
package publisher

import (
	"fmt"
	"time"

	"github.com/klskmp/blitz-publisher/internal/status"
	"github.com/rs/zerolog"
)

// healthWriter publishes health to <prefix>/status, retained.
// Only changes are published; the first write is always published.
type healthWriter struct {
	broker Broker
	topic  string
	qos    byte
	log    zerolog.Logger

	needFull bool
	last     status.Health
}

// NewStatusWriter builds the status writer for prefix.
func NewStatusWriter(prefix string, qos byte, broker Broker, log zerolog.Logger) *healthWriter {
	return &healthWriter{
		broker:   broker,
		topic:    status.Topic(prefix),
		qos:      qos,
		log:      log,
		needFull: true,
		last:     status.HealthUnknown,
	}
}

// Topic is the status topic.
func (w *healthWriter) Topic() string { return w.topic }

// WriteStatus publishes s if its health differs from the last published one.
func (w *healthWriter) WriteStatus(s status.Snapshot) error {
	if !w.needFull && s.Health == w.last {
		return nil
	}

	tok := w.broker.Publish(w.topic, w.qos, true, status.Encode(s))

	// A token that already failed means the broker never saw it;
	// re-assert on the next call.
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			w.needFull = true
			return fmt.Errorf("status writer: %w", err)
		}
	default:
	}

	w.needFull = false
	w.last = s.Health

	w.log.Info().
		Str("health", s.Health.String()).
		Int("failed_cycles", s.ConsecutiveFailures).
		Int("points_with_data", s.PointsWithData).
		Msg("bridge status changed")
	return nil
}

// Offline publishes the offline marker and waits up to timeout so it
// leaves before the client disconnects.
func (w *healthWriter) Offline(timeout time.Duration) error {
	tok := w.broker.Publish(w.topic, w.qos, true, status.Encode(status.Snapshot{Health: status.HealthOffline}))
	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("status writer: offline publish timeout after %v", timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("status writer: %w", err)
	}
	w.last = status.HealthOffline
	return nil
}
