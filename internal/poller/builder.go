// internal/poller/builder.go
package poller

import (
	"fmt"

	cfg "github.com/klskmp/blitz-publisher/internal/config"
	"github.com/klskmp/blitz-publisher/internal/guardian"
	pmodbus "github.com/klskmp/blitz-publisher/internal/poller/modbus"
	"github.com/rs/zerolog"
)

// Build constructs a Runner and wires the Modbus link lifecycle.
// The link is connected once here (fail fast at startup); afterwards the
// guardian owns reconnects. The returned closer closes the link.
func Build(c *cfg.Config, sink Sink, st StatusSink, log zerolog.Logger) (*Runner, func() error, error) {
	link, err := pmodbus.New(pmodbus.Config{
		Endpoint: c.Modbus.Endpoint(),
		UnitID:   c.Modbus.UnitID,
		Timeout:  c.Modbus.Timeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := link.Connect(); err != nil {
		return nil, nil, err
	}

	points := Points(c.ChargingPoints)

	guard := guardian.New(guardian.Config{
		MaxAttempts:  c.Reconnect.MaxAttempts,
		Delay:        c.Reconnect.Delay(),
		BackoffBase:  c.Reconnect.BackoffBase(),
		ProbeAddress: ProbeAddress(c),
	}, link, log.With().Str("component", "guardian").Logger())

	r, err := NewRunner(
		RunnerConfig{
			Points:           points,
			Interval:         c.Poll.Interval(),
			Cooldown:         c.Poll.Cooldown(),
			FailureThreshold: c.Poll.FailureThreshold,
		},
		link,
		guard,
		sink,
		st,
		log.With().Str("component", "poller").Logger(),
	)
	if err != nil {
		_ = link.Close()
		return nil, nil, fmt.Errorf("poller: %w", err)
	}

	return r, link.Close, nil
}

// Points converts configured charging points, keeping their order.
func Points(cps []cfg.ChargingPointConfig) []Point {
	out := make([]Point, 0, len(cps))
	for _, cp := range cps {
		out = append(out, Point{ID: cp.ID, Name: cp.Name, Base: cp.BaseAddress})
	}
	return out
}

// ProbeAddress is the configured probe register, or the first point's
// voltage L1 register when unset.
func ProbeAddress(c *cfg.Config) uint16 {
	if c.Reconnect.ProbeAddress != nil {
		return *c.Reconnect.ProbeAddress
	}
	if len(c.ChargingPoints) == 0 {
		return RegVoltageL1
	}
	return c.ChargingPoints[0].BaseAddress + RegVoltageL1
}
