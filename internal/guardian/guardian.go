// internal/guardian/guardian.go
package guardian

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// ErrReconnectExhausted is returned when every reconnect attempt failed.
var ErrReconnectExhausted = errors.New("guardian: reconnect attempts exhausted")

// Link is the field-bus session the guardian keeps alive.
type Link interface {
	IsConnected() bool
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
	Connect() error
	Close() error
}

// State of the link as last observed by Ensure.
type State int

const (
	Unknown State = iota
	Alive
	Dead
)

func (s State) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

type Config struct {
	MaxAttempts  int
	Delay        time.Duration // before the first reconnect attempt
	BackoffBase  time.Duration // doubled after each failed attempt
	ProbeAddress uint16
}

// Guardian verifies the link before each poll cycle and reconnects it
// when dead. It keeps no memory across calls beyond the link itself.
type Guardian struct {
	cfg   Config
	link  Link
	log   zerolog.Logger
	state State

	// sleep is swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, link Link, log zerolog.Logger) *Guardian {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Guardian{
		cfg:   cfg,
		link:  link,
		log:   log,
		sleep: sleepCtx,
	}
}

// State returns the outcome of the last Ensure call.
func (g *Guardian) State() State { return g.state }

// Ensure makes sure the link is usable.
// Returns nil when the link is alive, ErrReconnectExhausted when every
// attempt failed, or the context error when cancelled while waiting.
func (g *Guardian) Ensure(ctx context.Context) error {
	g.state = Unknown

	if g.link.IsConnected() {
		_, err := g.link.ReadHoldingRegisters(g.cfg.ProbeAddress, 1)
		if err == nil {
			g.state = Alive
			return nil
		}
		g.log.Warn().Err(err).Uint16("address", g.cfg.ProbeAddress).Msg("link probe failed")
	}

	g.state = Dead
	return g.reconnect(ctx)
}

func (g *Guardian) reconnect(ctx context.Context) error {
	if err := g.link.Close(); err != nil {
		g.log.Debug().Err(err).Msg("close before reconnect")
	}

	if err := g.sleep(ctx, g.cfg.Delay); err != nil {
		return err
	}

	b := g.newBackOff()

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := b.NextBackOff()
			g.log.Debug().Int("attempt", attempt).Dur("wait", wait).Msg("reconnect backoff")
			if err := g.sleep(ctx, wait); err != nil {
				return err
			}
		}

		if err := g.link.Connect(); err != nil {
			lastErr = err
			g.log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Int("max_attempts", g.cfg.MaxAttempts).
				Msg("reconnect failed")
			continue
		}

		g.state = Alive
		g.log.Info().Int("attempt", attempt+1).Msg("link reconnected")
		return nil
	}

	return fmt.Errorf("%w (%d attempts): %w", ErrReconnectExhausted, g.cfg.MaxAttempts, lastErr)
}

// newBackOff yields BackoffBase * 2^n without jitter and never stops.
func (g *Guardian) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.BackoffBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
