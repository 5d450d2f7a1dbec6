// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/klskmp/blitz-publisher/internal/status"
	"github.com/rs/zerolog"
)

// Link is the field-bus session: readable and force-closable.
type Link interface {
	Client
	Close() error
}

// Guard verifies (and if needed re-establishes) the link before a cycle.
type Guard interface {
	Ensure(ctx context.Context) error
}

// Sink receives the metric set of one point with data.
type Sink interface {
	Publish(name string, metrics MetricSet) error
}

// StatusSink receives the bridge health after every cycle.
type StatusSink interface {
	WriteStatus(s status.Snapshot) error
}

// RunnerConfig is the orchestrator's immutable runtime config.
type RunnerConfig struct {
	Points           []Point
	Interval         time.Duration
	Cooldown         time.Duration
	FailureThreshold int
}

// Runner owns the link and drives the poll loop.
// Single goroutine; no locks needed.
type Runner struct {
	cfg    RunnerConfig
	link   Link
	guard  Guard
	reader *Reader
	sink   Sink
	status StatusSink
	log    zerolog.Logger

	// failures counts consecutive cycles where no point yielded data.
	failures int

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner with immutable config.
// st may be nil.
func NewRunner(cfg RunnerConfig, link Link, guard Guard, sink Sink, st StatusSink, log zerolog.Logger) (*Runner, error) {
	if len(cfg.Points) == 0 {
		return nil, errors.New("runner: at least one charging point required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("runner: interval must be > 0")
	}
	if cfg.FailureThreshold < 1 {
		return nil, errors.New("runner: failure threshold must be >= 1")
	}
	if link == nil || guard == nil || sink == nil {
		return nil, errors.New("runner: link, guard and sink required")
	}

	return &Runner{
		cfg:    cfg,
		link:   link,
		guard:  guard,
		reader: NewReader(link, log),
		sink:   sink,
		status: st,
		log:    log,
		sleep:  sleepCtx,
	}, nil
}

// Failures returns the current consecutive all-failed cycle count.
func (r *Runner) Failures() int { return r.failures }

// Run loops until ctx is cancelled.
// The wait is measured from the end of a cycle, not wall-clock aligned.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info().
		Dur("interval", r.cfg.Interval).
		Int("points", len(r.cfg.Points)).
		Msg("poll loop started")

	for {
		rep := r.Cycle(ctx)
		if ctx.Err() != nil {
			return
		}

		wait := r.cfg.Interval
		if rep.LinkFailed {
			wait = r.cfg.Cooldown
			r.log.Warn().Dur("cooldown", wait).Msg("link unavailable, cooling down")
		}

		if err := r.sleep(ctx, wait); err != nil {
			return
		}
	}
}

// Cycle performs exactly one poll cycle.
func (r *Runner) Cycle(ctx context.Context) CycleReport {
	var rep CycleReport

	if err := r.guard.Ensure(ctx); err != nil {
		rep.LinkFailed = true
		rep.Err = err
		rep.Failures = r.failures
		if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("link check failed")
		}
		r.writeStatus(rep)
		return rep
	}

	for _, p := range r.cfg.Points {
		res := r.reader.Read(p)
		rep.PointsRead++

		if !res.HasData() {
			r.log.Warn().Str("point", p.Name).Msg("failed to read data")
			continue
		}
		rep.PointsWithData++

		if err := r.sink.Publish(p.Name, res.Metrics); err != nil {
			r.log.Error().Err(err).Str("point", p.Name).Msg("publish failed")
		}
		r.logSummary(res)
	}

	if rep.PointsWithData > 0 {
		r.failures = 0
	} else {
		r.failures++
		if r.failures >= r.cfg.FailureThreshold {
			r.log.Warn().
				Int("failed_cycles", r.failures).
				Msg("no data from any charging point, forcing reconnect")
			if err := r.link.Close(); err != nil {
				r.log.Debug().Err(err).Msg("force close")
			}
			rep.ForcedReconnect = true
			r.failures = 0
		}
	}

	rep.Failures = r.failures
	r.writeStatus(rep)
	return rep
}

func (r *Runner) logSummary(res ReadResult) {
	ev := r.log.Info().
		Str("point", res.Point.Name).
		Str("outcome", res.Outcome.String()).
		Int("metrics", res.Metrics.Len())
	if v, ok := res.Metrics.Get(LabelPower); ok {
		ev = ev.Float64("power_w", v.Float64())
	}
	if v, ok := res.Metrics.Get(LabelImport); ok {
		ev = ev.Str("import_wh", v.String())
	}
	ev.Msg("charging point read")
}

func (r *Runner) writeStatus(rep CycleReport) {
	if r.status == nil {
		return
	}
	snap := status.FromCycle(rep.LinkFailed, rep.PointsWithData, len(r.cfg.Points), rep.Failures)
	if err := r.status.WriteStatus(snap); err != nil {
		r.log.Debug().Err(err).Msg("status write failed")
	}
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
