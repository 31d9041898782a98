// Package monitor runs the fixed-interval sample, aggregate, render loop.
package monitor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nozo-moto/netchart/internal/history"
	"github.com/nozo-moto/netchart/internal/logging"
	"github.com/nozo-moto/netchart/internal/stats"
	"github.com/nozo-moto/netchart/internal/units"
	"github.com/nozo-moto/netchart/pkg/types"
)

type State int32

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "STOPPED"
	}
	return "RUNNING"
}

// Sampler produces one tick per call.
type Sampler interface {
	Sample(ctx context.Context) types.Tick
}

type Options struct {
	Interval      time.Duration
	History       int
	ShowStats     bool
	AutoScale     bool
	RetainMissing int
	Clock         clock.Clock
	Logger        *slog.Logger
}

// Monitor owns all pipeline state. Only the goroutine running Run (or Tick)
// touches it.
type Monitor struct {
	sampler   Sampler
	renderer  Renderer
	history   *history.Store
	agg       *stats.Aggregator
	scaler    units.Scaler
	retention *retention

	interval  time.Duration
	showStats bool
	clock     clock.Clock
	logger    *slog.Logger

	ticks uint64
	state atomic.Int32
}

func New(sampler Sampler, renderer Renderer, opts Options) *Monitor {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Monitor{
		sampler:   sampler,
		renderer:  renderer,
		history:   history.NewStore(opts.History),
		agg:       stats.New(),
		scaler:    units.NewScaler(opts.AutoScale),
		retention: newRetention(opts.RetainMissing),
		interval:  opts.Interval,
		showStats: opts.ShowStats,
		clock:     opts.Clock,
		logger:    logging.Component(opts.Logger, "monitor"),
	}
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Run ticks until ctx is cancelled. It always returns nil; per-tick failures
// are logged and rendered, never fatal.
func (m *Monitor) Run(ctx context.Context) error {
	m.state.Store(int32(Running))
	defer m.state.Store(int32(Stopped))

	m.logger.Info("monitor started", "interval", m.interval, "history", m.history.Capacity())
	next := m.clock.Now()
	for {
		if ctx.Err() != nil {
			m.logger.Info("monitor stopped", "ticks", m.ticks)
			return nil
		}

		m.Tick(ctx)

		var wait time.Duration
		next, wait = schedule(next, m.clock.Now(), m.interval)
		if wait <= 0 {
			continue
		}

		timer := m.clock.Timer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

// schedule returns the next deadline and how long to wait for it. Deadlines
// advance by interval from the previous one; an overrun re-bases on now so
// missed ticks are never replayed.
func schedule(prev, now time.Time, interval time.Duration) (time.Time, time.Duration) {
	next := prev.Add(interval)
	if !next.After(now) {
		return now, 0
	}
	return next, next.Sub(now)
}

// Tick runs one pass of the pipeline and returns the rendered frame. Once ctx
// is cancelled nothing is recorded or rendered and the zero Frame is returned.
func (m *Monitor) Tick(ctx context.Context) types.Frame {
	start := m.clock.Now()
	tick := m.sampler.Sample(ctx)
	if ctx.Err() != nil {
		// shutting down; a read cut short is not a sampling failure
		return types.Frame{}
	}
	if tick.OK() {
		for name, rate := range tick.Rates {
			m.history.Record(name, rate)
		}
	} else {
		m.logger.Warn("sampling failed", "error", tick.Err)
	}

	session, _ := m.agg.Update(tick)

	if tick.OK() {
		present := make(map[string]bool, len(tick.Snapshot.Interfaces))
		for name := range tick.Snapshot.Interfaces {
			present[name] = true
		}
		for _, name := range m.retention.observe(m.history.Names(), present) {
			m.history.Drop(name)
			m.agg.Drop(name)
			m.logger.Info("purged vanished interface", "interface", name)
		}
	}

	m.ticks++
	frame := types.Frame{
		Tick:         m.ticks,
		Chart:        buildChart(m.history, m.scaler, m.interval),
		Panel:        buildPanel(m.showStats, session, m.agg.Summary(m.clock.Now()), m.agg.Interfaces(), m.scaler),
		SampleFailed: !tick.OK(),
		Duration:     m.clock.Since(start),
	}

	if m.renderer != nil {
		if err := m.renderer.Render(frame); err != nil {
			m.logger.Warn("render failed", "error", err)
		}
	}
	return frame
}
