package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nozo-moto/netchart/internal/logging"
	"github.com/nozo-moto/netchart/pkg/types"
)

// Sampler turns successive counter snapshots into per-interface rates.
// It is not safe for concurrent use; the tick loop owns it.
type Sampler struct {
	reader  CounterReader
	timeout time.Duration
	logger  *slog.Logger

	prev    types.Snapshot
	hasPrev bool
}

func NewSampler(reader CounterReader, timeout time.Duration, logger *slog.Logger) *Sampler {
	return &Sampler{
		reader:  reader,
		timeout: timeout,
		logger:  logging.Component(logger, "sampler"),
	}
}

// Sample reads the counters once and derives rates against the previous
// successful read. A failed read returns a Tick with Err set and keeps the
// old baseline. A read that lists no interfaces is a successful, empty tick.
func (s *Sampler) Sample(ctx context.Context) types.Tick {
	snap, err := ReadWithTimeout(ctx, s.reader, s.timeout)
	if errors.Is(err, ErrNoInterfaces) {
		snap.Interfaces = map[string]types.InterfaceSnapshot{}
		err = nil
	}
	if err != nil {
		return types.Tick{
			Rates:  map[string]types.RateSample{},
			Deltas: map[string]types.ByteDelta{},
			Err:    err,
		}
	}

	tick := types.Tick{
		Snapshot: snap,
		Rates:    make(map[string]types.RateSample, len(snap.Interfaces)),
		Deltas:   make(map[string]types.ByteDelta, len(snap.Interfaces)),
	}

	for name, cur := range snap.Interfaces {
		prev, ok := s.prev.Interfaces[name]
		if !s.hasPrev || !ok {
			tick.Rates[name] = types.RateSample{}
			tick.Deltas[name] = types.ByteDelta{}
			continue
		}

		delta := types.ByteDelta{
			Sent: clampedDelta(cur.BytesSent, prev.BytesSent),
			Recv: clampedDelta(cur.BytesRecv, prev.BytesRecv),
		}
		if cur.BytesSent < prev.BytesSent || cur.BytesRecv < prev.BytesRecv {
			s.logger.Debug("counter went backwards", "interface", name,
				"sent", cur.BytesSent, "prev_sent", prev.BytesSent,
				"recv", cur.BytesRecv, "prev_recv", prev.BytesRecv)
		}
		tick.Deltas[name] = delta
		tick.Rates[name] = Rate(delta, cur.Timestamp.Sub(prev.Timestamp))
	}

	s.prev = snap
	s.hasPrev = true
	return tick
}

// Rate divides a delta by the elapsed wall-clock time. Non-positive elapsed
// time yields a zero rate.
func Rate(d types.ByteDelta, elapsed time.Duration) types.RateSample {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return types.RateSample{}
	}
	return types.RateSample{
		UploadBps:   float64(d.Sent) / secs,
		DownloadBps: float64(d.Recv) / secs,
	}
}

// clampedDelta treats a decreasing counter (reset, wraparound,
// re-enumeration) as no traffic.
func clampedDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
