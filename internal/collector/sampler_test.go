package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	sent, recv uint64
	up         bool
}

// scriptedReader replays one counter set per call, stamped with a mock clock.
type scriptedReader struct {
	clock *clock.Mock
	steps []map[string]counters
	errs  []error
	calls int
}

func (r *scriptedReader) Read(ctx context.Context) (types.Snapshot, error) {
	i := r.calls
	r.calls++
	now := r.clock.Now()
	snap := types.Snapshot{Timestamp: now, Interfaces: map[string]types.InterfaceSnapshot{}}
	if i < len(r.errs) && r.errs[i] != nil {
		return snap, r.errs[i]
	}
	for name, c := range r.steps[i] {
		snap.Interfaces[name] = types.InterfaceSnapshot{
			Name: name, BytesSent: c.sent, BytesRecv: c.recv, Up: c.up, Timestamp: now,
		}
	}
	return snap, nil
}

func newScripted(steps ...map[string]counters) (*scriptedReader, *clock.Mock) {
	mock := clock.NewMock()
	return &scriptedReader{clock: mock, steps: steps}, mock
}

func TestSamplerFirstTickIsZero(t *testing.T) {
	r, _ := newScripted(map[string]counters{"eth0": {1000, 2000, true}})
	s := NewSampler(r, time.Second, nil)

	tick := s.Sample(context.Background())
	require.True(t, tick.OK())
	assert.Equal(t, types.RateSample{}, tick.Rates["eth0"])
	assert.Equal(t, types.ByteDelta{}, tick.Deltas["eth0"])
}

func TestSamplerComputesRate(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {1000, 2000, true}},
		map[string]counters{"eth0": {1500, 2900, true}},
	)
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(time.Second)
	tick := s.Sample(context.Background())

	require.True(t, tick.OK())
	assert.InDelta(t, 500.0, tick.Rates["eth0"].UploadBps, 1e-9)
	assert.InDelta(t, 900.0, tick.Rates["eth0"].DownloadBps, 1e-9)
	assert.Equal(t, types.ByteDelta{Sent: 500, Recv: 900}, tick.Deltas["eth0"])
}

func TestSamplerUsesElapsedTimeNotInterval(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {0, 0, true}},
		map[string]counters{"eth0": {3000, 6000, true}},
	)
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(1500 * time.Millisecond)
	tick := s.Sample(context.Background())

	assert.InDelta(t, 2000.0, tick.Rates["eth0"].UploadBps, 1e-9)
	assert.InDelta(t, 4000.0, tick.Rates["eth0"].DownloadBps, 1e-9)
}

func TestSamplerClampsCounterReset(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {5000, 100, true}},
		map[string]counters{"eth0": {200, 400, true}},
		map[string]counters{"eth0": {700, 400, true}},
	)
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(time.Second)
	tick := s.Sample(context.Background())
	assert.Equal(t, 0.0, tick.Rates["eth0"].UploadBps)
	assert.Equal(t, uint64(0), tick.Deltas["eth0"].Sent)
	assert.InDelta(t, 300.0, tick.Rates["eth0"].DownloadBps, 1e-9)

	// the reset value becomes the new baseline
	mock.Add(time.Second)
	tick = s.Sample(context.Background())
	assert.InDelta(t, 500.0, tick.Rates["eth0"].UploadBps, 1e-9)
}

func TestSamplerNewAndVanishedInterfaces(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {100, 100, true}},
		map[string]counters{"eth0": {200, 200, true}, "wlan0": {9000, 9000, true}},
		map[string]counters{"wlan0": {9100, 9500, true}},
		map[string]counters{"eth0": {50000, 50000, true}, "wlan0": {9100, 9500, true}},
	)
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(time.Second)
	tick := s.Sample(context.Background())
	assert.Equal(t, types.RateSample{}, tick.Rates["wlan0"], "new interface starts at zero")
	assert.InDelta(t, 100.0, tick.Rates["eth0"].UploadBps, 1e-9)

	mock.Add(time.Second)
	tick = s.Sample(context.Background())
	_, ok := tick.Rates["eth0"]
	assert.False(t, ok)
	assert.InDelta(t, 500.0, tick.Rates["wlan0"].DownloadBps, 1e-9)

	// eth0 comes back and is treated as newly discovered
	mock.Add(time.Second)
	tick = s.Sample(context.Background())
	assert.Equal(t, types.RateSample{}, tick.Rates["eth0"])
}

func TestSamplerFailureKeepsBaseline(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {0, 0, true}},
		nil,
		map[string]counters{"eth0": {2000, 4000, true}},
	)
	r.errs = []error{nil, errors.New("permission denied"), nil}
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(time.Second)
	tick := s.Sample(context.Background())
	require.False(t, tick.OK())
	assert.Empty(t, tick.Rates)
	assert.Empty(t, tick.Deltas)

	mock.Add(time.Second)
	tick = s.Sample(context.Background())
	require.True(t, tick.OK())
	assert.InDelta(t, 1000.0, tick.Rates["eth0"].UploadBps, 1e-9)
	assert.InDelta(t, 2000.0, tick.Rates["eth0"].DownloadBps, 1e-9)
}

func TestSamplerNoInterfacesIsEmptyTick(t *testing.T) {
	r, mock := newScripted(
		map[string]counters{"eth0": {0, 0, true}},
		nil,
		map[string]counters{"eth0": {3000, 3000, true}},
	)
	r.errs = []error{nil, ErrNoInterfaces, nil}
	s := NewSampler(r, time.Second, nil)

	s.Sample(context.Background())
	mock.Add(time.Second)
	tick := s.Sample(context.Background())
	require.True(t, tick.OK())
	assert.NotNil(t, tick.Snapshot.Interfaces)
	assert.Empty(t, tick.Snapshot.Interfaces)
	assert.Equal(t, mock.Now(), tick.Snapshot.Timestamp)
	assert.Empty(t, tick.Rates)

	// eth0 left the baseline, so it returns as a new interface
	mock.Add(time.Second)
	tick = s.Sample(context.Background())
	require.True(t, tick.OK())
	assert.Equal(t, types.RateSample{}, tick.Rates["eth0"])
}

func TestRate(t *testing.T) {
	for _, d := range []uint64{0, 1, 1024, 1 << 40} {
		for _, secs := range []float64{0.25, 1, 3.5} {
			r := Rate(types.ByteDelta{Sent: d, Recv: d}, time.Duration(secs*float64(time.Second)))
			assert.InDelta(t, float64(d)/secs, r.UploadBps, 1e-6)
			assert.InDelta(t, float64(d)/secs, r.DownloadBps, 1e-6)
		}
	}
	assert.Equal(t, types.RateSample{}, Rate(types.ByteDelta{Sent: 10}, 0))
	assert.Equal(t, types.RateSample{}, Rate(types.ByteDelta{Sent: 10}, -time.Second))
}

func TestClampedDelta(t *testing.T) {
	assert.Equal(t, uint64(300), clampedDelta(500, 200))
	assert.Equal(t, uint64(0), clampedDelta(200, 5000))
	assert.Equal(t, uint64(0), clampedDelta(7, 7))
}
