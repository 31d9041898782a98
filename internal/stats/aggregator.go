// Package stats accumulates session totals, peaks and link state from the
// sampler's ticks.
package stats

import (
	"sort"
	"time"

	"github.com/nozo-moto/netchart/pkg/types"
)

// Aggregator owns the per-interface running statistics. It is driven by the
// tick loop only.
type Aggregator struct {
	session types.SessionStats
	ifaces  map[string]*types.InterfaceStats

	// watermarks of the combined (all-interface) rates
	peakUpload   float64
	peakDownload float64
}

func New() *Aggregator {
	return &Aggregator{ifaces: make(map[string]*types.InterfaceStats)}
}

// Update folds one tick into the running statistics and returns copies of
// the session and per-interface state.
func (a *Aggregator) Update(tick types.Tick) (types.SessionStats, map[string]types.InterfaceStats) {
	if !tick.OK() {
		// link state is unknown for this tick; keep it, zero the rates
		for _, st := range a.ifaces {
			st.CurrentUploadBps = 0
			st.CurrentDownloadBps = 0
		}
		return a.session, a.copyStats()
	}

	if !a.session.Started && !tick.Snapshot.Timestamp.IsZero() {
		a.session.Started = true
		a.session.StartTime = tick.Snapshot.Timestamp
	}

	for name, st := range a.ifaces {
		if _, ok := tick.Snapshot.Interfaces[name]; !ok {
			st.Up = false
			st.CurrentUploadBps = 0
			st.CurrentDownloadBps = 0
		}
	}

	var active uint32
	for name, snap := range tick.Snapshot.Interfaces {
		st, ok := a.ifaces[name]
		if !ok {
			st = &types.InterfaceStats{Name: name}
			a.ifaces[name] = st
		}

		delta := tick.Deltas[name]
		st.TotalSent = addSaturating(st.TotalSent, delta.Sent)
		st.TotalRecv = addSaturating(st.TotalRecv, delta.Recv)

		rate := tick.Rates[name]
		st.CurrentUploadBps = rate.UploadBps
		st.CurrentDownloadBps = rate.DownloadBps
		st.PeakUploadBps = max(st.PeakUploadBps, rate.UploadBps)
		st.PeakDownloadBps = max(st.PeakDownloadBps, rate.DownloadBps)

		st.Up = snap.Up
		if snap.Up {
			active++
		}
	}
	a.session.ActiveInterfaceCount = active

	var up, down float64
	for _, st := range a.ifaces {
		up += st.CurrentUploadBps
		down += st.CurrentDownloadBps
	}
	a.peakUpload = max(a.peakUpload, up)
	a.peakDownload = max(a.peakDownload, down)

	return a.session, a.copyStats()
}

// Summary combines every tracked interface. Elapsed is measured against now.
func (a *Aggregator) Summary(now time.Time) types.Summary {
	var sum types.Summary
	for _, st := range a.ifaces {
		sum.TotalSent = addSaturating(sum.TotalSent, st.TotalSent)
		sum.TotalRecv = addSaturating(sum.TotalRecv, st.TotalRecv)
		sum.CurrentUploadBps += st.CurrentUploadBps
		sum.CurrentDownloadBps += st.CurrentDownloadBps
	}
	sum.PeakUploadBps = a.peakUpload
	sum.PeakDownloadBps = a.peakDownload
	if a.session.Started && now.After(a.session.StartTime) {
		sum.Elapsed = now.Sub(a.session.StartTime)
	}
	return sum
}

// Interfaces returns the per-interface stats sorted by name.
func (a *Aggregator) Interfaces() []types.InterfaceStats {
	out := make([]types.InterfaceStats, 0, len(a.ifaces))
	for _, st := range a.ifaces {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Drop forgets an interface entirely.
func (a *Aggregator) Drop(name string) {
	delete(a.ifaces, name)
}

func (a *Aggregator) copyStats() map[string]types.InterfaceStats {
	out := make(map[string]types.InterfaceStats, len(a.ifaces))
	for name, st := range a.ifaces {
		out[name] = *st
	}
	return out
}

// addSaturating never wraps; a uint64 of bytes is ~16 EiB.
func addSaturating(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}
