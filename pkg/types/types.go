package types

import "time"

// InterfaceSnapshot is one interface's cumulative counters at a point in time.
type InterfaceSnapshot struct {
	Name      string
	BytesSent uint64
	BytesRecv uint64
	Up        bool
	Timestamp time.Time
}

// Snapshot is the result of one counter read across all interfaces.
type Snapshot struct {
	Timestamp  time.Time
	Interfaces map[string]InterfaceSnapshot
}

// RateSample is an instantaneous throughput in bytes per second.
type RateSample struct {
	UploadBps   float64
	DownloadBps float64
}

// ByteDelta holds the clamped counter differences between two snapshots.
type ByteDelta struct {
	Sent uint64
	Recv uint64
}

// Tick is the sampler output for one loop iteration.
type Tick struct {
	Snapshot Snapshot
	Rates    map[string]RateSample
	Deltas   map[string]ByteDelta
	Err      error
}

// OK reports whether the counter read behind the tick succeeded.
func (t Tick) OK() bool {
	return t.Err == nil
}

type InterfaceStats struct {
	Name               string
	TotalSent          uint64
	TotalRecv          uint64
	PeakUploadBps      float64
	PeakDownloadBps    float64
	CurrentUploadBps   float64
	CurrentDownloadBps float64
	Up                 bool
}

type SessionStats struct {
	StartTime            time.Time
	Started              bool
	ActiveInterfaceCount uint32
}

// Summary combines all interfaces into the numbers shown at the top of the
// statistics panel.
type Summary struct {
	TotalSent          uint64
	TotalRecv          uint64
	CurrentUploadBps   float64
	CurrentDownloadBps float64
	PeakUploadBps      float64
	PeakDownloadBps    float64
	Elapsed            time.Duration
}

// Kind selects the unit ladder used for scaling.
type Kind int

const (
	KindRate Kind = iota
	KindCumulative
)

func (k Kind) String() string {
	switch k {
	case KindRate:
		return "rate"
	case KindCumulative:
		return "cumulative"
	default:
		return "unknown"
	}
}

type ScaledSeries struct {
	Unit   string
	Factor float64
	Values []float64
}
