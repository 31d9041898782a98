package types

import "time"

// Direction of traffic on an interface.
type Direction string

const (
	Upload   Direction = "tx"
	Download Direction = "rx"
)

// Frame is everything a renderer needs to draw one tick. Renderers must treat
// it as read-only.
type Frame struct {
	Tick  uint64
	Chart ChartView
	Panel StatsPanel
	// SampleFailed is set when the counter read behind this frame failed.
	SampleFailed bool
	// Duration is the time spent sampling and aggregating, before rendering.
	Duration time.Duration
}

// ChartView holds every series on one shared unit.
type ChartView struct {
	Unit          string
	Factor        float64
	YMax          float64
	HistoryLength int
	Interval      time.Duration
	Series        []ChartSeries
}

type ChartSeries struct {
	Interface string
	Direction Direction
	Label     string
	Values    []float64
}

// StatsPanel carries pre-formatted labels alongside the raw numbers they were
// derived from.
type StatsPanel struct {
	Visible bool

	TotalSent       string
	TotalRecv       string
	PeakUpload      string
	PeakDownload    string
	CurrentUpload   string
	CurrentDownload string
	Duration        string
	Interfaces      []InterfaceLine

	Session SessionStats
	Summary Summary
	Stats   []InterfaceStats
}

type InterfaceLine struct {
	Name     string
	Up       bool
	Upload   string
	Download string
}
