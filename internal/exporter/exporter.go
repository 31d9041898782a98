// Package exporter publishes the latest frame as Prometheus metrics.
package exporter

import (
	"sync/atomic"

	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netchart"

// Exporter is both a monitor renderer and a prometheus.Collector. Render
// swaps in the newest frame; Collect reads whatever frame is current.
type Exporter struct {
	frame atomic.Pointer[types.Frame]

	bytes  *prometheus.Desc
	rate   *prometheus.Desc
	peak   *prometheus.Desc
	up     *prometheus.Desc
	active *prometheus.Desc

	failures     prometheus.Counter
	tickDuration prometheus.Histogram
}

func New() *Exporter {
	return &Exporter{
		bytes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "bytes_total"),
			"Bytes transferred per interface and direction since the monitor started",
			[]string{"interface", "direction"},
			nil,
		),
		rate: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "rate_bytes"),
			"Current throughput in bytes per second",
			[]string{"interface", "direction"},
			nil,
		),
		peak: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "peak_rate_bytes"),
			"Highest throughput observed this session in bytes per second",
			[]string{"interface", "direction"},
			nil,
		),
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "up"),
			"Whether the interface link was up at the last successful read",
			[]string{"interface"},
			nil,
		),
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "active_interfaces"),
			"Number of interfaces up at the last successful read",
			nil,
			nil,
		),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_failures_total",
			Help:      "Ticks whose counter read failed",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent sampling and aggregating per tick",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (e *Exporter) Render(frame types.Frame) error {
	e.frame.Store(&frame)
	if frame.SampleFailed {
		e.failures.Inc()
	}
	e.tickDuration.Observe(frame.Duration.Seconds())
	return nil
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.bytes
	ch <- e.rate
	ch <- e.peak
	ch <- e.up
	ch <- e.active
	e.failures.Describe(ch)
	e.tickDuration.Describe(ch)
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.failures.Collect(ch)
	e.tickDuration.Collect(ch)

	frame := e.frame.Load()
	if frame == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(e.active, prometheus.GaugeValue, float64(frame.Panel.Session.ActiveInterfaceCount))

	tx, rx := string(types.Upload), string(types.Download)
	for _, st := range frame.Panel.Stats {
		ch <- prometheus.MustNewConstMetric(e.bytes, prometheus.CounterValue, float64(st.TotalSent), st.Name, tx)
		ch <- prometheus.MustNewConstMetric(e.bytes, prometheus.CounterValue, float64(st.TotalRecv), st.Name, rx)
		ch <- prometheus.MustNewConstMetric(e.rate, prometheus.GaugeValue, st.CurrentUploadBps, st.Name, tx)
		ch <- prometheus.MustNewConstMetric(e.rate, prometheus.GaugeValue, st.CurrentDownloadBps, st.Name, rx)
		ch <- prometheus.MustNewConstMetric(e.peak, prometheus.GaugeValue, st.PeakUploadBps, st.Name, tx)
		ch <- prometheus.MustNewConstMetric(e.peak, prometheus.GaugeValue, st.PeakDownloadBps, st.Name, rx)

		up := 0.0
		if st.Up {
			up = 1
		}
		ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, up, st.Name)
	}
}
