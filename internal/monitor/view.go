package monitor

import (
	"fmt"
	"time"

	"github.com/nozo-moto/netchart/internal/history"
	"github.com/nozo-moto/netchart/internal/units"
	"github.com/nozo-moto/netchart/pkg/types"
)

// yHeadroom leaves space above the highest point of the chart.
const yHeadroom = 1.1

// buildChart scales every interface's upload and download history with one
// shared unit.
func buildChart(store *history.Store, scaler units.Scaler, interval time.Duration) types.ChartView {
	type raw struct {
		iface string
		dir   types.Direction
		vals  []float64
	}

	var series []raw
	var all []float64
	for _, name := range store.Names() {
		up, down, _ := store.Series(name)
		series = append(series,
			raw{name, types.Upload, up},
			raw{name, types.Download, down},
		)
		all = append(all, up...)
		all = append(all, down...)
	}

	scaled := scaler.Scale(all, types.KindRate)
	view := types.ChartView{
		Unit:          scaled.Unit,
		Factor:        scaled.Factor,
		HistoryLength: store.Capacity(),
		Interval:      interval,
		Series:        make([]types.ChartSeries, 0, len(series)),
	}

	off := 0
	for _, s := range series {
		vals := make([]float64, len(s.vals))
		copy(vals, scaled.Values[off:off+len(s.vals)])
		off += len(s.vals)
		for _, v := range vals {
			view.YMax = max(view.YMax, v)
		}
		view.Series = append(view.Series, types.ChartSeries{
			Interface: s.iface,
			Direction: s.dir,
			Label:     seriesLabel(s.iface, s.dir),
			Values:    vals,
		})
	}

	view.YMax *= yHeadroom
	if view.YMax == 0 {
		view.YMax = 1
	}
	return view
}

func seriesLabel(iface string, dir types.Direction) string {
	if dir == types.Upload {
		return iface + " (TX)"
	}
	return iface + " (RX)"
}

// buildPanel formats the statistics panel. Values on the same row share a unit.
func buildPanel(visible bool, session types.SessionStats, summary types.Summary, ifaces []types.InterfaceStats, scaler units.Scaler) types.StatsPanel {
	totals := scaler.FormatGroup([]float64{float64(summary.TotalSent), float64(summary.TotalRecv)}, types.KindCumulative)
	peaks := scaler.FormatGroup([]float64{summary.PeakUploadBps, summary.PeakDownloadBps}, types.KindRate)
	current := scaler.FormatGroup([]float64{summary.CurrentUploadBps, summary.CurrentDownloadBps}, types.KindRate)

	panel := types.StatsPanel{
		Visible:         visible,
		TotalSent:       totals[0],
		TotalRecv:       totals[1],
		PeakUpload:      peaks[0],
		PeakDownload:    peaks[1],
		CurrentUpload:   current[0],
		CurrentDownload: current[1],
		Duration:        FormatDuration(summary.Elapsed),
		Interfaces:      make([]types.InterfaceLine, 0, len(ifaces)),
		Session:         session,
		Summary:         summary,
		Stats:           ifaces,
	}
	for _, st := range ifaces {
		rates := scaler.FormatGroup([]float64{st.CurrentUploadBps, st.CurrentDownloadBps}, types.KindRate)
		panel.Interfaces = append(panel.Interfaces, types.InterfaceLine{
			Name:     st.Name,
			Up:       st.Up,
			Upload:   rates[0],
			Download: rates[1],
		})
	}
	return panel
}

// FormatDuration renders d as HH:MM:SS; hours grow past two digits.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
