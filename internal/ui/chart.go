package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/rivo/tview"
)

var palette = []string{"red", "blue", "green", "yellow", "magenta", "cyan"}

const (
	yLabelWidth   = 9 // "%8.2f" plus a space
	minChartWidth = yLabelWidth + 12
	minChartRows  = 6
)

// chartWidget draws the latest ChartView at whatever size it is given.
type chartWidget struct {
	*tview.Box
	view   types.ChartView
	failed bool
}

func newChartWidget() *chartWidget {
	c := &chartWidget{Box: tview.NewBox()}
	c.SetBorder(true).SetTitle(" Network Traffic Monitor ")
	return c
}

func (c *chartWidget) update(view types.ChartView, failed bool) {
	c.view = view
	c.failed = failed
	title := fmt.Sprintf(" Network Traffic Monitor (%s) ", view.Unit)
	if failed {
		title = fmt.Sprintf(" Network Traffic Monitor (%s) [red]sampling failed[white] ", view.Unit)
	}
	c.SetTitle(title)
}

func (c *chartWidget) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)
	x, y, width, height := c.GetInnerRect()
	for i, line := range renderChart(c.view, width, height) {
		tview.Print(screen, line, x, y+i, width, tview.AlignLeft, tcell.ColorWhite)
	}
}

// renderChart lays the series out on a text grid of width x height cells,
// newest sample at the right edge. Lines carry tview color tags.
func renderChart(view types.ChartView, width, height int) []string {
	if width < minChartWidth || height < minChartRows {
		return []string{"[gray]terminal too small"}
	}

	legend := legendLines(view.Series, width)
	plotRows := height - 2 - len(legend) // x axis + x labels
	if plotRows < 3 {
		legend = nil
		plotRows = height - 2
	}
	plotCols := width - yLabelWidth - 1
	yMax := view.YMax
	if yMax <= 0 {
		yMax = 1
	}

	grid := make([][]string, plotRows+1)
	for r := range grid {
		grid[r] = make([]string, plotCols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for c := range grid[plotRows] {
		grid[plotRows][c] = "─"
	}

	capacity := view.HistoryLength
	for i, s := range view.Series {
		marker := "▼"
		if s.Direction == types.Upload {
			marker = "▲"
		}
		cell := fmt.Sprintf("[%s]%s[white]", palette[i%len(palette)], marker)

		n := len(s.Values)
		slots := max(capacity, n)
		for j, v := range s.Values {
			col := column(j+slots-n, slots, plotCols)
			row := plotRows - 1 - int(math.Round(clamp01(v/yMax)*float64(plotRows-1)))
			grid[row][col] = cell
		}
	}

	lines := make([]string, 0, height)
	for r := 0; r <= plotRows; r++ {
		label := strings.Repeat(" ", yLabelWidth)
		if tick, ok := yTick(r, plotRows); ok {
			label = fmt.Sprintf("%8.2f ", yMax*tick)
		}
		axis := "│"
		if r == plotRows {
			axis = "└"
		}
		lines = append(lines, label+axis+strings.Join(grid[r], ""))
	}
	lines = append(lines, strings.Repeat(" ", yLabelWidth+1)+xLabels(view, plotCols))
	lines = append(lines, legend...)
	return lines
}

// column maps slot i of n onto plotCols cells.
func column(i, n, plotCols int) int {
	if n <= 1 {
		return plotCols - 1
	}
	col := i * (plotCols - 1) / (n - 1)
	return min(max(col, 0), plotCols-1)
}

// yTick returns the fraction of yMax labelled on row r, for five evenly
// spaced rows.
func yTick(r, plotRows int) (float64, bool) {
	if plotRows < 2 {
		return 0, false
	}
	for k := 0; k <= 4; k++ {
		if r == k*(plotRows-1)/4 {
			return float64(4-k) / 4, true
		}
	}
	return 0, false
}

func xLabels(view types.ChartView, plotCols int) string {
	span := time.Duration(view.HistoryLength) * view.Interval
	left := fmt.Sprintf("-%s", shortDuration(span))
	title := fmt.Sprintf("Seconds ago (last %s)", shortDuration(span))
	right := "0s"

	line := []rune(strings.Repeat(" ", plotCols))
	put := func(at int, s string) {
		for i, r := range []rune(s) {
			if at+i >= 0 && at+i < len(line) {
				line[at+i] = r
			}
		}
	}
	put(0, left)
	if runewidth.StringWidth(title)+2*len(left)+2 < plotCols {
		put((plotCols-runewidth.StringWidth(title))/2, title)
	}
	put(plotCols-len(right), right)
	return string(line)
}

func shortDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs == math.Trunc(secs) {
		return fmt.Sprintf("%ds", int64(secs))
	}
	return fmt.Sprintf("%.1fs", secs)
}

// legendLines wraps the series labels to width, measuring plain text only.
func legendLines(series []types.ChartSeries, width int) []string {
	var lines []string
	var cur strings.Builder
	used := 0
	for i, s := range series {
		marker := "▼"
		if s.Direction == types.Upload {
			marker = "▲"
		}
		plain := marker + " " + s.Label
		w := runewidth.StringWidth(plain)
		if used > 0 && used+2+w > width {
			lines = append(lines, cur.String())
			cur.Reset()
			used = 0
		}
		if used > 0 {
			cur.WriteString("  ")
			used += 2
		}
		fmt.Fprintf(&cur, "[%s]%s[white]", palette[i%len(palette)], tview.Escape(plain))
		used += w
	}
	if used > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return min(v, 1)
}
