package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/rivo/tview"
)

// renderPanel formats the statistics panel for a pane of the given inner width.
func renderPanel(p types.StatsPanel, width int) string {
	if len(p.Interfaces) == 0 {
		return "[gray]No interfaces"
	}

	var b strings.Builder
	section := func(title string) {
		fmt.Fprintf(&b, "[yellow]%s[white]\n", title)
	}

	section(" Total Transferred:")
	fmt.Fprintf(&b, "   [red]↑[white] %s\n", p.TotalSent)
	fmt.Fprintf(&b, "   [green]↓[white] %s\n\n", p.TotalRecv)

	section(" Peak Throughput:")
	fmt.Fprintf(&b, "   [red]↑[white] %s\n", p.PeakUpload)
	fmt.Fprintf(&b, "   [green]↓[white] %s\n\n", p.PeakDownload)

	section(" Current Throughput:")
	fmt.Fprintf(&b, "   [red]↑[white] %s\n", p.CurrentUpload)
	fmt.Fprintf(&b, "   [green]↓[white] %s\n\n", p.CurrentDownload)

	section(" Interface Details:")
	for _, line := range p.Interfaces {
		status := "[red]●[white]"
		if line.Up {
			status = "[green]●[white]"
		}
		name := runewidth.Truncate(line.Name, max(width-5, 4), "…")
		fmt.Fprintf(&b, "\n %s %s:\n", status, tview.Escape(name))
		fmt.Fprintf(&b, "   Current: ↑%s\n", line.Upload)
		fmt.Fprintf(&b, "            ↓%s\n", line.Download)
	}
	b.WriteString("\n")

	section(" Active Interfaces:")
	fmt.Fprintf(&b, "   %d\n\n", p.Session.ActiveInterfaceCount)

	section(" Monitor Duration:")
	fmt.Fprintf(&b, "   %s", p.Duration)
	return b.String()
}
