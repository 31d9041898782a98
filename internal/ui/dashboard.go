package ui

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/nozo-moto/netchart/internal/logging"
	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/rivo/tview"
)

type Options struct {
	ShowStats bool
	Dark      bool
	Logger    *slog.Logger
}

// Dashboard draws frames with tview: the chart on the left three quarters,
// the statistics panel on the right.
type Dashboard struct {
	app       *tview.Application
	layout    *tview.Flex
	chart     *chartWidget
	statsView *tview.TextView

	showStats bool
	running   atomic.Bool
	logger    *slog.Logger
}

func NewDashboard(opts Options) *Dashboard {
	applyTheme(opts.Dark)

	d := &Dashboard{
		app:       tview.NewApplication(),
		showStats: opts.ShowStats,
		logger:    logging.Component(opts.Logger, "ui"),
	}
	d.setupUI()
	return d
}

func applyTheme(dark bool) {
	if dark {
		tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
		tview.Styles.ContrastBackgroundColor = tcell.ColorDarkSlateGray
		tview.Styles.BorderColor = tcell.ColorGray
		tview.Styles.TitleColor = tcell.ColorLightCyan
		tview.Styles.PrimaryTextColor = tcell.ColorWhite
		return
	}
	tview.Styles.PrimitiveBackgroundColor = tcell.ColorDefault
	tview.Styles.BorderColor = tcell.ColorWhite
	tview.Styles.TitleColor = tcell.ColorWhite
	tview.Styles.PrimaryTextColor = tcell.ColorDefault
}

func (d *Dashboard) setupUI() {
	d.chart = newChartWidget()

	d.statsView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	d.statsView.SetBorder(true).
		SetTitle(" Network Summary ")
	d.statsView.SetText("[gray]Collecting traffic data...")

	d.layout = tview.NewFlex().
		AddItem(d.chart, 0, 3, false)
	if d.showStats {
		d.layout.AddItem(d.statsView, 0, 1, false)
	}

	d.app.SetRoot(d.layout, true).
		SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() {
			case tcell.KeyEsc:
				d.app.Stop()
				return nil
			case tcell.KeyRune:
				switch event.Rune() {
				case 'q', 'Q':
					d.app.Stop()
					return nil
				}
			}
			return event
		})
}

func (d *Dashboard) setStatsVisible(visible bool) {
	if visible == d.showStats {
		return
	}
	d.showStats = visible
	if visible {
		d.layout.AddItem(d.statsView, 0, 1, false)
	} else {
		d.layout.RemoveItem(d.statsView)
	}
}

// Run owns the terminal until the user quits or ctx is cancelled. The
// terminal is restored before it returns.
func (d *Dashboard) Run(ctx context.Context) error {
	d.running.Store(true)
	defer d.running.Store(false)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-stop:
		}
	}()

	d.logger.Info("dashboard started")
	return d.app.Run()
}

// Stop is queued onto the event loop so it also lands when the loop has not
// started yet.
func (d *Dashboard) Stop() {
	if d.running.Load() {
		d.app.QueueUpdate(d.app.Stop)
	}
}

// Render hands the frame to the UI goroutine. Frames arriving while the
// application is not running are dropped.
func (d *Dashboard) Render(frame types.Frame) error {
	if !d.running.Load() {
		return nil
	}
	d.app.QueueUpdateDraw(func() {
		d.apply(frame)
	})
	return nil
}

func (d *Dashboard) apply(frame types.Frame) {
	d.setStatsVisible(frame.Panel.Visible)
	d.chart.update(frame.Chart, frame.SampleFailed)
	_, _, width, _ := d.statsView.GetInnerRect()
	d.statsView.SetText(renderPanel(frame.Panel, width))
}
