package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nozo-moto/netchart/internal/collector"
	"github.com/nozo-moto/netchart/internal/config"
	"github.com/nozo-moto/netchart/internal/exporter"
	"github.com/nozo-moto/netchart/internal/logging"
	"github.com/nozo-moto/netchart/internal/monitor"
	"github.com/nozo-moto/netchart/internal/ui"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "netchart: %v\n", err)
		return exitConfig
	}

	logger, logCloser, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(stderr, "netchart: %v\n", err)
		return exitFailure
	}

	if err := start(cfg, logger); err != nil {
		logger.Error("netchart failed", "error", err)
		err = multierr.Append(err, logCloser.Close())
		fmt.Fprintf(stderr, "netchart: %v\n", err)
		return exitFailure
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(stderr, "netchart: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func start(cfg config.Config, logger *slog.Logger) error {
	if err := ui.CheckTerminal(int(os.Stdout.Fd())); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := collector.NewNetworkCollector(
		collector.WithLoopback(cfg.IncludeLoopback),
		collector.WithLogger(logger),
	)
	if _, err := collector.ReadWithTimeout(ctx, reader, cfg.ReadTimeout); err != nil {
		if !errors.Is(err, collector.ErrNoInterfaces) {
			return fmt.Errorf("counter reader unavailable: %w", err)
		}
		logger.Warn("no interfaces at startup", "error", err)
	}

	dashboard := ui.NewDashboard(ui.Options{
		ShowStats: cfg.ShowStats,
		Dark:      cfg.Dark,
		Logger:    logger,
	})
	renderers := monitor.Renderers{dashboard}

	var server *exporter.Server
	if cfg.MetricsAddr != "" {
		exp := exporter.New()
		srv, err := exporter.Listen(cfg.MetricsAddr, exp, logger)
		if err != nil {
			return err
		}
		server = srv
		renderers = append(renderers, exp)
	}

	mon := monitor.New(
		collector.NewSampler(reader, cfg.ReadTimeout, logger),
		renderers,
		monitor.Options{
			Interval:      cfg.Interval,
			History:       cfg.History,
			ShowStats:     cfg.ShowStats,
			AutoScale:     cfg.AutoScale,
			RetainMissing: cfg.RetainMissing,
			Logger:        logger,
		},
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// quitting from the keyboard ends everything else
		defer cancel()
		return dashboard.Run(gctx)
	})
	g.Go(func() error {
		return mon.Run(gctx)
	})
	if server != nil {
		g.Go(func() error {
			return server.Serve(gctx)
		})
	}

	err := g.Wait()
	logger.Info("netchart stopped", "state", mon.State())
	return err
}
