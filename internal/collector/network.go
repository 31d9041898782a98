package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nozo-moto/netchart/internal/logging"
	"github.com/nozo-moto/netchart/pkg/types"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoInterfaces is returned when the OS reports no usable interfaces.
var ErrNoInterfaces = errors.New("no network interfaces")

// CounterReader returns cumulative byte counters and link state for every
// interface the OS currently knows about.
type CounterReader interface {
	Read(ctx context.Context) (types.Snapshot, error)
}

// NetworkCollector reads interface counters through gopsutil.
type NetworkCollector struct {
	clock           clock.Clock
	includeLoopback bool
	logger          *slog.Logger

	// swapped out in tests
	ioCounters func(ctx context.Context, pernic bool) ([]psnet.IOCountersStat, error)
	interfaces func(ctx context.Context) (psnet.InterfaceStatList, error)
}

type Option func(*NetworkCollector)

func WithClock(c clock.Clock) Option {
	return func(nc *NetworkCollector) { nc.clock = c }
}

func WithLoopback(include bool) Option {
	return func(nc *NetworkCollector) { nc.includeLoopback = include }
}

func WithLogger(l *slog.Logger) Option {
	return func(nc *NetworkCollector) { nc.logger = logging.Component(l, "collector") }
}

func NewNetworkCollector(opts ...Option) *NetworkCollector {
	nc := &NetworkCollector{
		clock:      clock.New(),
		logger:     logging.Discard(),
		ioCounters: psnet.IOCountersWithContext,
		interfaces: psnet.InterfacesWithContext,
	}
	for _, opt := range opts {
		opt(nc)
	}
	return nc
}

func (nc *NetworkCollector) Read(ctx context.Context) (types.Snapshot, error) {
	counters, err := nc.ioCounters(ctx, true)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to get network counters: %w", err)
	}

	loopback := map[string]bool{}
	up := map[string]bool{}
	ifaces, err := nc.interfaces(ctx)
	if err != nil {
		// counters are still usable; link state reads as down
		nc.logger.Warn("failed to get interface flags", "error", err)
	}
	for _, iface := range ifaces {
		for _, flag := range iface.Flags {
			switch flag {
			case "up":
				up[iface.Name] = true
			case "loopback":
				loopback[iface.Name] = true
			}
		}
	}

	now := nc.clock.Now()
	snap := types.Snapshot{
		Timestamp:  now,
		Interfaces: make(map[string]types.InterfaceSnapshot, len(counters)),
	}
	for _, counter := range counters {
		if !nc.includeLoopback && (isLoopbackName(counter.Name) || loopback[counter.Name]) {
			continue
		}
		snap.Interfaces[counter.Name] = types.InterfaceSnapshot{
			Name:      counter.Name,
			BytesSent: counter.BytesSent,
			BytesRecv: counter.BytesRecv,
			Up:        up[counter.Name],
			Timestamp: now,
		}
	}

	if len(snap.Interfaces) == 0 {
		return snap, ErrNoInterfaces
	}
	return snap, nil
}

func isLoopbackName(name string) bool {
	return name == "lo" || name == "lo0"
}

// ReadWithTimeout bounds a single read. The reader keeps running in the
// background if it ignores ctx, but the caller is released at the deadline.
func ReadWithTimeout(ctx context.Context, r CounterReader, timeout time.Duration) (types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		snap types.Snapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		snap, err := r.Read(ctx)
		ch <- result{snap, err}
	}()

	select {
	case res := <-ch:
		return res.snap, res.err
	case <-ctx.Done():
		return types.Snapshot{}, fmt.Errorf("counter read timed out after %s: %w", timeout, ctx.Err())
	}
}
