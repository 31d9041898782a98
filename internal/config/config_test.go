package config

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 60, cfg.History)
	assert.True(t, cfg.ShowStats)
	assert.True(t, cfg.AutoScale)
	assert.False(t, cfg.Dark)
	assert.Equal(t, DefaultRetainMissing, cfg.RetainMissing)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"-i", "0.5",
		"-history", "120",
		"-no-stats",
		"-no-auto-scale",
		"-dark",
		"-retain-missing", "0",
		"-metrics-addr", ":9100",
		"-log-level", "debug",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 120, cfg.History)
	assert.False(t, cfg.ShowStats)
	assert.False(t, cfg.AutoScale)
	assert.True(t, cfg.Dark)
	assert.Equal(t, 0, cfg.RetainMissing)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseStatsFalse(t *testing.T) {
	cfg, err := Parse([]string{"-stats=false", "-auto-scale=false"}, io.Discard)
	require.NoError(t, err)
	assert.False(t, cfg.ShowStats)
	assert.False(t, cfg.AutoScale)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero interval", []string{"-interval", "0"}},
		{"negative interval", []string{"-interval", "-1.5"}},
		{"huge interval", []string{"-interval", "1e10"}},
		{"infinite interval", []string{"-interval", "+Inf"}},
		{"nan interval", []string{"-interval", "NaN"}},
		{"zero history", []string{"-history", "0"}},
		{"negative retention", []string{"-retain-missing", "-1"}},
		{"bad level", []string{"-log-level", "loud"}},
		{"unknown flag", []string{"-bogus"}},
		{"positional", []string{"eth0"}},
		{"zero timeout", []string{"-read-timeout", "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, io.Discard)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestParseHugeIntervalMessage(t *testing.T) {
	_, err := Parse([]string{"-interval", "1e10"}, io.Discard)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "below")
	assert.NotContains(t, err.Error(), "-2562047h")
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.History = -3
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}
