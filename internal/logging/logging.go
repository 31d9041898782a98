// Package logging builds the process logger.
//
// The dashboard owns the terminal while it runs, so logs are written to a file
// or dropped entirely.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Options struct {
	// Path of the log file. Empty discards all records.
	Path  string
	Level slog.Level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a text logger and the closer for its destination.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return Discard(), nopCloser{}, nil
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewWriter(f, opts.Level), f, nil
}

func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Component tags a logger with the emitting component.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", name)
}
