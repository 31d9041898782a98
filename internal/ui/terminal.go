package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

var ErrNotTerminal = errors.New("stdout is not a terminal")

// CheckTerminal verifies the dashboard can be drawn on fd before the tick
// loop starts.
func CheckTerminal(fd int) error {
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	width, height, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}
	if err := checkSize(width, height); err != nil {
		return err
	}
	return checkLocale(os.Getenv)
}

func checkSize(width, height int) error {
	if width < MinTerminalWidth || height < MinTerminalHeight {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d",
			width, height, MinTerminalWidth, MinTerminalHeight)
	}
	return nil
}

// checkLocale rejects a declared non-UTF-8 locale; the chart and panel use
// box drawing and arrow glyphs. Unset, C and POSIX locales are accepted.
func checkLocale(getenv func(string) string) error {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return nil
		}
		if v == "C" || v == "POSIX" {
			return nil
		}
		return fmt.Errorf("%s=%s is not a UTF-8 locale", key, v)
	}
	return nil
}
