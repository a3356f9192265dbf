package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color and style codes for CLI output. They are blank when colors are
// disabled, so callers can always interpolate them.
var (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// SetEnabled switches color output on or off.
func SetEnabled(on bool) {
	if on {
		ColorReset, ColorBold, ColorDim = "\033[0m", "\033[1m", "\033[2m"
		ColorCyan, ColorGreen, ColorYellow = "\033[36m", "\033[32m", "\033[33m"
		ColorWhite, ColorRed = "\033[97m", "\033[31m"
		return
	}
	ColorReset, ColorBold, ColorDim = "", "", ""
	ColorCyan, ColorGreen, ColorYellow = "", "", ""
	ColorWhite, ColorRed = "", ""
}

// ShouldColor reports whether f is a terminal and NO_COLOR is unset.
func ShouldColor(f *os.File) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}
