// Package term provides color state and terminal detection.
//
// Styles are package-level variables because multiple packages (logging,
// display) need them for output formatting. [Configure] sets the lipgloss
// color profile once during startup; when colors are disabled every style
// renders plain text.
package term

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/backmassage/dsprep/internal/config"
)

// Level and accent styles. Bold bright colors, matching the log palette.
var (
	Red     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	Green   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	Yellow  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	Blue    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	Cyan    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	Magenta = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

var enabled bool

// Configure resolves the color mode and sets the lipgloss color profile.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)
	if enabled {
		profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
		if profile == termenv.Ascii {
			// --color on a pipe: termenv sees no TTY, so pick a sane default.
			profile = termenv.ANSI256
		}
		lipgloss.SetColorProfile(profile)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return enabled }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
