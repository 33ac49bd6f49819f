package logger

import (
	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

const (
	colorTrace = "#7D7D7D"
	colorDebug = "#00A3E0"
	colorInfo  = "#4A9D4A"
	colorWarn  = "#E5C07B"
	colorError = "#E06C75"
)

// logStyles returns the level labels used on every capnp-import log line.
func logStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	label := func(text, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(text).
			Bold(true).
			Foreground(lipgloss.Color(color))
	}

	styles.Levels[TraceLevel] = label("TRCE", colorTrace)
	styles.Levels[DebugLevel] = label("DEBU", colorDebug)
	styles.Levels[InfoLevel] = label("INFO", colorInfo)
	styles.Levels[WarnLevel] = label("WARN", colorWarn)
	styles.Levels[ErrorLevel] = label("ERRO", colorError)
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	return styles
}
