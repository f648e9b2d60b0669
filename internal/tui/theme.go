package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The grid must remain readable on both light and dark terminal backgrounds,
// so every color is a lipgloss.AdaptiveColor pair.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// eventPalette is the cycling palette for event blocks. Index order matters:
// it is persisted per event and stepped by the color keys.
var eventPalette = []lipgloss.AdaptiveColor{
	ac("27", "33"),   // blue
	ac("28", "35"),   // green
	ac("124", "167"), // red
	ac("166", "214"), // orange
	ac("91", "135"),  // purple
	ac("30", "44"),   // teal
	ac("127", "176"), // magenta
	ac("240", "246"), // gray
}

var (
	colorEventFg    lipgloss.TerminalColor = ac("255", "232")
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorNowMarker  lipgloss.TerminalColor = ac("196", "203")
	colorSelectedFg lipgloss.TerminalColor = ac("232", "255")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeFg)
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleNow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorNowMarker).Bold(true)
}

func styleEvent(colorIdx int, selected bool) lipgloss.Style {
	if colorIdx < 0 || colorIdx >= len(eventPalette) {
		colorIdx = 0
	}
	st := lipgloss.NewStyle().Background(eventPalette[colorIdx]).Foreground(colorEventFg)
	if selected {
		st = st.Bold(true).Underline(true)
	}
	return st
}

// applyColorProfilePreference honors NO_COLOR and DAYPLAN_COLOR=off before
// bubbletea takes over the terminal.
func applyColorProfilePreference() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DAYPLAN_COLOR"))) {
	case "off", "none", "0":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "16":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "256":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "truecolor", "24bit":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
