package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/maildash/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CardStyle wraps a per-account sync card or a stat card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedCardStyle highlights the focused card.
var SelectedCardStyle = CardStyle.
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline error text.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// SubtleStyle renders secondary detail text.
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ToastTitleStyle renders a notification title.
var ToastTitleStyle = lipgloss.NewStyle().Bold(true)

// StateColor returns the accent color for a sync state. The mapping
// is total over all five states; unknown input falls back to the
// idle color.
func StateColor(state model.SyncState) lipgloss.AdaptiveColor {
	switch state {
	case model.StateRunning:
		return ColorBlue
	case model.StatePaused:
		return ColorYellow
	case model.StateCompleted:
		return ColorGreen
	case model.StateError:
		return ColorRed
	default:
		return ColorGray
	}
}

// StateIcon returns the glyph shown next to a sync state.
func StateIcon(state model.SyncState) string {
	switch state {
	case model.StateRunning:
		return "↻"
	case model.StatePaused:
		return "⏸"
	case model.StateCompleted:
		return "✓"
	case model.StateError:
		return "!"
	default:
		return "·"
	}
}

// StateBadge renders a color-coded state label.
func StateBadge(state model.SyncState) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(StateColor(state)).
		Render(StateIcon(state) + " " + string(state))
}
