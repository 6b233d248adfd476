package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the adaptive colors and precomputed styles for tree rows.
// Styles are created once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Selected  lipgloss.Style
	Branch    lipgloss.Style // tree prefix characters
	Indicator lipgloss.Style // expand/collapse marker
	ID        lipgloss.Style
	Title     lipgloss.Style
	MutedText lipgloss.Style
	Header    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Foreground(t.Primary).
		Bold(true)
	t.Branch = r.NewStyle().Foreground(t.Muted)
	t.Indicator = r.NewStyle().Foreground(t.Secondary)
	t.ID = r.NewStyle().Foreground(t.Secondary)
	t.Title = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"})
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true)

	return t
}

// LightTheme forces the light-mode palette by marking the renderer's
// background as light before building the default theme.
func LightTheme(r *lipgloss.Renderer) Theme {
	r.SetHasDarkBackground(false)
	return DefaultTheme(r)
}

// DarkTheme forces the dark-mode palette.
func DarkTheme(r *lipgloss.Renderer) Theme {
	r.SetHasDarkBackground(true)
	return DefaultTheme(r)
}

// ThemeByName resolves a config theme name ("light", "dark", anything
// else = auto-detect).
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	switch name {
	case "light":
		return LightTheme(r)
	case "dark":
		return DarkTheme(r)
	default:
		return DefaultTheme(r)
	}
}
