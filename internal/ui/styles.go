package ui

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cwarden/zcal/internal/calendar"
)

type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Weekday  lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Weekend  lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Event    lipgloss.Style
	More     lipgloss.Style
	Cursor   lipgloss.Style
	Badge    lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Error    lipgloss.Style
	Border   lipgloss.Style
	Focused  lipgloss.Style
}

// themePalette holds the colors a theme is built from.
type themePalette struct {
	fg, muted, accent, accentFg, highlight, event, border, message, messageFg string
}

var themePalettes = map[calendar.Theme]themePalette{
	calendar.ThemeMinimal: {
		fg:        "252",
		muted:     "240",
		accent:    "255",
		accentFg:  "235",
		highlight: "255",
		event:     "250",
		border:    "238",
		message:   "236",
		messageFg: "255",
	},
	calendar.ThemePastel: {
		fg:        "#F5E8FF",
		muted:     "#9E8FB2",
		accent:    "#F9A8D4",
		accentFg:  "#3B0764",
		highlight: "#C4B5FD",
		event:     "#93C5FD",
		border:    "#D8B4FE",
		message:   "#FCE7F3",
		messageFg: "#581C87",
	},
	calendar.ThemeGradient: {
		fg:        "#FFFFFF",
		muted:     "#8B7FA8",
		accent:    "#EC4899",
		accentFg:  "#FFFFFF",
		highlight: "#A78BFA",
		event:     "#F0ABFC",
		border:    "#8B5CF6",
		message:   "#8B5CF6",
		messageFg: "#FFFFFF",
	},
	calendar.ThemeDark: {
		fg:        "#E5E7EB",
		muted:     "#4B5563",
		accent:    "#60A5FA",
		accentFg:  "#111827",
		highlight: "#FBBF24",
		event:     "#9CA3AF",
		border:    "#374151",
		message:   "#1F2937",
		messageFg: "#F9FAFB",
	},
}

// StylesFor builds the styles for theme. Unknown themes get the default.
func StylesFor(theme calendar.Theme) Styles {
	p, ok := themePalettes[theme]
	if !ok {
		p = themePalettes[calendar.DefaultTheme]
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.highlight)).
			Bold(true).
			Underline(true),
		Weekday: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Bold(true),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Weekend: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.highlight)),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Bold(true).
			Underline(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accentFg)).
			Background(lipgloss.Color(p.accent)).
			Bold(true),
		Event: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.event)),
		More: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accentFg)).
			Background(lipgloss.Color(p.highlight)),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accentFg)).
			Background(lipgloss.Color(p.accent)).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.messageFg)).
			Background(lipgloss.Color(p.message)).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Bold(true),
	}
}

func DefaultStyles() Styles {
	return StylesFor(calendar.DefaultTheme)
}
