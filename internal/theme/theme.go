// Package theme provides terminal theming with automatic detection.
// It supports reading colors from Alacritty, Kitty, Foot, and Omarchy
// terminal configurations, with environment variable overrides available.
package theme

import (
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the color scheme for menus and messages
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // secondary info, listings
	Accent   string // mapped names, success
	AccentBg string // selection background
	Error    string // error/warning colors
}

// DefaultPalette returns the fallback amber-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0a0a0a",
		FG:       "#d4a017",
		Muted:    "#6b6b4f",
		Accent:   "#8bc34a",
		AccentBg: "#1a1a14",
		Error:    "#ff6b6b",
	}
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	Title    lipgloss.Style // menu headings
	Prompt   lipgloss.Style // prompt labels
	Input    lipgloss.Style // text being edited
	MenuKey  lipgloss.Style // "1:" menu numbers
	MenuItem lipgloss.Style
	Mapped   lipgloss.Style // "*" marker and mapped destination names
	Path     lipgloss.Style // "src -> dst" lines
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		MenuKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Bold(true),

		MenuItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Mapped: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)),

		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),
	}
}

// NewPlainStyles returns styles that render text unchanged.
func NewPlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Prompt:   plain,
		Input:    plain,
		MenuKey:  plain,
		MenuItem: plain,
		Mapped:   plain,
		Path:     plain,
		Muted:    plain,
		Success:  plain,
		Error:    plain,
	}
}

type active struct {
	palette Palette
	styles  Styles
}

// current is replaced whole by Refresh, which may run on the watcher's goroutine.
var current atomic.Pointer[active]

func init() {
	// Initialize with detected or default theme
	Refresh()
}

// Current returns the active styles
func Current() Styles {
	return current.Load().styles
}

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	return current.Load().palette
}

// Refresh reloads the theme from config files
func Refresh() {
	p := Detect()
	current.Store(&active{palette: p, styles: NewStyles(p)})
}
