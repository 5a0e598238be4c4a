// Package style holds the player screen's palette and the small render
// helpers shared by the CLI and the TUI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tvzap/tvzap/color"
)

// Player screen palette. The TUI runs on the alt screen, so these are fixed
// hex colors rather than the terminal's ANSI ones.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Lavender = lipgloss.Color("#b4befe")
	Yellow   = lipgloss.Color("#f9e2af")
	HiRed    = lipgloss.Color("#f38ba8")

	AccentColor = lipgloss.Color("#cba6f7")
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer painting its argument in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

// Tag renders a padded block, used for key hints and badges.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }

	Title      = Tag(color.New("230"), color.New("62"))
	ErrorTitle = Tag(color.New("230"), color.Red)
)
