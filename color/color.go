// Package color names the terminal colors tvzap prints with outside the
// full-screen player: CLI output, help and the dependency hint.
package color

import "github.com/charmbracelet/lipgloss"

func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, so the CLI follows the user's terminal theme.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange marks warnings that must not be lost on either a light or dark background.
var Orange = New("#ffb703")
