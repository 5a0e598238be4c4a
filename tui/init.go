package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and pulls whatever the session rendered before the program was running.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, func() tea.Msg {
		return snapshotMsg{}
	})
}
