package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tvzap/tvzap/session"
)

// snapshotMsg tells the program a newer snapshot is waiting in the Shell.
type snapshotMsg struct{}

// Shell receives snapshots on the session's control loop and forwards them to
// a running program. Only the latest snapshot is kept; intermediate frames
// are dropped when the terminal is slower than the loop.
type Shell struct {
	mu      sync.Mutex
	latest  session.Snapshot
	program *tea.Program
}

// Render implements session.Shell. It never blocks.
func (s *Shell) Render(snap session.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	program := s.program
	s.mu.Unlock()

	if program != nil {
		// Send blocks until the program reads the message or its context ends.
		go program.Send(snapshotMsg{})
	}
}

// Latest returns the most recent snapshot.
func (s *Shell) Latest() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

func (s *Shell) attach(program *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = program
}
