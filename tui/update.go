package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tvzap/tvzap/internal/ui"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/session"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case snapshotMsg:
		return b, b.handleSnapshot(b.shell.Latest())
	case tea.KeyMsg:
		return b, b.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			b.remote.OnTouch()
		}
		return b, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case ui.NotificationMsg, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)
	}

	return b, nil
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.forceQuit):
		return tea.Quit
	case key.Matches(msg, b.keymap.quit) && b.state != listState:
		return tea.Quit
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return nil
	case key.Matches(msg, b.keymap.touch):
		b.remote.OnTouch()
		return nil
	}

	if k, ok := b.keymap.translate(msg); ok {
		log.Tracef("key %q -> %s", msg.String(), k)
		b.remote.OnKey(k)
	}

	return nil
}

func (b *statefulBubble) handleSnapshot(snap session.Snapshot) tea.Cmd {
	prev := b.snap
	b.snap = snap
	b.setState(stateOf(snap))

	if snap.Closed {
		return tea.Quit
	}

	var cmds []tea.Cmd

	if snap.Catalog != b.catalog || snap.Position != b.playing {
		b.catalog = snap.Catalog
		b.playing = snap.Position
		cmds = append(cmds, b.listC.SetItems(channelItems(snap.Catalog, snap.Position)))
	}

	if snap.ChannelListOpen {
		b.listC.Select(snap.ListFocus)
	}

	if snap.Notice != prev.Notice {
		if snap.Notice != "" {
			cmds = append(cmds, ui.Notify(snap.Notice))
		} else {
			b.notifier.Reset()
		}
	}

	return tea.Batch(cmds...)
}
