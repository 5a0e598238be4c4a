package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tvzap/tvzap/color"
	"github.com/tvzap/tvzap/session"
	"github.com/tvzap/tvzap/style"
)

// remoteBinding maps terminal keys onto one remote-control key.
type remoteBinding struct {
	binding key.Binding
	remote  session.Key
}

// statefulKeymap translates keyboard input into remote-control keys and
// describes the keys that matter on the current screen.
type statefulKeymap struct {
	state state

	quit, forceQuit, touch, showHelp key.Binding

	up, down, left, right, ok, back,
	playPause, channelUp, channelDown,
	fastForward, rewind, list, menu,
	red, green, yellow, blue,
	digits key.Binding

	remote []remoteBinding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	k := &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		touch: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tap screen"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "channel list"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "close list"),
		),
		ok: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("ok")),
		),
		back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space", "p"),
			key.WithHelp("space", "pause/resume"),
		),
		channelUp: key.NewBinding(
			key.WithKeys("pgup", "+", "n"),
			key.WithHelp("+", "next channel"),
		),
		channelDown: key.NewBinding(
			key.WithKeys("pgdown", "-", "N"),
			key.WithHelp("-", "prev channel"),
		),
		fastForward: key.NewBinding(
			key.WithKeys("f", ">"),
			key.WithHelp("f", "forward"),
		),
		rewind: key.NewBinding(
			key.WithKeys("r", "<"),
			key.WithHelp("r", "rewind"),
		),
		list: key.NewBinding(
			key.WithKeys("tab", "L"),
			key.WithHelp("tab", "toggle list"),
		),
		menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "channel info"),
		),
		red: key.NewBinding(
			key.WithKeys("f1", "R"),
			key.WithHelp("F1", style.Fg(color.Red)("favourite")),
		),
		green: key.NewBinding(
			key.WithKeys("f2", "G"),
			key.WithHelp("F2", style.Fg(color.Green)("guide")),
		),
		yellow: key.NewBinding(
			key.WithKeys("f3", "Y"),
			key.WithHelp("F3", style.Fg(color.Yellow)("audio")),
		),
		blue: key.NewBinding(
			key.WithKeys("f4", "B"),
			key.WithHelp("F4", style.Fg(color.Blue)("info")),
		),
		digits: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "tune"),
		),
	}

	k.remote = []remoteBinding{
		{k.up, session.KeyUp},
		{k.down, session.KeyDown},
		{k.left, session.KeyLeft},
		{k.right, session.KeyRight},
		{k.ok, session.KeyOK},
		{k.back, session.KeyBack},
		{k.playPause, session.KeyPlayPause},
		{k.channelUp, session.KeyChannelUp},
		{k.channelDown, session.KeyChannelDown},
		{k.fastForward, session.KeyFastForward},
		{k.rewind, session.KeyRewind},
		{k.list, session.KeyListToggle},
		{k.menu, session.KeyMenu},
		{k.red, session.KeyRed},
		{k.green, session.KeyGreen},
		{k.yellow, session.KeyYellow},
		{k.blue, session.KeyBlue},
	}

	return k
}

// translate maps a key press onto the remote. Digits map onto themselves.
func (k *statefulKeymap) translate(msg tea.KeyMsg) (session.Key, bool) {
	if key.Matches(msg, k.digits) {
		s := msg.String()
		return session.DigitKey(int(s[0] - '0')), true
	}

	for _, r := range k.remote {
		if key.Matches(msg, r.binding) {
			return r.remote, true
		}
	}

	return 0, false
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case watchState:
		return h(k.playPause, k.channelUp, k.channelDown, k.left, k.digits, k.showHelp),
			h(k.ok, k.playPause, k.channelUp, k.channelDown, k.fastForward, k.rewind, k.list, k.digits,
				k.menu, k.red, k.green, k.yellow, k.blue, k.touch, k.back, k.quit)
	case listState:
		return h(k.up, k.down, k.ok, k.right, k.back),
			h(k.up, k.down, k.ok, k.right, k.list, k.back, k.digits, k.forceQuit)
	case failedState:
		return h(k.channelUp, k.channelDown, k.left, k.back),
			h(k.channelUp, k.channelDown, k.left, k.digits, k.back, k.quit)
	default:
		return h(k.forceQuit), h(k.forceQuit)
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
