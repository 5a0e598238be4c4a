package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/internal/ui"
	"github.com/tvzap/tvzap/session"
	"github.com/tvzap/tvzap/style"
	"github.com/tvzap/tvzap/util"
)

// remote is the part of a session the bubble drives.
type remote interface {
	OnKey(session.Key)
	OnTouch()
}

// statefulBubble draws session snapshots and feeds keyboard and mouse input back
// to the session. It holds no playback state of its own.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	remote remote
	shell  *Shell

	snap session.Snapshot
	// catalog and playing are what listC was last filled from.
	catalog *catalog.Catalog
	playing int

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	listC     list.Model

	notifier *ui.Model

	width, height int
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	listWidth := width - xx
	b.listC.SetSize(listWidth, height-yy)
	b.listC.Help.Width = listWidth

	// leave room for the icon and the two clocks
	b.progressC.Width = util.Max(10, b.width-16)
	b.helpC.Width = b.width
}

func newBubble(r remote, shell *Shell) *statefulBubble {
	bubble := &statefulBubble{
		keymap:   newStatefulKeymap(),
		remote:   r,
		shell:    shell,
		playing:  -1,
		notifier: &ui.Model{},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.listC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.listC.Title = "Channels"
	bubble.listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1)
	bubble.listC.Styles.NoItems = paddingStyle
	// focus is owned by the session; the list only draws it
	bubble.listC.SetFilteringEnabled(false)
	bubble.listC.SetShowStatusBar(false)
	bubble.listC.SetShowHelp(false)
	bubble.listC.SetStatusBarItemName("channel", "channels")

	bubble.setState(watchState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}
