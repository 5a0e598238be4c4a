package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/tvzap/tvzap/color"
	"github.com/tvzap/tvzap/constant"
	"github.com/tvzap/tvzap/icon"
	"github.com/tvzap/tvzap/session"
	"github.com/tvzap/tvzap/style"
	"github.com/tvzap/tvzap/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case watchState:
		output = b.viewWatch()
	case listState:
		output = b.viewList()
	case failedState:
		output = b.viewFailed()
	case closedState:
		output = b.viewClosed()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewWatch() string {
	lines := []string{b.header(), ""}

	switch {
	case b.snap.Loading:
		lines = append(lines, b.spinnerC.View()+" "+util.Capitalize(b.snap.State.String()))
	case b.snap.State == session.Idle:
		lines = append(lines, style.Faint(icon.Get(icon.Info)+" Stream ended"))
	}

	if b.snap.ControlsVisible {
		lines = append(lines, "", b.controls())
	}

	if overlay := b.numberOverlay(); overlay != "" {
		lines = append(lines, "", overlay)
	}

	return b.renderLines(b.snap.ControlsVisible, lines)
}

func (b *statefulBubble) viewList() string {
	b.listC.Title = "Channels"
	if b.snap.ChannelName != "" {
		b.listC.Title = "Channels " + style.Faint("watching "+b.snap.ChannelName)
	}

	out := listExtraPaddingStyle.Render(b.listC.View())
	if overlay := b.numberOverlay(); overlay != "" {
		out += "\n" + overlay
	}
	return out
}

func (b *statefulBubble) viewFailed() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.HiRed).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.snap.ErrorMessage), b.width)

	lines := []string{
		b.header(),
		"",
		style.ErrorTitle("Playback failed"),
		"",
		icon.Get(icon.Fail) + " " + errorMsg,
		"",
		style.Faint("Change channel to try another stream, or press esc to leave"),
	}

	if overlay := b.numberOverlay(); overlay != "" {
		lines = append(lines, "", overlay)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewClosed() string {
	return b.renderLines(false, []string{
		style.Title(constant.App),
		"",
		icon.Get(icon.Success) + " Session closed",
	})
}

// header renders the current channel as a title bar clipped to the screen width.
func (b *statefulBubble) header() string {
	if b.snap.ChannelName == "" {
		return style.Title(constant.App)
	}

	text := fmt.Sprintf("%s %d. %s", icon.Get(icon.Channel), b.snap.ChannelNumber, b.snap.ChannelName)
	if b.width > 4 {
		text = truncate.StringWithTail(text, uint(b.width-2), "…")
	}
	return style.Title(text)
}

func (b *statefulBubble) controls() string {
	return fmt.Sprintf(
		"%s %s %s %s",
		style.Fg(style.AccentColor)(b.snap.PlayPauseIcon),
		b.snap.CurrentTimeText,
		b.progressC.ViewAs(b.snap.ProgressFraction),
		b.snap.TotalTimeText,
	)
}

func (b *statefulBubble) numberOverlay() string {
	if b.snap.NumberEntryOverlayText == "" {
		return ""
	}
	return style.Tag(style.Base, style.Yellow)(icon.Get(icon.Number) + " " + b.snap.NumberEntryOverlayText)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
