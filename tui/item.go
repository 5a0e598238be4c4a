package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/samber/lo"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/icon"
	"github.com/tvzap/tvzap/style"
)

// listItem implements the list.Item interface for one channel of the catalog.
type listItem struct {
	channel catalog.Channel
	playing bool
}

func (t *listItem) Title() string {
	if t.playing {
		return t.channel.String() + " " + style.Fg(style.AccentColor)(icon.Get(icon.Play))
	}
	return t.channel.String()
}

func (t *listItem) Description() string {
	return lo.Ternary(t.channel.Category != "", t.channel.Category, style.Faint("no category"))
}

func (t *listItem) FilterValue() string {
	return t.channel.Name
}

func channelItems(cat *catalog.Catalog, playing int) []list.Item {
	return lo.Map(cat.Channels(), func(ch catalog.Channel, i int) list.Item {
		return &listItem{channel: ch, playing: i == playing}
	})
}
