package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// View is a filtered, secondary listing of a catalog. Entries keep the
// display numbers of the catalog they were taken from, but their positions
// inside the view are not catalog positions.
type View struct {
	Title   string
	parent  *Catalog
	entries []Channel
}

// Len returns the number of entries in the view.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// At returns the view entry at index i.
func (v *View) At(i int) mo.Option[Channel] {
	if i < 0 || i >= v.Len() {
		return mo.None[Channel]()
	}
	return mo.Some(v.entries[i])
}

// Entries returns a copy of the view entries.
func (v *View) Entries() []Channel {
	if v == nil {
		return nil
	}
	return append([]Channel(nil), v.entries...)
}

// Global translates a view index into the canonical catalog position.
func (v *View) Global(i int) mo.Option[int] {
	ch, ok := v.At(i).Get()
	if !ok {
		return mo.None[int]()
	}
	return v.parent.FindIndexByID(ch.ID)
}

// All returns a view covering the whole catalog.
func (c *Catalog) All() *View {
	return &View{Title: "All", parent: c, entries: c.Channels()}
}

// ByCategory returns the channels of one category, compared case-insensitively.
func (c *Catalog) ByCategory(category string) *View {
	return &View{
		Title:  category,
		parent: c,
		entries: lo.Filter(c.Channels(), func(ch Channel, _ int) bool {
			return strings.EqualFold(ch.Category, category)
		}),
	}
}

// Search returns the channels whose name fuzzily matches query, best match first.
// An empty query matches everything in catalog order.
func (c *Catalog) Search(query string) *View {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}

	channels := c.Channels()
	names := lo.Map(channels, func(ch Channel, _ int) string {
		return ch.Name
	})

	ranks := fuzzy.RankFindFold(query, names)
	sort.Stable(ranks)

	return &View{
		Title:  query,
		parent: c,
		entries: lo.Map(ranks, func(r fuzzy.Rank, _ int) Channel {
			return channels[r.OriginalIndex]
		}),
	}
}
