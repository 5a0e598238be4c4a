// Package catalog implements the immutable, renumbered channel list that backs a playback session.
package catalog

import (
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Channel is a single playable entry of the catalog.
type Channel struct {
	ID       string `json:"id,omitempty" jsonschema:"description=Stable identifier. Defaults to the stream url"`
	Number   int    `json:"number,omitempty" jsonschema:"description=Ignored on input. Channels are numbered in file order"`
	Name     string `json:"name" jsonschema:"minLength=1"`
	URL      string `json:"url" jsonschema:"format=uri"`
	Logo     string `json:"logo,omitempty"`
	Category string `json:"category,omitempty"`
}

// String returns the numbered label used by channel lists.
func (c Channel) String() string {
	return lo.Ternary(c.Number > 0, strconv.Itoa(c.Number)+". "+c.Name, c.Name)
}

// Catalog is an ordered channel sequence. It is never mutated after Build;
// a reload produces a new Catalog.
type Catalog struct {
	channels []Channel
	byID     map[string]int
	byNumber map[int]int
}

// Build copies raw and assigns display numbers as index+1 in input order.
// Numbers carried by raw are ignored. When ids repeat, the first occurrence
// is the one FindIndexByID resolves to.
func Build(raw []Channel) *Catalog {
	c := &Catalog{
		channels: make([]Channel, len(raw)),
		byID:     make(map[string]int, len(raw)),
		byNumber: make(map[int]int, len(raw)),
	}

	for i, ch := range raw {
		ch.Number = i + 1
		c.channels[i] = ch
		c.byNumber[ch.Number] = i

		if _, exists := c.byID[ch.ID]; !exists {
			c.byID[ch.ID] = i
		}
	}

	return c
}

// Len returns the number of channels.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.channels)
}

// At returns the channel at index i.
func (c *Catalog) At(i int) mo.Option[Channel] {
	if i < 0 || i >= c.Len() {
		return mo.None[Channel]()
	}
	return mo.Some(c.channels[i])
}

// Channels returns a copy of the channel sequence.
func (c *Catalog) Channels() []Channel {
	if c == nil {
		return nil
	}
	return append([]Channel(nil), c.channels...)
}

// FindByNumber resolves a display number to its index.
func (c *Catalog) FindByNumber(n int) mo.Option[int] {
	if c == nil {
		return mo.None[int]()
	}
	if i, ok := c.byNumber[n]; ok {
		return mo.Some(i)
	}
	return mo.None[int]()
}

// FindIndexByID resolves a channel id to its canonical index.
func (c *Catalog) FindIndexByID(id string) mo.Option[int] {
	if c == nil {
		return mo.None[int]()
	}
	if i, ok := c.byID[id]; ok {
		return mo.Some(i)
	}
	return mo.None[int]()
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	return lo.Uniq(lo.FilterMap(c.Channels(), func(ch Channel, _ int) (string, bool) {
		return ch.Category, ch.Category != ""
	}))
}
