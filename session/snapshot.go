package session

import (
	"fmt"
	"time"

	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/icon"
)

// Snapshot is everything the UI shell needs to draw one frame.
type Snapshot struct {
	ChannelName            string
	ChannelNumber          int
	ControlsVisible        bool
	PlayPauseIcon          string
	ProgressFraction       float64
	CurrentTimeText        string
	TotalTimeText          string
	NumberEntryOverlayText string
	ChannelListOpen        bool
	ListFocus              int
	Loading                bool
	Notice                 string
	ErrorMessage           string
	Closed                 bool

	State    EngineState
	Position int
	Catalog  *catalog.Catalog
}

// Shell renders snapshots. Render is called on the control loop and must not block on it.
type Shell interface {
	Render(Snapshot)
}

// ShellFunc adapts a function to Shell.
type ShellFunc func(Snapshot)

func (f ShellFunc) Render(s Snapshot) {
	f(s)
}

// Snapshot samples the engine and captures the current state.
func (c *Controller) Snapshot() Snapshot {
	s := c.state
	snap := Snapshot{
		ControlsVisible:        s.ControlsVisible,
		NumberEntryOverlayText: s.NumberEntry,
		ChannelListOpen:        s.ChannelListOpen,
		ListFocus:              s.ListFocus,
		Loading:                s.Engine == Loading || s.Engine == Buffering,
		Notice:                 s.Notice,
		Closed:                 s.Closed,
		State:                  s.Engine,
		Position:               s.Position,
		Catalog:                c.catalog,
		CurrentTimeText:        formatClock(0),
		TotalTimeText:          formatClock(0),
	}

	if ch, ok := c.catalog.At(s.Position).Get(); ok {
		snap.ChannelName = ch.Name
		snap.ChannelNumber = ch.Number
	}

	if s.Engine == Playing {
		snap.PlayPauseIcon = icon.Get(icon.Pause)
	} else {
		snap.PlayPauseIcon = icon.Get(icon.Play)
	}

	if s.Failure != nil {
		snap.ErrorMessage = s.Failure.Error()
	}

	if s.Closed {
		return snap
	}

	if duration, ok := c.engine.Duration().Get(); ok && duration > 0 {
		position := c.engine.Position().OrElse(0)
		snap.ProgressFraction = progress(position, duration)
		snap.CurrentTimeText = formatClock(position)
		snap.TotalTimeText = formatClock(duration)
	}

	return snap
}

func progress(position, duration time.Duration) float64 {
	f := float64(position) / float64(duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// formatClock renders d as mm:ss; minutes are not wrapped into hours.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
