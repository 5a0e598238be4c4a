// Package timer implements a set of named, cancellable one-shot timers whose
// firings are delivered to a single control context.
//
// A Set is not safe for concurrent use: every method must be called from the
// control context that the firings are posted to. The clock goroutines only
// ever post; they never touch the set.
package timer

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tvzap/tvzap/log"
)

// Name identifies one of the timers a playback session runs.
type Name int

const (
	ControlsAutoHide Name = iota
	LoadTimeout
	ProgressPoll
	NumberEntryDebounce
)

// Names lists every timer in a stable order.
var Names = []Name{ControlsAutoHide, LoadTimeout, ProgressPoll, NumberEntryDebounce}

func (n Name) String() string {
	switch n {
	case ControlsAutoHide:
		return "controls-auto-hide"
	case LoadTimeout:
		return "load-timeout"
	case ProgressPoll:
		return "progress-poll"
	case NumberEntryDebounce:
		return "number-entry-debounce"
	default:
		return fmt.Sprintf("timer(%d)", int(n))
	}
}

type entry struct {
	fn         func()
	scheduled  *clock.Timer
	generation uint64
	armed      bool
}

// Set holds the registered timers.
type Set struct {
	clock   clock.Clock
	post    func(func())
	entries map[Name]*entry
}

// New creates an empty set. Firings are handed to post.
func New(clk clock.Clock, post func(func())) *Set {
	if clk == nil {
		clk = clock.New()
	}

	return &Set{
		clock:   clk,
		post:    post,
		entries: make(map[Name]*entry),
	}
}

// Register binds fn to name. Registering again replaces the callback and cancels a pending firing.
func (s *Set) Register(name Name, fn func()) {
	if e, ok := s.entries[name]; ok {
		s.stop(e)
		e.fn = fn
		return
	}

	s.entries[name] = &entry{fn: fn}
}

// Arm schedules name to fire once after d. It does nothing if name is already armed.
func (s *Set) Arm(name Name, d time.Duration) {
	e := s.entry(name)
	if e == nil || e.armed {
		return
	}

	s.schedule(name, e, d)
}

// Rearm cancels a pending firing of name and schedules a fresh one after d.
func (s *Set) Rearm(name Name, d time.Duration) {
	e := s.entry(name)
	if e == nil {
		return
	}

	s.stop(e)
	s.schedule(name, e, d)
}

// Cancel discards a pending firing of name, if any.
func (s *Set) Cancel(name Name) {
	if e := s.entry(name); e != nil {
		s.stop(e)
	}
}

// Armed reports whether name has a pending firing.
func (s *Set) Armed(name Name) bool {
	e, ok := s.entries[name]
	return ok && e.armed
}

// CancelAll discards every pending firing.
func (s *Set) CancelAll() {
	for _, e := range s.entries {
		s.stop(e)
	}
}

func (s *Set) entry(name Name) *entry {
	e, ok := s.entries[name]
	if !ok {
		log.Warnf("timer %s used before it was registered", name)
		return nil
	}
	return e
}

func (s *Set) schedule(name Name, e *entry, d time.Duration) {
	e.generation++
	e.armed = true

	generation := e.generation
	e.scheduled = s.clock.AfterFunc(d, func() {
		s.post(func() { s.fire(name, e, generation) })
	})
}

// fire runs on the control context. A firing whose generation no longer
// matches was cancelled or rearmed after the clock had already let it go.
func (s *Set) fire(name Name, e *entry, generation uint64) {
	if !e.armed || e.generation != generation {
		log.Debugf("timer %s: dropping stale firing", name)
		return
	}

	e.armed = false
	e.scheduled = nil
	e.fn()
}

func (s *Set) stop(e *entry) {
	if e.scheduled != nil {
		e.scheduled.Stop()
		e.scheduled = nil
	}
	e.generation++
	e.armed = false
}
