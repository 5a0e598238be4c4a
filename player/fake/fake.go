// Package fake provides an in-memory media engine that records every command it receives.
// It backs the "fake" engine of the play command and the session tests.
package fake

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/tvzap/tvzap/player"
)

// Call is one recorded engine command.
type Call struct {
	Op  string
	Arg string
}

func (c Call) String() string {
	if c.Arg == "" {
		return c.Op
	}
	return c.Op + "(" + c.Arg + ")"
}

// Engine implements player.Engine without producing any output.
// Events are only produced by Emit, or by Load when auto-play is on.
type Engine struct {
	mu       sync.Mutex
	calls    []Call
	loaded   bool
	attached bool
	released bool
	position mo.Option[time.Duration]
	duration mo.Option[time.Duration]
	tracks   []player.Track
	failLoad error
	autoPlay bool

	post    player.Poster
	handler func(player.Event)
}

var _ player.Engine = (*Engine)(nil)

// New returns an idle engine.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) record(op string, arg string) {
	e.calls = append(e.calls, Call{Op: op, Arg: arg})
}

// Calls returns a copy of the command log.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Call(nil), e.calls...)
}

// Ops returns the command log as op names only.
func (e *Engine) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ops := make([]string, len(e.calls))
	for i, c := range e.calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears the command log.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = nil
}

// SetPosition sets what Position reports. Zero or negative means unknown.
func (e *Engine) SetPosition(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.position = known(d)
}

// SetDuration sets what Duration reports. Zero or negative means unknown.
func (e *Engine) SetDuration(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.duration = known(d)
}

// SetTracks sets the audio tracks of the current media.
func (e *Engine) SetTracks(tracks ...player.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracks = tracks
}

// FailLoad makes every following Load return err.
func (e *Engine) FailLoad(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.failLoad = err
}

// SetAutoPlay makes every successful Load report playback right away.
func (e *Engine) SetAutoPlay(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.autoPlay = on
}

// Released reports whether Release was called.
func (e *Engine) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.released
}

// Attached reports whether a surface is bound.
func (e *Engine) Attached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.attached
}

// Emit delivers ev to the subscriber through its poster, as a real engine would.
func (e *Engine) Emit(ev player.Event) {
	e.mu.Lock()
	post, handler, released := e.post, e.handler, e.released
	e.mu.Unlock()

	if released || post == nil || handler == nil {
		return
	}
	post(func() { handler(ev) })
}

// Subscribe implements player.Engine.
func (e *Engine) Subscribe(post player.Poster, fn func(player.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.post, e.handler = post, fn
}

// Load implements player.Engine.
func (e *Engine) Load(uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return player.ErrReleased
	}
	e.record("load", uri)
	if e.failLoad != nil {
		return e.failLoad
	}

	e.loaded = true
	e.position = mo.None[time.Duration]()
	e.duration = mo.None[time.Duration]()
	e.tracks = nil

	if e.autoPlay && e.post != nil && e.handler != nil {
		handler := e.handler
		e.post(func() { handler(player.Event{Kind: player.EventPlaying}) })
	}
	return nil
}

// Play implements player.Engine.
func (e *Engine) Play() error {
	return e.command("play", "")
}

// Pause implements player.Engine.
func (e *Engine) Pause() error {
	return e.command("pause", "")
}

// SeekRelative implements player.Engine.
func (e *Engine) SeekRelative(delta time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.precondition(); err != nil {
		return err
	}
	e.record("seek", delta.String())

	duration, ok := e.duration.Get()
	if !ok {
		return nil
	}
	e.position = mo.Some(player.ClampSeek(e.position.OrElse(0)+delta, duration))
	return nil
}

// Position implements player.Engine.
func (e *Engine) Position() mo.Option[time.Duration] {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.position
}

// Duration implements player.Engine.
func (e *Engine) Duration() mo.Option[time.Duration] {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.duration
}

// AudioTracks implements player.Engine.
func (e *Engine) AudioTracks() []player.Track {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]player.Track(nil), e.tracks...)
}

// SelectAudioTrack implements player.Engine.
func (e *Engine) SelectAudioTrack(id int) error {
	return e.command("audio", fmt.Sprint(id))
}

// Attach implements player.Engine.
func (e *Engine) Attach(surface player.Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return player.ErrReleased
	}

	var name string
	if surface != nil {
		name = surface.SurfaceName()
	}
	e.attached = true
	e.record("attach", name)
	return nil
}

// Detach implements player.Engine.
func (e *Engine) Detach() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return player.ErrReleased
	}
	if !e.attached {
		return nil
	}

	e.attached = false
	e.record("detach", "")
	return nil
}

// Release implements player.Engine.
func (e *Engine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return nil
	}

	e.released = true
	e.record("release", "")
	return nil
}

func (e *Engine) command(op, arg string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.precondition(); err != nil {
		return err
	}
	e.record(op, arg)
	return nil
}

func (e *Engine) precondition() error {
	if e.released {
		return player.ErrReleased
	}
	if !e.loaded {
		return player.ErrNoMedia
	}
	return nil
}

func known(d time.Duration) mo.Option[time.Duration] {
	if d <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(d)
}
