// Package player defines the media engine capability a playback session drives.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

var (
	// ErrNoMedia is returned by commands that need a loaded source.
	ErrNoMedia = errors.New("no media loaded")

	// ErrReleased is returned by every command issued after Release.
	ErrReleased = errors.New("engine released")
)

// Poster hands a function over to the single control context that owns session state.
type Poster func(func())

// EventKind enumerates the engine state transitions a session reacts to.
type EventKind int

const (
	EventPlaying EventKind = iota
	EventBuffering
	EventVideoReady
	EventEndReached
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPlaying:
		return "playing"
	case EventBuffering:
		return "buffering"
	case EventVideoReady:
		return "video-ready"
	case EventEndReached:
		return "end-reached"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single engine notification. Detail is only set for EventError.
type Event struct {
	Kind   EventKind
	Detail string
}

func (e Event) String() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Track is an audio track as reported by the engine, in engine order.
type Track struct {
	ID       int
	Title    string
	Language string
}

// Surface is a rendering target the engine draws video onto.
type Surface interface {
	SurfaceName() string
}

// Window is the surface of engines that own their output window.
type Window struct {
	Title string
}

// SurfaceName implements Surface.
func (w Window) SurfaceName() string {
	return w.Title
}

// Engine encapsulates the playback capability. Commands are fire-and-forget;
// their outcome is reported through the subscribed event handler.
type Engine interface {
	// Load tears down the current media and starts buffering uri. It does not block.
	Load(uri string) error

	// Play resumes playback of the loaded media.
	Play() error

	// Pause suspends playback of the loaded media.
	Pause() error

	// SeekRelative moves playback by delta, clamped to [0, duration).
	// It is accepted without effect while the duration is unknown.
	SeekRelative(delta time.Duration) error

	// Position is the current playback position, absent before the engine is ready.
	Position() mo.Option[time.Duration]

	// Duration is the media length, absent before the engine is ready or for live streams.
	Duration() mo.Option[time.Duration]

	// AudioTracks lists the audio tracks of the current media.
	AudioTracks() []Track

	// SelectAudioTrack switches the active audio track.
	SelectAudioTrack(id int) error

	// Attach binds the rendering target.
	Attach(surface Surface) error

	// Detach unbinds the rendering target. Safe to call repeatedly.
	Detach() error

	// Release frees the engine irreversibly. Safe to call repeatedly.
	Release() error

	// Subscribe registers fn for engine events; every event is delivered through post.
	Subscribe(post Poster, fn func(Event))
}
