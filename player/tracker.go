package player

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tvzap/tvzap/log"
)

// mpvTrack is one entry of mpv's "track-list" property.
type mpvTrack struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Lang  string `json:"lang"`
}

// tracker folds raw mpv messages into engine events and cached playback properties.
// It emits at most one event per transition: repeats of the last event are dropped,
// errors excepted.
type tracker struct {
	active    bool
	paused    bool
	cacheWait bool
	position  mo.Option[time.Duration]
	duration  mo.Option[time.Duration]
	tracks    []Track
	last      mo.Option[EventKind]
}

// reset forgets everything about the previous media; a new source is loading.
func (t *tracker) reset() {
	*t = tracker{active: true}
}

func (t *tracker) observe(msg mpvMessage) []Event {
	var out []Event
	emit := func(ev Event) {
		if last, ok := t.last.Get(); ok && last == ev.Kind && ev.Kind != EventError {
			return
		}
		t.last = mo.Some(ev.Kind)
		out = append(out, ev)
	}

	switch msg.Event {
	case "property-change":
		t.property(msg.Name, msg.Data, emit)
	case "playback-restart":
		if t.active && !t.paused && !t.cacheWait {
			emit(Event{Kind: EventPlaying})
		}
	case "end-file":
		if !t.active {
			break
		}
		switch msg.Reason {
		case "error":
			t.active = false
			emit(Event{Kind: EventError, Detail: lo.Ternary(msg.FileError != "", msg.FileError, "playback failed")})
		case "eof":
			t.active = false
			emit(Event{Kind: EventEndReached})
		}
	}

	return out
}

// property folds a property change. mpv reports a property turning
// unavailable as a change without data; only position and duration care.
func (t *tracker) property(name string, data json.RawMessage, emit func(Event)) {
	if unavailable(data) {
		switch name {
		case "time-pos":
			t.position = mo.None[time.Duration]()
		case "duration":
			t.duration = mo.None[time.Duration]()
		}
		return
	}

	switch name {
	case "time-pos":
		t.position = seconds(data)
	case "duration":
		t.duration = seconds(data)
	case "track-list":
		var tracks []mpvTrack
		if err := json.Unmarshal(data, &tracks); err != nil {
			log.Debugf("mpv track-list ignored: %v", err)
			return
		}
		t.tracks = lo.FilterMap(tracks, func(tr mpvTrack, _ int) (Track, bool) {
			return Track{ID: tr.ID, Title: tr.Title, Language: tr.Lang}, tr.Type == "audio"
		})
	case "pause":
		t.paused = flag(data)
	case "paused-for-cache":
		waited := t.cacheWait
		t.cacheWait = flag(data)
		if !t.active {
			return
		}
		switch {
		case t.cacheWait:
			emit(Event{Kind: EventBuffering})
		case waited && !t.paused:
			emit(Event{Kind: EventPlaying})
		}
	case "vo-configured":
		if t.active && flag(data) {
			emit(Event{Kind: EventVideoReady})
		}
	case "eof-reached":
		if t.active && flag(data) {
			t.active = false
			emit(Event{Kind: EventEndReached})
		}
	}
}

func seconds(data json.RawMessage) mo.Option[time.Duration] {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil || v == nil || *v < 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(*v * float64(time.Second)))
}

func unavailable(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func flag(data json.RawMessage) bool {
	var v bool
	_ = json.Unmarshal(data, &v)
	return v
}
