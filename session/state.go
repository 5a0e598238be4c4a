package session

import "fmt"

// EngineState is the playback state of the current load attempt.
type EngineState int

const (
	Idle EngineState = iota
	Loading
	Playing
	Paused
	Buffering
	Failed
)

func (s EngineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Active reports whether a load is in progress or media is playing.
func (s EngineState) Active() bool {
	switch s {
	case Loading, Playing, Paused, Buffering:
		return true
	default:
		return false
	}
}

// Unset is the position of a session that has not loaded a channel yet.
const Unset = -1

// State is owned by the controller and only mutated on the control loop.
type State struct {
	Position        int
	Engine          EngineState
	ControlsVisible bool
	NumberEntry     string
	ChannelListOpen bool
	ListFocus       int
	Notice          string
	Failure         *LoadFailure
	Closed          bool
}

func newState() State {
	return State{Position: Unset, Engine: Idle}
}
