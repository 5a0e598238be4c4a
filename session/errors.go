package session

import (
	"errors"
	"fmt"

	"github.com/tvzap/tvzap/catalog"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrStarted is returned when Start is called twice.
	ErrStarted = errors.New("session already started")

	// ErrLoadTimeout is the cause of a LoadFailure when the engine never reported playback.
	ErrLoadTimeout = errors.New("no playback reported in time")
)

// TransientInputError describes input that was rejected without changing playback,
// such as a channel number that does not exist.
type TransientInputError struct {
	Input  string
	Reason string
}

func (e *TransientInputError) Error() string {
	return e.Reason
}

// LoadFailure is fatal to the current load attempt. It stays on screen until the
// user switches channel or closes the session.
type LoadFailure struct {
	Channel catalog.Channel
	Cause   error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("cannot play %s: %v", e.Channel, e.Cause)
}

func (e *LoadFailure) Unwrap() error {
	return e.Cause
}

// TimedOut reports whether the engine never answered the load.
func (e *LoadFailure) TimedOut() bool {
	return errors.Is(e.Cause, ErrLoadTimeout)
}

// ResourceTeardownError wraps an error raised while detaching or releasing the engine.
type ResourceTeardownError struct {
	Op  string
	Err error
}

func (e *ResourceTeardownError) Error() string {
	return fmt.Sprintf("teardown %s: %v", e.Op, e.Err)
}

func (e *ResourceTeardownError) Unwrap() error {
	return e.Err
}
