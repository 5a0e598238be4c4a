// Package tui provides the primary terminal user interface implementation.
package tui

import "github.com/tvzap/tvzap/session"

type state int

const (
	watchState state = iota
	listState
	failedState
	closedState
)

// stateOf picks the screen for a snapshot. Failure wins over the list so the
// error stays readable until the user changes channel.
func stateOf(snap session.Snapshot) state {
	switch {
	case snap.Closed:
		return closedState
	case snap.ErrorMessage != "" && !snap.ChannelListOpen:
		return failedState
	case snap.ChannelListOpen:
		return listState
	default:
		return watchState
	}
}
