package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is one line of mpv's JSON IPC protocol.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id,omitempty"`
}

// ipcReply is either the answer to a command, matched by RequestID, or an
// unrelated broadcast event.
type ipcReply struct {
	RequestID int64  `json:"request_id"`
	Data      any    `json:"data"`
	Error     string `json:"error"`
	Event     string `json:"event"`
}

// MpvError is mpv refusing a command, e.g. "property unavailable" while idle.
type MpvError struct {
	Command string
	Reason  string
}

func (e *MpvError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Reason)
}

const (
	commandAttempts = 3
	attemptBackoff  = 100 * time.Millisecond
	replyTimeout    = time.Second
)

var requestIDs atomic.Int64

// sendCommand runs command on mpv. Connection failures are retried, refusals are not.
func (m *MPV) sendCommand(command []any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	for attempt := 0; attempt < commandAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(attemptBackoff)
		}

		var data any
		data, err = roundTrip(m.socketPath, command)
		if err == nil {
			return data, nil
		}
		if _, refused := err.(*MpvError); refused {
			return nil, err
		}
	}

	return nil, fmt.Errorf("mpv %v: gave up after %d attempts: %w", command[0], commandAttempts, err)
}

// roundTrip sends command on a fresh connection and waits for its reply.
func roundTrip(socketPath string, command []any) (any, error) {
	conn, err := net.DialTimeout("unix", socketPath, replyTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestIDs.Add(1)
	if err := conn.SetDeadline(time.Now().Add(replyTimeout)); err != nil {
		return nil, err
	}
	if err := json.NewEncoder(conn).Encode(ipcCommand{Command: command, RequestID: id}); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var reply ipcReply
		if err := json.Unmarshal(scanner.Bytes(), &reply); err != nil {
			return nil, fmt.Errorf("decode reply: %w", err)
		}
		if reply.Event != "" || reply.RequestID != id {
			continue
		}
		if reply.Error != "" && reply.Error != "success" {
			return nil, &MpvError{Command: fmt.Sprint(command[0]), Reason: reply.Error}
		}
		return reply.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("read: connection closed before reply")
}
