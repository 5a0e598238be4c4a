package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/tvzap/tvzap/log"
)

// mpvMessage is one newline-delimited JSON line read from the event connection.
type mpvMessage struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// observedProperties are registered on the listener's own connection;
// mpv only reports property changes to the client that asked for them.
var observedProperties = []string{
	"pause",
	"paused-for-cache",
	"vo-configured",
	"eof-reached",
	"time-pos",
	"duration",
	"track-list",
}

// EventListener reads mpv events from a persistent IPC connection.
type EventListener struct {
	socketPath string
	callback   func(mpvMessage)

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	done      chan struct{}
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback func(mpvMessage)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start opens the event connection, registers the property observers and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	enc := json.NewEncoder(conn)
	for i, name := range observedProperties {
		if err := enc.Encode(ipcCommand{Command: []interface{}{"observe_property", i + 1, name}}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the event connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	_ = el.conn.Close()
	done := el.done
	el.mu.Unlock()

	<-done
}

// readLoop dispatches every event line until the connection is closed.
func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.processLine(line)
		}
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}
	}
}

// processLine parses a single line; command replies carry no "event" field and are skipped.
func (el *EventListener) processLine(line []byte) {
	var msg mpvMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
		return
	}

	if el.callback != nil {
		el.callback(msg)
	}
}
