package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
	commandQueueSize  = 64
)

// MPV implements Engine on top of an idle mpv process driven through JSON-IPC.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	mu         sync.Mutex    // protects socket writes

	stateMu  sync.Mutex // protects everything below
	state    tracker
	loaded   bool
	attached bool
	released bool
	post     Poster
	handler  func(Event)

	quitWait    time.Duration
	listener    *EventListener
	queue       chan []interface{}
	workerDone  chan struct{}
	releaseOnce sync.Once
}

// NewMPV creates an engine that spawns binary on Open.
func NewMPV(binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}

	return &MPV{
		binary:     binary,
		quitWait:   quitTimeout,
		exited:     make(chan struct{}),
		queue:      make(chan []interface{}, commandQueueSize),
		workerDone: make(chan struct{}),
	}
}

// Open starts an idle mpv process and blocks until its IPC socket accepts
// connections. Commands issued before Open wait in the queue.
func (m *MPV) Open(title string) error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))
	}

	safeTitle := sanitizeTitle(title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=no",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", safeTitle),
	}

	m.cmd = mpvCommand(m.binary, args)

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies.
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killGroup(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	go m.worker()

	m.listener = NewEventListener(m.socketPath, m.onMessage)
	if err := m.listener.Start(); err != nil {
		_ = killGroup(m.cmd)
		return err
	}

	go m.watchExit()

	log.Infof("mpv started on socket %s", m.socketPath)
	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// worker sends queued commands in order. A failed loadfile is reported as an engine error.
func (m *MPV) worker() {
	defer close(m.workerDone)

	for command := range m.queue {
		if _, err := m.sendCommand(command); err != nil {
			log.Warnf("mpv command %v: %v", command, err)
			if command[0] == "loadfile" {
				m.emit(Event{Kind: EventError, Detail: err.Error()})
			}
		}
	}
}

// watchExit turns an unexpected process exit into an engine error.
func (m *MPV) watchExit() {
	<-m.exited

	m.stateMu.Lock()
	released := m.released
	m.stateMu.Unlock()

	if !released {
		log.Error("mpv exited unexpectedly")
		m.emit(Event{Kind: EventError, Detail: "mpv exited unexpectedly"})
	}
}

func (m *MPV) onMessage(msg mpvMessage) {
	m.stateMu.Lock()
	events := m.state.observe(msg)
	m.stateMu.Unlock()

	for _, ev := range events {
		log.Debugf("mpv event %s", ev)
		m.emit(ev)
	}
}

// emit marshals ev onto the subscriber's control context.
func (m *MPV) emit(ev Event) {
	m.stateMu.Lock()
	post, handler, released := m.post, m.handler, m.released
	m.stateMu.Unlock()

	if released || post == nil || handler == nil {
		return
	}
	post(func() { handler(ev) })
}

// enqueue must be called with stateMu held.
func (m *MPV) enqueue(command ...interface{}) {
	select {
	case m.queue <- command:
	default:
		log.Warnf("mpv command queue full, dropping %v", command[0])
	}
}

// Subscribe implements Engine.
func (m *MPV) Subscribe(post Poster, fn func(Event)) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	m.post, m.handler = post, fn
}

// Load implements Engine.
func (m *MPV) Load(uri string) error {
	target, err := sanitizeMediaTarget(uri)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.released {
		return ErrReleased
	}

	m.state.reset()
	m.loaded = true
	m.enqueue("loadfile", target, "replace")
	m.enqueue("set_property", "pause", false)
	return nil
}

// Play implements Engine.
func (m *MPV) Play() error {
	return m.setPause(false)
}

// Pause implements Engine.
func (m *MPV) Pause() error {
	return m.setPause(true)
}

func (m *MPV) setPause(paused bool) error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if err := m.precondition(); err != nil {
		return err
	}

	m.enqueue("set_property", "pause", paused)
	return nil
}

// SeekRelative implements Engine.
func (m *MPV) SeekRelative(delta time.Duration) error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if err := m.precondition(); err != nil {
		return err
	}

	duration, ok := m.state.duration.Get()
	if !ok {
		return nil
	}

	target := ClampSeek(m.state.position.OrElse(0)+delta, duration)
	m.enqueue("seek", target.Seconds(), "absolute")
	return nil
}

// Position implements Engine.
func (m *MPV) Position() mo.Option[time.Duration] {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.state.position
}

// Duration implements Engine.
func (m *MPV) Duration() mo.Option[time.Duration] {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.state.duration
}

// AudioTracks implements Engine.
func (m *MPV) AudioTracks() []Track {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return append([]Track(nil), m.state.tracks...)
}

// SelectAudioTrack implements Engine.
func (m *MPV) SelectAudioTrack(id int) error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if err := m.precondition(); err != nil {
		return err
	}

	m.enqueue("set_property", "aid", id)
	return nil
}

// Attach implements Engine. mpv renders into its own window, which is shown on attach.
func (m *MPV) Attach(surface Surface) error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.released {
		return ErrReleased
	}

	m.attached = true
	if surface != nil && surface.SurfaceName() != "" {
		m.enqueue("set_property", "title", sanitizeTitle(surface.SurfaceName()))
	}
	m.enqueue("set_property", "force-window", "yes")
	m.enqueue("set_property", "vid", "auto")
	return nil
}

// Detach implements Engine.
func (m *MPV) Detach() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.released {
		return ErrReleased
	}
	if !m.attached {
		return nil
	}

	m.attached = false
	m.enqueue("set_property", "vid", "no")
	m.enqueue("set_property", "force-window", "no")
	return nil
}

// Release implements Engine. Queued commands are flushed before mpv is asked to quit.
func (m *MPV) Release() error {
	m.releaseOnce.Do(func() {
		m.stateMu.Lock()
		m.released = true
		close(m.queue)
		m.stateMu.Unlock()

		if m.cmd == nil || m.cmd.Process == nil {
			return
		}

		select {
		case <-m.workerDone:
		case <-m.exited:
		}
		if m.listener != nil {
			m.listener.Stop()
		}

		_, _ = roundTrip(m.socketPath, []any{"quit"})

		select {
		case <-m.exited:
		case <-time.After(m.quitWait):
			_ = killGroup(m.cmd)
		}

		_ = os.Remove(m.socketPath)
		log.Info("mpv released")
	})

	return nil
}

// precondition must be called with stateMu held.
func (m *MPV) precondition() error {
	if m.released {
		return ErrReleased
	}
	if !m.loaded {
		return ErrNoMedia
	}
	return nil
}

// ClampSeek bounds target to [0, duration).
func ClampSeek(target, duration time.Duration) time.Duration {
	if target < 0 || duration <= 0 {
		return 0
	}
	if target >= duration {
		return max(duration-time.Millisecond, 0)
	}
	return target
}

// allowedSchemes are the stream protocols a channel URL may use.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"rtmp":  true,
	"rtmps": true,
	"rtsp":  true,
	"rtp":   true,
	"udp":   true,
	"file":  true,
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not look like flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		if !allowedSchemes[strings.ToLower(u.Scheme)] {
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
		return l, nil
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up a window title for mpv.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
