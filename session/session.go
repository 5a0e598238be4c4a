package session

import (
	"context"
	"sync"

	"github.com/tvzap/tvzap/catalog"
)

// Session owns a controller and the loop it runs on. Its methods may be called
// from any goroutine except the loop itself, i.e. not from Shell.Render.
type Session struct {
	loop      *Loop
	ctrl      *Controller
	cancel    context.CancelFunc
	closeOnce sync.Once
	err       error
}

// New starts the control loop. The session does nothing until Start.
func New(cfg Config) *Session {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		loop:   loop,
		ctrl:   NewController(cfg, loop.Post),
		cancel: cancel,
	}

	go loop.Run(ctx)
	return s
}

// Start loads the channel at position of cat.
func (s *Session) Start(cat *catalog.Catalog, position int) error {
	var err error
	if !s.loop.Do(func() { err = s.ctrl.Start(cat, position) }) {
		return ErrClosed
	}
	return err
}

// Swap replaces the catalog without interrupting playback.
func (s *Session) Swap(cat *catalog.Catalog) error {
	var err error
	if !s.loop.Do(func() { err = s.ctrl.Swap(cat) }) {
		return ErrClosed
	}
	return err
}

// OnKey forwards a remote-control key. It does not wait for the key to be handled.
func (s *Session) OnKey(k Key) {
	s.loop.Post(func() { s.ctrl.HandleKey(k) })
}

// OnTouch toggles the controls overlay.
func (s *Session) OnTouch() {
	s.loop.Post(s.ctrl.HandleTouch)
}

// Snapshot returns the current snapshot, or a closed one after Close.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Closed: true}
	s.loop.Do(func() { snap = s.ctrl.Snapshot() })
	return snap
}

// Close tears the engine down and stops the loop. When Close returns the engine
// has been detached and released.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.loop.Do(func() {
			s.ctrl.Close()
			s.err = s.ctrl.TeardownError()
		})
		s.cancel()
		<-s.loop.Done()
	})
}

// Err returns the teardown error swallowed by Close. Only meaningful after Close.
func (s *Session) Err() error {
	return s.err
}
