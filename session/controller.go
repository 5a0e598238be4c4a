// Package session implements the channel playback session: a single-threaded
// controller that turns remote-control keys, engine events and timer firings
// into engine commands and UI snapshots.
//
// Every Controller method must run on the control loop. Session wraps a
// Controller together with its Loop for callers on other goroutines.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tvzap/tvzap/catalog"
	"github.com/tvzap/tvzap/log"
	"github.com/tvzap/tvzap/metrics"
	"github.com/tvzap/tvzap/player"
	"github.com/tvzap/tvzap/timer"
	"github.com/tvzap/tvzap/util"
)

// Config holds what a session is built from.
type Config struct {
	Engine  player.Engine
	Surface player.Surface
	Shell   Shell
	Clock   clock.Clock
	Metrics *metrics.Metrics
	Options Options
}

// Controller is the playback state machine.
type Controller struct {
	engine  player.Engine
	surface player.Surface
	shell   Shell
	clock   clock.Clock
	metrics *metrics.Metrics
	opts    Options
	post    player.Poster
	timers  *timer.Set

	catalog     *catalog.Catalog
	state       State
	started     bool
	loadStarted time.Time
	awaitPlay   bool
	teardownErr error
}

// NewController builds a controller whose engine events and timer firings are handed to post.
func NewController(cfg Config, post func(func())) *Controller {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	c := &Controller{
		engine:  cfg.Engine,
		surface: cfg.Surface,
		shell:   cfg.Shell,
		clock:   clk,
		metrics: cfg.Metrics,
		opts:    cfg.Options.withDefaults(),
		post:    post,
		timers:  timer.New(clk, post),
		state:   newState(),
	}

	c.timers.Register(timer.ControlsAutoHide, c.onControlsTimeout)
	c.timers.Register(timer.LoadTimeout, c.onLoadTimeout)
	c.timers.Register(timer.ProgressPoll, c.onProgressPoll)
	c.timers.Register(timer.NumberEntryDebounce, c.onNumberTimeout)

	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Failure returns the LoadFailure of the current load attempt, if any.
func (c *Controller) Failure() error {
	if c.state.Failure == nil {
		return nil
	}
	return c.state.Failure
}

// TeardownError returns what went wrong while closing, if anything. It is never
// returned from Close.
func (c *Controller) TeardownError() error {
	return c.teardownErr
}

// Armed reports whether the named timer has a pending firing.
func (c *Controller) Armed(name timer.Name) bool {
	return c.timers.Armed(name)
}

// Start binds the session to cat, attaches the surface and loads the channel at position.
func (c *Controller) Start(cat *catalog.Catalog, position int) error {
	if c.state.Closed {
		return ErrClosed
	}
	if c.started {
		return ErrStarted
	}
	if cat.Len() == 0 {
		return catalog.ErrEmpty
	}
	if position < 0 || position >= cat.Len() {
		return fmt.Errorf("start position %d out of range [0, %d)", position, cat.Len())
	}

	if err := c.engine.Attach(c.surface); err != nil {
		return fmt.Errorf("attach surface: %w", err)
	}

	c.engine.Subscribe(c.post, c.onEvent)
	c.catalog = cat
	c.started = true
	c.metrics.IncSessionsStarted()
	log.Infof("session started with %d channels at position %d", cat.Len(), position)

	c.showControls()
	c.switchTo(position, metrics.CauseStart)
	c.render()
	return nil
}

// Swap replaces the catalog. The playing channel must exist in the new catalog;
// its position is resolved by id and nothing is reloaded.
func (c *Controller) Swap(cat *catalog.Catalog) error {
	if c.state.Closed {
		return ErrClosed
	}
	if cat.Len() == 0 {
		return catalog.ErrEmpty
	}

	position := Unset
	if current, ok := c.current(); ok {
		index, found := cat.FindIndexByID(current.ID).Get()
		if !found {
			return fmt.Errorf("channel %s is not in the new catalog", current)
		}
		position = index
	}

	c.catalog = cat
	c.state.Position = position
	c.state.ListFocus = max(position, 0)
	log.Infof("catalog swapped, %d channels", cat.Len())
	c.render()
	return nil
}

// HandleKey interprets one remote-control key.
func (c *Controller) HandleKey(k Key) {
	if c.state.Closed || !c.started {
		return
	}
	defer c.render()

	c.state.Notice = ""

	// A hidden overlay is woken by navigation keys without acting on them.
	if !c.state.ControlsVisible && k.IsNavigation() {
		c.showControls()
		return
	}

	if d, ok := k.Digit(); ok {
		c.appendDigit(d)
		c.showControls()
		return
	}

	switch k {
	case KeyBack:
		c.back()
		return
	case KeyChannelUp:
		c.step(1, metrics.CauseNext)
	case KeyChannelDown:
		c.step(-1, metrics.CausePrev)
	case KeyListToggle:
		c.toggleList()
	case KeyLeft:
		if c.state.ChannelListOpen {
			c.closeList()
		} else {
			c.openList()
		}
	case KeyRight:
		if c.state.ChannelListOpen {
			c.closeList()
		}
	case KeyUp:
		if c.state.ChannelListOpen {
			c.moveFocus(-1)
		}
	case KeyDown:
		if c.state.ChannelListOpen {
			c.moveFocus(1)
		}
	case KeyOK:
		if c.state.ChannelListOpen {
			c.pickFocused()
		} else {
			c.togglePlayback()
		}
	case KeyPlayPause:
		c.togglePlayback()
	case KeyFastForward:
		c.seek(c.opts.SeekStep)
	case KeyRewind:
		c.seek(-c.opts.SeekStep)
	case KeyRed:
		c.noticeForCurrent(func(ch catalog.Channel) string { return "Favourite: " + ch.Name })
	case KeyGreen:
		c.noticeForCurrent(func(ch catalog.Channel) string { return "EPG for " + ch.Name + " is not available yet" })
	case KeyYellow:
		c.audioNotice()
	case KeyBlue, KeyMenu:
		c.noticeForCurrent(channelInfo)
	default:
		log.Debugf("ignoring key %s", k)
		return
	}

	c.showControls()
}

// HandleTouch toggles the controls overlay.
func (c *Controller) HandleTouch() {
	if c.state.Closed || !c.started {
		return
	}
	defer c.render()

	if c.state.ControlsVisible {
		c.hideControls()
	} else {
		c.showControls()
	}
}

// Close cancels every timer, then detaches and releases the engine in that order.
// Teardown errors are logged and kept for TeardownError. Calling Close again does nothing.
func (c *Controller) Close() {
	if c.state.Closed {
		return
	}

	c.timers.CancelAll()
	c.state.Closed = true
	c.state.NumberEntry = ""
	c.state.ChannelListOpen = false
	c.state.ControlsVisible = false

	var errs []error
	if err := c.engine.Detach(); err != nil {
		errs = append(errs, &ResourceTeardownError{Op: "detach", Err: err})
	}
	if err := c.engine.Release(); err != nil {
		errs = append(errs, &ResourceTeardownError{Op: "release", Err: err})
	}
	for _, err := range errs {
		log.Warn(err)
		c.metrics.IncTeardownError()
	}
	c.teardownErr = errors.Join(errs...)

	if c.started {
		c.metrics.IncSessionsClosed()
	}
	log.Info("session closed")
	c.render()
}

func (c *Controller) current() (catalog.Channel, bool) {
	return c.catalog.At(c.state.Position).Get()
}

func (c *Controller) render() {
	if c.shell != nil {
		c.shell.Render(c.Snapshot())
	}
}

// switchTo is the only transition that moves playback to another channel.
func (c *Controller) switchTo(index int, cause string) {
	ch, ok := c.catalog.At(index).Get()
	if !ok {
		log.Debugf("switch to %d ignored: out of range", index)
		return
	}

	c.timers.Cancel(timer.ProgressPoll)
	c.state.Position = index
	c.state.Failure = nil
	c.state.Engine = Idle

	if err := c.engine.Load(ch.URL); err != nil {
		c.metrics.IncChannelSwitch(cause)
		c.fail(metrics.ReasonRefused, err)
		return
	}

	c.state.Engine = Loading
	c.timers.Rearm(timer.LoadTimeout, c.opts.LoadTimeout)
	c.loadStarted = c.clock.Now()
	c.awaitPlay = true
	c.metrics.IncChannelSwitch(cause)
	log.WithFields(log.Fields{
		"channel": ch.ID,
		"number":  ch.Number,
		"cause":   cause,
	}).Info("loading " + ch.Name)
}

// step moves by delta channels. Past either end it does nothing.
func (c *Controller) step(delta int, cause string) {
	next := c.state.Position + delta
	if next < 0 || next >= c.catalog.Len() {
		err := &TransientInputError{Input: cause, Reason: "already at the edge of the channel list"}
		log.Debug(err)
		return
	}
	c.switchTo(next, cause)
}

func (c *Controller) appendDigit(d int) {
	if len(c.state.NumberEntry) >= c.opts.NumberMaxDigits {
		log.Debugf("number entry full, dropping %d", d)
	} else {
		c.state.NumberEntry += strconv.Itoa(d)
	}
	c.timers.Rearm(timer.NumberEntryDebounce, c.opts.NumberTimeout)
}

func (c *Controller) showControls() {
	c.state.ControlsVisible = true
	c.timers.Rearm(timer.ControlsAutoHide, c.opts.ControlsTimeout)
}

func (c *Controller) hideControls() {
	c.state.ControlsVisible = false
	c.state.Notice = ""
	c.timers.Cancel(timer.ControlsAutoHide)
}

func (c *Controller) back() {
	switch {
	case c.state.ChannelListOpen:
		c.closeList()
		c.showControls()
	case c.state.ControlsVisible:
		c.hideControls()
	default:
		c.Close()
	}
}

func (c *Controller) toggleList() {
	if c.state.ChannelListOpen {
		c.closeList()
	} else {
		c.openList()
	}
}

// openList focuses the playing channel, resolved by id in the canonical catalog.
func (c *Controller) openList() {
	c.state.ChannelListOpen = true
	c.state.ListFocus = 0
	if ch, ok := c.current(); ok {
		c.state.ListFocus = c.catalog.FindIndexByID(ch.ID).OrElse(0)
	}
}

func (c *Controller) closeList() {
	c.state.ChannelListOpen = false
}

func (c *Controller) moveFocus(delta int) {
	c.state.ListFocus = util.Clamp(c.state.ListFocus+delta, 0, c.catalog.Len()-1)
}

func (c *Controller) pickFocused() {
	ch, ok := c.catalog.At(c.state.ListFocus).Get()
	c.closeList()
	if !ok {
		return
	}

	index, ok := c.catalog.FindIndexByID(ch.ID).Get()
	if !ok {
		return
	}
	if index == c.state.Position && c.state.Engine.Active() {
		return
	}
	c.switchTo(index, metrics.CauseList)
}

func (c *Controller) togglePlayback() {
	switch c.state.Engine {
	case Playing, Buffering:
		if err := c.engine.Pause(); err != nil {
			log.Debugf("pause: %v", err)
			return
		}
		c.state.Engine = Paused
		c.timers.Cancel(timer.ProgressPoll)
	case Paused:
		if err := c.engine.Play(); err != nil {
			log.Debugf("play: %v", err)
			return
		}
		c.state.Engine = Playing
		c.timers.Arm(timer.ProgressPoll, c.opts.ProgressInterval)
	default:
		log.Debugf("play/pause ignored while %s", c.state.Engine)
	}
}

func (c *Controller) seek(delta time.Duration) {
	switch c.state.Engine {
	case Playing, Paused, Buffering:
	default:
		log.Debugf("seek ignored while %s", c.state.Engine)
		return
	}

	if err := c.engine.SeekRelative(delta); err != nil {
		log.Debugf("seek %s: %v", delta, err)
	}
}

func (c *Controller) noticeForCurrent(text func(catalog.Channel) string) {
	if ch, ok := c.current(); ok {
		c.state.Notice = text(ch)
	}
}

func (c *Controller) audioNotice() {
	if !c.state.Engine.Active() {
		return
	}

	tracks := c.engine.AudioTracks()
	c.state.Notice = "Audio: " + util.Quantify(len(tracks), "track", "tracks")
	if len(tracks) > 0 && tracks[0].Language != "" {
		c.state.Notice += ", first is " + tracks[0].Language
	}
}

func channelInfo(ch catalog.Channel) string {
	if ch.Category == "" {
		return ch.String()
	}
	return fmt.Sprintf("%s (%s)", ch, ch.Category)
}

// applyAudioPolicy selects the lowest-index audio track. The engine may reset the
// selection on reload, so it is applied on every playback start.
func (c *Controller) applyAudioPolicy() {
	if !c.opts.AudioFirstTrack {
		return
	}

	tracks := c.engine.AudioTracks()
	if len(tracks) == 0 {
		return
	}
	if err := c.engine.SelectAudioTrack(tracks[0].ID); err != nil {
		log.Debugf("select audio track %d: %v", tracks[0].ID, err)
	}
}

func (c *Controller) fail(reason string, cause error) {
	c.timers.Cancel(timer.LoadTimeout)
	c.timers.Cancel(timer.ProgressPoll)
	c.awaitPlay = false

	ch, _ := c.current()
	c.state.Engine = Failed
	c.state.Failure = &LoadFailure{Channel: ch, Cause: cause}
	c.metrics.IncLoadFailure(reason)
	log.Error(c.state.Failure)
}

func (c *Controller) onEvent(ev player.Event) {
	if c.state.Closed {
		return
	}
	defer c.render()

	log.Debugf("engine %s while %s", ev, c.state.Engine)

	switch ev.Kind {
	case player.EventPlaying, player.EventVideoReady:
		c.onPlaying(ev.Kind)
	case player.EventBuffering:
		if c.state.Engine == Loading || c.state.Engine == Playing {
			c.state.Engine = Buffering
		}
	case player.EventEndReached:
		if c.state.Engine == Playing || c.state.Engine == Buffering {
			c.timers.Cancel(timer.LoadTimeout)
			c.timers.Cancel(timer.ProgressPoll)
			c.state.Engine = Idle
		}
	case player.EventError:
		if c.state.Engine.Active() {
			c.fail(metrics.ReasonEngine, errors.New(ev.Detail))
		}
	}
}

func (c *Controller) onPlaying(kind player.EventKind) {
	switch c.state.Engine {
	case Loading, Buffering:
		c.state.Engine = Playing
	case Playing:
	case Paused:
		if kind == player.EventPlaying {
			c.state.Engine = Playing
		}
	default:
		return
	}

	c.timers.Cancel(timer.LoadTimeout)
	if c.awaitPlay {
		c.awaitPlay = false
		c.metrics.ObserveTimeToPlay(c.clock.Since(c.loadStarted))
	}
	if c.state.Engine == Playing {
		c.timers.Arm(timer.ProgressPoll, c.opts.ProgressInterval)
	}
	c.applyAudioPolicy()
}

func (c *Controller) onLoadTimeout() {
	if c.state.Closed {
		return
	}
	if c.state.Engine != Loading && c.state.Engine != Buffering {
		return
	}

	c.fail(metrics.ReasonTimeout, ErrLoadTimeout)
	c.render()
}

func (c *Controller) onProgressPoll() {
	if c.state.Closed || c.state.Engine != Playing {
		return
	}

	c.render()
	c.timers.Rearm(timer.ProgressPoll, c.opts.ProgressInterval)
}

func (c *Controller) onNumberTimeout() {
	if c.state.Closed {
		return
	}
	defer c.render()

	digits := c.state.NumberEntry
	c.state.NumberEntry = ""

	n, err := strconv.Atoi(digits)
	if err != nil {
		return
	}

	index, ok := c.catalog.FindByNumber(n).Get()
	if !ok {
		err := &TransientInputError{Input: digits, Reason: fmt.Sprintf("channel %d not found", n)}
		c.state.Notice = util.Capitalize(err.Error())
		c.metrics.IncTransientInput()
		log.Debug(err)
		return
	}
	c.switchTo(index, metrics.CauseNumber)
}

func (c *Controller) onControlsTimeout() {
	if c.state.Closed {
		return
	}

	// The overlay stays up while the list is open.
	if c.state.ChannelListOpen {
		c.timers.Rearm(timer.ControlsAutoHide, c.opts.ControlsTimeout)
		return
	}

	c.hideControls()
	c.render()
}
