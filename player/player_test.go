package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func msg(raw string) mpvMessage {
	var m mpvMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		panic(err)
	}
	return m
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker for a freshly loaded source", t, func() {
		var tr tracker
		tr.reset()

		Convey("Buffering then playing yields one event per transition", func() {
			var got []Event
			got = append(got, tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":true}`))...)
			got = append(got, tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":true}`))...)
			got = append(got, tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":false}`))...)
			got = append(got, tr.observe(msg(`{"event":"playback-restart"}`))...)
			So(kinds(got), ShouldResemble, []EventKind{EventBuffering, EventPlaying})
		})

		Convey("Video output configuration is reported as ready", func() {
			So(kinds(tr.observe(msg(`{"event":"property-change","name":"vo-configured","data":true}`))), ShouldResemble, []EventKind{EventVideoReady})
			So(tr.observe(msg(`{"event":"property-change","name":"vo-configured","data":false}`)), ShouldBeEmpty)
		})

		Convey("A failed file is an error carrying mpv's detail", func() {
			got := tr.observe(msg(`{"event":"end-file","reason":"error","file_error":"loading failed"}`))
			So(got, ShouldHaveLength, 1)
			So(got[0].Kind, ShouldEqual, EventError)
			So(got[0].Detail, ShouldEqual, "loading failed")
		})

		Convey("End of file is reported once", func() {
			var got []Event
			got = append(got, tr.observe(msg(`{"event":"property-change","name":"eof-reached","data":true}`))...)
			got = append(got, tr.observe(msg(`{"event":"end-file","reason":"eof"}`))...)
			So(kinds(got), ShouldResemble, []EventKind{EventEndReached})
		})

		Convey("A replaced file's end is not an event", func() {
			So(tr.observe(msg(`{"event":"end-file","reason":"stop"}`)), ShouldBeEmpty)
		})

		Convey("Position and duration are unknown until reported", func() {
			So(tr.position.IsAbsent(), ShouldBeTrue)
			tr.observe(msg(`{"event":"property-change","name":"time-pos","data":12.5}`))
			tr.observe(msg(`{"event":"property-change","name":"duration","data":null}`))
			So(tr.position.MustGet(), ShouldEqual, 12500*time.Millisecond)
			So(tr.duration.IsAbsent(), ShouldBeTrue)
		})

		Convey("Only audio tracks are kept, in engine order", func() {
			tr.observe(msg(`{"event":"property-change","name":"track-list","data":[
				{"id":1,"type":"video"},
				{"id":2,"type":"audio","lang":"spa"},
				{"id":3,"type":"audio","lang":"eng","title":"Commentary"}
			]}`))
			So(tr.tracks, ShouldResemble, []Track{{ID: 2, Language: "spa"}, {ID: 3, Language: "eng", Title: "Commentary"}})
		})

		Convey("A paused stream leaving the cache does not claim to play", func() {
			tr.observe(msg(`{"event":"property-change","name":"pause","data":true}`))
			tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":true}`))
			So(tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":false}`)), ShouldBeEmpty)
		})

		Convey("The old file's cache flag turning unavailable is not playback", func() {
			tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":false}`))
			tr.reset()
			So(tr.observe(msg(`{"event":"property-change","name":"paused-for-cache"}`)), ShouldBeEmpty)
			So(tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":null}`)), ShouldBeEmpty)
			So(tr.observe(msg(`{"event":"property-change","name":"pause"}`)), ShouldBeEmpty)
		})

		Convey("Leaving a cache wait that never started is not playback", func() {
			So(tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":false}`)), ShouldBeEmpty)
			So(kinds(tr.observe(msg(`{"event":"playback-restart"}`))), ShouldResemble, []EventKind{EventPlaying})
		})

		Convey("A position turning unavailable is forgotten", func() {
			tr.observe(msg(`{"event":"property-change","name":"time-pos","data":3}`))
			tr.observe(msg(`{"event":"property-change","name":"time-pos"}`))
			So(tr.position.IsAbsent(), ShouldBeTrue)
		})

		Convey("A garbled track list keeps the previous tracks", func() {
			tr.observe(msg(`{"event":"property-change","name":"track-list","data":[{"id":2,"type":"audio"}]}`))
			tr.observe(msg(`{"event":"property-change","name":"track-list","data":{"id":"x"}}`))
			So(tr.tracks, ShouldResemble, []Track{{ID: 2}})
		})
	})

	Convey("Given an idle tracker", t, func() {
		var tr tracker

		Convey("State events are ignored until a source is loaded", func() {
			So(tr.observe(msg(`{"event":"property-change","name":"paused-for-cache","data":true}`)), ShouldBeEmpty)
			So(tr.observe(msg(`{"event":"end-file","reason":"error"}`)), ShouldBeEmpty)
		})
	})
}

func TestClampSeek(t *testing.T) {
	Convey("ClampSeek", t, func() {
		So(ClampSeek(-time.Second, time.Minute), ShouldEqual, time.Duration(0))
		So(ClampSeek(30*time.Second, time.Minute), ShouldEqual, 30*time.Second)
		So(ClampSeek(2*time.Minute, time.Minute), ShouldEqual, time.Minute-time.Millisecond)
		So(ClampSeek(time.Second, 0), ShouldEqual, time.Duration(0))
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Accepts stream protocols", func() {
			for _, u := range []string{"http://a/b.m3u8", "https://a/b", "rtmp://a/live", "udp://@239.0.0.1:1234"} {
				got, err := sanitizeMediaTarget(" " + u + " ")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, u)
			}
		})

		Convey("Rejects flag injection and control characters", func() {
			for _, u := range []string{"", "--script=evil.lua", "http://a/\nb", "ftp://a/b"} {
				_, err := sanitizeMediaTarget(u)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Cleans local paths", func() {
			got, err := sanitizeMediaTarget("/srv/tv/../tv/ch1.ts")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/srv/tv/ch1.ts")
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an mpv-like IPC socket", t, func() {
		socket := filepath.Join(t.TempDir(), "mpv.sock")
		ln, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		defer ln.Close()

		observed := make(chan string, len(observedProperties))
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			reader := bufio.NewReader(conn)
			for range observedProperties {
				line, err := reader.ReadBytes('\n')
				if err != nil {
					return
				}
				var cmd ipcCommand
				_ = json.Unmarshal(line, &cmd)
				observed <- cmd.Command[2].(string)
			}

			_, _ = conn.Write([]byte(`{"request_id":0,"error":"success"}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","name":"pause","data":false}` + "\n"))
			_, _ = reader.ReadBytes('\n') // block until the listener hangs up
		}()

		received := make(chan mpvMessage, 4)
		el := NewEventListener(socket, func(m mpvMessage) { received <- m })
		So(el.Start(), ShouldBeNil)

		Convey("Observers are registered on the event connection", func() {
			for _, name := range observedProperties {
				So(<-observed, ShouldEqual, name)
			}
		})

		Convey("Events are delivered and replies skipped", func() {
			first := <-received
			second := <-received
			So(first.Event, ShouldEqual, "playback-restart")
			So(second.Name, ShouldEqual, "pause")
		})

		Reset(func() {
			el.Stop()
		})
	})
}

// serveOnce answers a single command on socket with reply, after an unrelated
// event and a stale reply. The request id is echoed back.
func serveOnce(ln net.Listener, reply string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return
	}
	var cmd ipcCommand
	_ = json.Unmarshal(line, &cmd)

	_, _ = conn.Write([]byte(`{"event":"idle"}` + "\n"))
	_, _ = conn.Write([]byte(`{"request_id":-1,"error":"success","data":"stale"}` + "\n"))
	_, _ = fmt.Fprintf(conn, reply+"\n", cmd.RequestID)
}

func TestRoundTrip(t *testing.T) {
	Convey("Given an mpv-like command socket", t, func() {
		socket := filepath.Join(t.TempDir(), "cmd.sock")
		ln, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		Reset(func() { _ = ln.Close() })

		Convey("The reply matching the request id is returned", func() {
			go serveOnce(ln, `{"request_id":%d,"error":"success","data":42.5}`)

			data, err := roundTrip(socket, []any{"get_property", "time-pos"})
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 42.5)
		})

		Convey("A refusal comes back as MpvError", func() {
			go serveOnce(ln, `{"request_id":%d,"error":"property unavailable"}`)

			_, err := roundTrip(socket, []any{"get_property", "duration"})
			So(err, ShouldNotBeNil)
			mpvErr, ok := err.(*MpvError)
			So(ok, ShouldBeTrue)
			So(mpvErr.Command, ShouldEqual, "get_property")
			So(mpvErr.Reason, ShouldEqual, "property unavailable")
		})
	})

	Convey("A missing socket is a connection error", t, func() {
		_, err := roundTrip(filepath.Join(t.TempDir(), "gone.sock"), []any{"quit"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "connect")
	})
}

// mpvDouble answers every command on its socket like an idle mpv and records
// them. Broadcast lines reach every open connection.
type mpvDouble struct {
	ln       net.Listener
	mu       sync.Mutex
	commands [][]any
	conns    []net.Conn
}

func newMpvDouble(socket string) (*mpvDouble, error) {
	ln, err := net.Listen("unix", socket)
	if err != nil {
		return nil, err
	}
	d := &mpvDouble{ln: ln}
	go d.serve()
	return d, nil
}

func (d *mpvDouble) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns = append(d.conns, conn)
		d.mu.Unlock()
		go d.handle(conn)
	}
}

func (d *mpvDouble) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}
		d.mu.Lock()
		d.commands = append(d.commands, cmd.Command)
		d.mu.Unlock()

		if _, err := fmt.Fprintf(conn, `{"request_id":%d,"error":"success"}`+"\n", cmd.RequestID); err != nil {
			return
		}
	}
}

func (d *mpvDouble) broadcast(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, conn := range d.conns {
		_, _ = conn.Write([]byte(line + "\n"))
	}
}

// sent lists the commands received so far, arguments joined by spaces.
func (d *mpvDouble) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return lo.Map(d.commands, func(cmd []any, _ int) string {
		return strings.Join(lo.Map(cmd, func(arg any, _ int) string { return fmt.Sprint(arg) }), " ")
	})
}

func (d *mpvDouble) Close() {
	_ = d.ln.Close()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, conn := range d.conns {
		_ = conn.Close()
	}
}

// stubMpv is an executable that idles like `mpv --idle` without a window.
func stubMpv(dir string) (string, error) {
	path := filepath.Join(dir, "mpv")
	return path, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestMPVOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets and sh only")
	}

	Convey("Given an mpv binary serving its IPC socket", t, func() {
		dir := t.TempDir()
		binary, err := stubMpv(dir)
		So(err, ShouldBeNil)

		socket := filepath.Join(dir, "mpv.sock")
		double, err := newMpvDouble(socket)
		So(err, ShouldBeNil)
		Reset(double.Close)

		m := NewMPV(binary)
		m.socketPath = socket
		m.quitWait = 100 * time.Millisecond

		events := make(chan Event, 8)
		m.Subscribe(func(fn func()) { fn() }, func(ev Event) { events <- ev })

		So(m.Open("tvzap"), ShouldBeNil)
		Reset(func() { _ = m.Release() })

		Convey("Observers are registered and queued commands reach mpv", func() {
			So(m.Attach(Window{Title: "tv"}), ShouldBeNil)
			So(m.Load("http://example.com/live.m3u8"), ShouldBeNil)

			So(waitFor(func() bool {
				return lo.Contains(double.sent(), "set_property pause false")
			}), ShouldBeTrue)

			sent := double.sent()
			So(sent, ShouldContain, "observe_property 2 paused-for-cache")
			So(sent, ShouldContain, "set_property vid auto")
			So(sent, ShouldContain, "loadfile http://example.com/live.m3u8 replace")
		})

		Convey("Events from mpv arrive through the subscription", func() {
			So(m.Load("http://example.com/live.m3u8"), ShouldBeNil)
			So(waitFor(func() bool { return len(double.sent()) >= len(observedProperties) }), ShouldBeTrue)

			double.broadcast(`{"event":"playback-restart"}`)
			select {
			case ev := <-events:
				So(ev.Kind, ShouldEqual, EventPlaying)
			case <-time.After(3 * time.Second):
				So("no event from mpv", ShouldBeEmpty)
			}
		})

		Convey("Release asks mpv to quit and stops the process", func() {
			So(m.Release(), ShouldBeNil)
			So(double.sent(), ShouldContain, "quit")
			So(waitFor(func() bool {
				select {
				case <-m.exited:
					return true
				default:
					return false
				}
			}), ShouldBeTrue)
		})
	})

	Convey("A binary that never opens the socket fails Open", t, func() {
		dir := t.TempDir()
		binary, err := stubMpv(dir)
		So(err, ShouldBeNil)

		m := NewMPV(binary)
		m.socketPath = filepath.Join(dir, "never.sock")

		So(m.Open("tvzap"), ShouldNotBeNil)
		So(waitFor(func() bool {
			select {
			case <-m.exited:
				return true
			default:
				return false
			}
		}), ShouldBeTrue)
	})
}

func TestMPVContract(t *testing.T) {
	Convey("Given an mpv engine that was never opened", t, func() {
		m := NewMPV("")

		Convey("Unsafe targets are refused and nothing is queued", func() {
			So(m.Load("--script=evil.lua"), ShouldNotBeNil)
			So(m.Load("ftp://example.com/a.ts"), ShouldNotBeNil)
			So(m.Load(""), ShouldNotBeNil)
			So(m.queue, ShouldHaveLength, 0)
		})

		Convey("Play, pause, seek and track selection need media", func() {
			So(m.Play(), ShouldEqual, ErrNoMedia)
			So(m.Pause(), ShouldEqual, ErrNoMedia)
			So(m.SeekRelative(5*time.Second), ShouldEqual, ErrNoMedia)
			So(m.SelectAudioTrack(1), ShouldEqual, ErrNoMedia)
		})

		Convey("Load forgets the previous source", func() {
			m.state.position = mo.Some(40 * time.Second)
			m.state.duration = mo.Some(time.Minute)
			m.state.tracks = []Track{{ID: 1}}

			So(m.Load("http://example.com/next.m3u8"), ShouldBeNil)
			So(m.Position().IsAbsent(), ShouldBeTrue)
			So(m.Duration().IsAbsent(), ShouldBeTrue)
			So(m.AudioTracks(), ShouldBeEmpty)
			So(m.Play(), ShouldBeNil)
		})

		Convey("Seeking without a known duration has no effect", func() {
			So(m.Load("http://example.com/live.m3u8"), ShouldBeNil)
			queued := len(m.queue)

			So(m.SeekRelative(5*time.Second), ShouldBeNil)
			So(m.queue, ShouldHaveLength, queued)

			m.state.duration = mo.Some(time.Minute)
			m.state.position = mo.Some(58 * time.Second)
			So(m.SeekRelative(5*time.Second), ShouldBeNil)
			So(m.queue, ShouldHaveLength, queued+1)
		})

		Convey("Detach is safe before attach and when repeated", func() {
			So(m.Detach(), ShouldBeNil)
			So(m.Attach(Window{Title: "tv"}), ShouldBeNil)
			So(m.Detach(), ShouldBeNil)
			So(m.Detach(), ShouldBeNil)
		})

		Convey("Release is idempotent and final", func() {
			So(m.Detach(), ShouldBeNil)
			So(m.Release(), ShouldBeNil)
			So(m.Release(), ShouldBeNil)

			So(m.Load("http://example.com/live.m3u8"), ShouldEqual, ErrReleased)
			So(m.Play(), ShouldEqual, ErrReleased)
			So(m.Attach(Window{Title: "tv"}), ShouldEqual, ErrReleased)
			So(m.Detach(), ShouldEqual, ErrReleased)
		})
	})
}
