package fake

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvzap/tvzap/player"
)

func TestEngine(t *testing.T) {
	Convey("Given a fake engine", t, func() {
		e := New()

		Convey("Commands before Load fail with ErrNoMedia", func() {
			So(e.Play(), ShouldEqual, player.ErrNoMedia)
			So(e.SeekRelative(time.Second), ShouldEqual, player.ErrNoMedia)
			So(e.Calls(), ShouldBeEmpty)
		})

		Convey("When media is loaded", func() {
			So(e.Load("http://tv/1"), ShouldBeNil)

			Convey("Commands are recorded in order", func() {
				So(e.Attach(player.Window{Title: "tv"}), ShouldBeNil)
				So(e.Pause(), ShouldBeNil)
				So(e.SelectAudioTrack(2), ShouldBeNil)
				So(e.Calls(), ShouldResemble, []Call{
					{Op: "load", Arg: "http://tv/1"},
					{Op: "attach", Arg: "tv"},
					{Op: "pause"},
					{Op: "audio", Arg: "2"},
				})
			})

			Convey("Seeking without a duration keeps the position unknown", func() {
				So(e.SeekRelative(5*time.Second), ShouldBeNil)
				So(e.Position().IsAbsent(), ShouldBeTrue)
			})

			Convey("Seeking is clamped to the media", func() {
				e.SetDuration(time.Minute)
				e.SetPosition(58 * time.Second)
				So(e.SeekRelative(5*time.Second), ShouldBeNil)
				So(e.Position().MustGet(), ShouldEqual, time.Minute-time.Millisecond)
				So(e.SeekRelative(-2*time.Minute), ShouldBeNil)
				So(e.Position().MustGet(), ShouldEqual, time.Duration(0))
			})

			Convey("Detach is recorded once", func() {
				_ = e.Attach(nil)
				So(e.Detach(), ShouldBeNil)
				So(e.Detach(), ShouldBeNil)
				So(e.Ops(), ShouldResemble, []string{"load", "attach", "detach"})
			})

			Convey("After Release everything is refused", func() {
				So(e.Release(), ShouldBeNil)
				So(e.Release(), ShouldBeNil)
				So(e.Load("http://tv/2"), ShouldEqual, player.ErrReleased)
				So(e.Detach(), ShouldEqual, player.ErrReleased)
				So(e.Ops(), ShouldResemble, []string{"load", "release"})
			})
		})

		Convey("A failing Load is still recorded", func() {
			boom := errors.New("boom")
			e.FailLoad(boom)
			So(e.Load("http://tv/1"), ShouldEqual, boom)
			So(e.Play(), ShouldEqual, player.ErrNoMedia)
			So(e.Ops(), ShouldResemble, []string{"load"})
		})

		Convey("Emit goes through the subscriber's poster", func() {
			var posted int
			var got []player.Event
			e.Subscribe(func(f func()) { posted++; f() }, func(ev player.Event) { got = append(got, ev) })

			e.Emit(player.Event{Kind: player.EventPlaying})
			So(posted, ShouldEqual, 1)
			So(got, ShouldResemble, []player.Event{{Kind: player.EventPlaying}})

			_ = e.Release()
			e.Emit(player.Event{Kind: player.EventError})
			So(posted, ShouldEqual, 1)
		})

		Convey("Auto-play reports playback after every successful Load", func() {
			var queued []func()
			var got []player.Event
			e.Subscribe(func(f func()) { queued = append(queued, f) }, func(ev player.Event) { got = append(got, ev) })
			e.SetAutoPlay(true)

			So(e.Load("http://tv/1"), ShouldBeNil)
			So(queued, ShouldHaveLength, 1)
			queued[0]()
			So(got, ShouldResemble, []player.Event{{Kind: player.EventPlaying}})

			e.FailLoad(errors.New("boom"))
			So(e.Load("http://tv/2"), ShouldNotBeNil)
			So(queued, ShouldHaveLength, 1)
		})
	})
}
