package timer

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/smartystreets/goconvey/convey"
)

// drain runs posted firings until none arrive for a short while.
// The mock clock starts AfterFunc callbacks on their own goroutines.
func drain(fired chan func()) int {
	n := 0
	for {
		select {
		case f := <-fired:
			f()
			n++
		case <-time.After(50 * time.Millisecond):
			return n
		}
	}
}

func TestSet(t *testing.T) {
	Convey("Given a timer set on a mock clock", t, func() {
		clk := clock.NewMock()
		fired := make(chan func(), 16)
		set := New(clk, func(f func()) { fired <- f })

		calls := map[Name]int{}
		for _, name := range Names {
			name := name
			set.Register(name, func() { calls[name]++ })
		}

		Convey("An armed timer fires once after its delay", func() {
			set.Arm(LoadTimeout, 10*time.Second)
			So(set.Armed(LoadTimeout), ShouldBeTrue)

			clk.Add(9 * time.Second)
			drain(fired)
			So(calls[LoadTimeout], ShouldEqual, 0)

			clk.Add(time.Second)
			drain(fired)
			So(calls[LoadTimeout], ShouldEqual, 1)
			So(set.Armed(LoadTimeout), ShouldBeFalse)

			clk.Add(time.Minute)
			drain(fired)
			So(calls[LoadTimeout], ShouldEqual, 1)
		})

		Convey("Arm keeps the pending deadline", func() {
			set.Arm(ControlsAutoHide, 5*time.Second)
			clk.Add(3 * time.Second)
			set.Arm(ControlsAutoHide, 5*time.Second)
			clk.Add(2 * time.Second)
			drain(fired)
			So(calls[ControlsAutoHide], ShouldEqual, 1)
		})

		Convey("Rearm restarts the delay", func() {
			set.Arm(ControlsAutoHide, 5*time.Second)
			clk.Add(3 * time.Second)
			set.Rearm(ControlsAutoHide, 5*time.Second)
			clk.Add(2 * time.Second)
			drain(fired)
			So(calls[ControlsAutoHide], ShouldEqual, 0)

			clk.Add(3 * time.Second)
			drain(fired)
			So(calls[ControlsAutoHide], ShouldEqual, 1)
		})

		Convey("A cancelled timer never fires", func() {
			set.Arm(NumberEntryDebounce, 2*time.Second)
			set.Cancel(NumberEntryDebounce)
			So(set.Armed(NumberEntryDebounce), ShouldBeFalse)

			clk.Add(time.Minute)
			So(drain(fired), ShouldEqual, 0)
			So(calls[NumberEntryDebounce], ShouldEqual, 0)
		})

		Convey("A firing already handed off is dropped when cancelled before it runs", func() {
			set.Arm(LoadTimeout, time.Second)
			clk.Add(time.Second)
			set.Cancel(LoadTimeout)

			So(drain(fired), ShouldEqual, 1)
			So(calls[LoadTimeout], ShouldEqual, 0)
		})

		Convey("A firing already handed off is dropped when rearmed before it runs", func() {
			set.Arm(LoadTimeout, time.Second)
			clk.Add(time.Second)
			set.Rearm(LoadTimeout, time.Second)

			drain(fired)
			So(calls[LoadTimeout], ShouldEqual, 0)
			So(set.Armed(LoadTimeout), ShouldBeTrue)

			clk.Add(time.Second)
			drain(fired)
			So(calls[LoadTimeout], ShouldEqual, 1)
		})

		Convey("A timer may rearm itself from its own callback", func() {
			ticks := 0
			set.Register(ProgressPoll, func() {
				ticks++
				set.Rearm(ProgressPoll, time.Second)
			})
			set.Arm(ProgressPoll, time.Second)

			for i := 0; i < 3; i++ {
				clk.Add(time.Second)
				drain(fired)
			}
			So(ticks, ShouldEqual, 3)
			So(set.Armed(ProgressPoll), ShouldBeTrue)
		})

		Convey("CancelAll silences every timer", func() {
			for _, name := range Names {
				set.Arm(name, time.Second)
			}
			set.CancelAll()
			for _, name := range Names {
				So(set.Armed(name), ShouldBeFalse)
			}

			clk.Add(time.Minute)
			So(drain(fired), ShouldEqual, 0)
		})
	})

	Convey("Given a set without registrations", t, func() {
		set := New(clock.NewMock(), func(f func()) { f() })

		Convey("Arming an unknown timer does nothing", func() {
			set.Arm(LoadTimeout, time.Second)
			So(set.Armed(LoadTimeout), ShouldBeFalse)
		})
	})
}

func TestName(t *testing.T) {
	Convey("Timer names are printable", t, func() {
		So(ControlsAutoHide.String(), ShouldEqual, "controls-auto-hide")
		So(NumberEntryDebounce.String(), ShouldEqual, "number-entry-debounce")
		So(Name(42).String(), ShouldEqual, "timer(42)")
	})
}
