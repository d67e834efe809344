package pacer

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDebounceScenario(t *testing.T) {
	Convey("Given a debouncer with a 500ms wait", t, func() {
		clk := clock.NewMock()
		rec := &recorder[string]{}
		d, err := NewDebouncer(rec.record, 500*time.Millisecond, WithClock(clk))
		So(err, ShouldBeNil)

		Convey("When calls arrive at t=0, 100, 200 and 300", func() {
			d.Call("t0")
			clk.Add(100 * time.Millisecond)
			d.Call("t100")
			clk.Add(100 * time.Millisecond)
			d.Call("t200")
			clk.Add(100 * time.Millisecond)
			d.Call("t300")

			Convey("Then nothing has fired by t=799", func() {
				clk.Add(499 * time.Millisecond)
				So(rec.snapshot(), ShouldBeEmpty)

				Convey("And exactly one call fires at t=800 with the t=300 value", func() {
					clk.Add(1 * time.Millisecond)
					So(rec.snapshot(), ShouldResemble, []string{"t300"})
				})
			})
		})
	})
}

func TestDebounceLeadingScenario(t *testing.T) {
	Convey("Given a leading-edge debouncer with a 500ms wait", t, func() {
		clk := clock.NewMock()
		rec := &recorder[string]{}
		d, err := NewDebouncer(rec.record, 500*time.Millisecond, WithClock(clk), WithLeading())
		So(err, ShouldBeNil)

		Convey("When a call arrives at t=0", func() {
			d.Call("t0")
			clk.Add(0)

			Convey("Then it fires immediately with its own value", func() {
				So(rec.snapshot(), ShouldResemble, []string{"t0"})

				Convey("And a call at t=100 produces no additional invocation", func() {
					clk.Add(100 * time.Millisecond)
					d.Call("t100")
					clk.Add(0)
					So(rec.snapshot(), ShouldResemble, []string{"t0"})
				})
			})
		})
	})
}

func TestThrottleScenario(t *testing.T) {
	Convey("Given a throttler with a 1s interval", t, func() {
		clk := clock.NewMock()
		rec := &recorder[string]{}
		th, err := NewThrottler(rec.record, time.Second, WithClock(clk))
		So(err, ShouldBeNil)

		Convey("When calls arrive at t=0, 100 and 200", func() {
			th.Call("t0")
			clk.Add(100 * time.Millisecond)
			th.Call("t100")
			clk.Add(100 * time.Millisecond)
			th.Call("t200")

			Convey("Then only the t=0 call fired", func() {
				So(rec.snapshot(), ShouldResemble, []string{"t0"})

				Convey("And a call at t=1100 fires again immediately", func() {
					clk.Add(900 * time.Millisecond)
					th.Call("t1100")
					So(rec.snapshot(), ShouldResemble, []string{"t0", "t1100"})
				})
			})
		})
	})
}

func TestThrottleTrailingScenario(t *testing.T) {
	Convey("Given a trailing throttler with a 1s interval", t, func() {
		clk := clock.NewMock()
		rec := &recorder[string]{}
		th, err := NewThrottler(rec.record, time.Second, WithClock(clk), WithTrailing())
		So(err, ShouldBeNil)

		Convey("When calls arrive at t=0 and t=500", func() {
			th.Call("t0")
			clk.Add(500 * time.Millisecond)
			th.Call("t500")

			Convey("Then the leading fire used the t=0 value", func() {
				So(rec.snapshot(), ShouldResemble, []string{"t0"})

				Convey("And the trailing fire at t=1000 used the t=500 value", func() {
					clk.Add(500 * time.Millisecond)
					So(rec.snapshot(), ShouldResemble, []string{"t0", "t500"})
				})
			})
		})
	})
}
