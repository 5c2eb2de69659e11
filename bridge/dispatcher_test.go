package bridge

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func TestDispatcher(t *testing.T) {
	Convey("Given a dispatcher", t, func() {
		fake := enginetest.NewFake()
		handle := NewHandle(fake)
		errs := NewChannel[ListenEvent]()
		dispatcher := NewDispatcher(handle, errs)

		Convey("When many commands are dispatched concurrently", func() {
			fake.SetCallDelay(2 * time.Millisecond)

			const n = 24
			for i := 0; i < n; i++ {
				if i%2 == 0 {
					dispatcher.DispatchCommand(ShowText("hello", time.Second))
				} else {
					dispatcher.DispatchSetProperty(PropVolume, 50+i)
				}
			}
			dispatcher.Wait()

			Convey("Then every call ran without interleaving with another", func() {
				So(fake.Overlaps(), ShouldEqual, 0)

				calls := fake.Calls()
				So(len(calls), ShouldEqual, n)
				So(lo.Count(calls, "show-text"), ShouldEqual, n/2)
				So(lo.Count(calls, "volume"), ShouldEqual, n/2)
			})
		})

		Convey("When the engine is slow", func() {
			fake.SetCallDelay(100 * time.Millisecond)

			start := time.Now()
			for i := 0; i < 5; i++ {
				dispatcher.DispatchCommand(CyclePause())
			}
			elapsed := time.Since(start)
			dispatcher.Wait()

			Convey("Then dispatching does not wait for it", func() {
				So(elapsed, ShouldBeLessThan, 50*time.Millisecond)
				So(len(fake.Calls()), ShouldEqual, 5)
			})
		})

		Convey("When a property is dispatched with a plain int", func() {
			dispatcher.DispatchSetProperty(PropVolume, 42)
			dispatcher.Wait()

			Convey("Then it is written as int64", func() {
				v, err := fake.GetProperty("volume", engine.FormatInt64)
				So(err, ShouldBeNil)
				So(v, ShouldEqual, int64(42))
			})
		})

		Convey("When a command fails", func() {
			fake.FailOn("seek", errors.New("no file loaded"))
			dispatcher.DispatchCommand(Seek(10, SeekRelative))
			dispatcher.Wait()

			Convey("Then the failure is routed as an error event", func() {
				events := errs.Drain()
				So(len(events), ShouldEqual, 1)

				ev, ok := events[0].(ErrorEvent)
				So(ok, ShouldBeTrue)
				So(strings.Contains(ev.Message, "command seek"), ShouldBeTrue)
				So(strings.Contains(ev.Message, "no file loaded"), ShouldBeTrue)
			})
		})

		Convey("When errors are not reported", func() {
			silent := NewDispatcher(handle, nil)
			fake.FailOn("seek", errors.New("no file loaded"))
			silent.DispatchCommand(Seek(10, SeekRelative))
			silent.Wait()

			Convey("Then nothing reaches the channel", func() {
				So(errs.Len(), ShouldEqual, 0)
			})
		})
	})
}
