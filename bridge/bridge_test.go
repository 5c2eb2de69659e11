package bridge

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func TestClock(t *testing.T) {
	Convey("Given a clock", t, func() {
		fake := enginetest.NewFake()
		handle := NewHandle(fake)
		clock := NewClock(handle)

		Convey("Nothing is playing", func() {
			_, err := clock.Now()
			So(errors.Is(err, engine.ErrPropertyMissing), ShouldBeTrue)
			So(clock.Cached(), ShouldEqual, 0)
		})

		Convey("A file started at 42 seconds", func() {
			err := handle.With("load", func(eng engine.Engine) error {
				return eng.Command(LoadFile("file.mp4", LoadReplace, "start=42").Args()...)
			})
			So(err, ShouldBeNil)

			now, err := clock.Now()
			So(err, ShouldBeNil)
			So(now, ShouldEqual, 42*time.Second)
			So(clock.Cached(), ShouldEqual, 42*time.Second)

			Convey("Failed reads fall back to the last position", func() {
				handle.Destroy()
				now, err := clock.Now()
				So(errors.Is(err, ErrDestroyed), ShouldBeTrue)
				So(now, ShouldEqual, 42*time.Second)
			})
		})
	})
}

func TestBridge(t *testing.T) {
	Convey("Given a running bridge with a realized surface", t, func() {
		fake := enginetest.NewFake()
		b := New(fake, Options{PollTimeout: testPollTimeout, ReportCommandErrors: true})
		So(b.Start(), ShouldBeNil)
		So(b.Render().OnRealize(&fakeSurface{}), ShouldBeNil)
		b.Arm()

		Reset(func() {
			b.Close()
		})

		Convey("Draining folds events into the model", func() {
			b.Command(LoadFile("file.mp4", LoadReplace))

			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				b.Drain()
				if s := b.Model().Snapshot(); s.Duration.IsPresent() && len(s.Tracks) > 0 {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}

			s := b.Model().Snapshot()
			So(s.Loaded, ShouldBeTrue)
			So(s.Duration.OrEmpty(), ShouldEqual, 120*time.Second)
			So(len(s.Tracks.Audio()), ShouldEqual, 2)
			So(len(s.Tracks.Subtitles()), ShouldEqual, 1)
		})

		Convey("Command failures surface as error events", func() {
			fake.FailOn("seek", errors.New("no file"))
			b.Command(Seek(5, SeekRelative))

			_, ok := collect(b.Events(), 2*time.Second, is[ErrorEvent])
			So(ok, ShouldBeTrue)
		})

		Convey("When closed", func() {
			ctx := fake.Renders()[0]
			b.Close()
			b.Close()

			Convey("Then everything is torn down in order", func() {
				So(ctx.Freed(), ShouldBeTrue)
				So(ctx.FreedWithCallback(), ShouldBeFalse)
				So(fake.Destroyed(), ShouldBeTrue)
				So(b.Gate().Armed(), ShouldBeFalse)

				select {
				case <-b.listener.Done():
				default:
					So("listener still running", ShouldBeEmpty)
				}
			})

			Convey("Then the channels are closed", func() {
				So(b.Events().Push(ShutdownEvent{}), ShouldBeFalse)
				So(b.Render().Updates().Push(RenderUpdate{}), ShouldBeFalse)
			})

			Convey("Then late dispatches are harmless", func() {
				b.Command(Stop())
				b.dispatcher.Wait()
				So(b.Poisoned(), ShouldBeFalse)
			})
		})
	})

	Convey("A bridge that was never started closes cleanly", t, func() {
		fake := enginetest.NewFake()
		b := New(fake, Options{})

		done := make(chan struct{})
		go func() {
			b.Close()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			So("close hung", ShouldBeEmpty)
		}
		So(fake.Destroyed(), ShouldBeTrue)
	})
}
