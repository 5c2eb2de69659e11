package bridge

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func TestRenderBridge(t *testing.T) {
	Convey("Given a render bridge", t, func() {
		fake := enginetest.NewFake()
		handle := NewHandle(fake)
		render := NewRenderBridge(handle)
		first := &fakeSurface{fbo: 1}

		Convey("Rendering before realize fails", func() {
			So(errors.Is(render.Render(0, 640, 480, true), ErrUnrealized), ShouldBeTrue)
			So(errors.Is(render.RenderSurface(), ErrUnrealized), ShouldBeTrue)
			So(render.Pump(), ShouldBeFalse)
		})

		Convey("When realized on a surface", func() {
			So(render.OnRealize(first), ShouldBeNil)
			So(render.Realized(), ShouldBeTrue)
			ctx := fake.Renders()[0]

			Convey("Then one callback is registered", func() {
				So(ctx.Registrations(), ShouldEqual, 1)
				So(ctx.HasCallback(), ShouldBeTrue)
			})

			Convey("Then a new frame queues exactly one redraw", func() {
				fake.FrameReady()
				fake.FrameReady()
				So(render.Updates().Len(), ShouldEqual, 2)

				So(render.Pump(), ShouldBeTrue)
				So(first.queued.Load(), ShouldEqual, 1)
				So(render.Pump(), ShouldBeFalse)

				So(render.RenderSurface(), ShouldBeNil)
				So(ctx.Rendered(), ShouldEqual, 1)
			})

			Convey("And then unrealized", func() {
				render.OnUnrealize()
				render.OnUnrealize()

				Convey("Then the callback is deregistered before the context is freed", func() {
					So(render.Realized(), ShouldBeFalse)
					So(ctx.Freed(), ShouldBeTrue)
					So(ctx.FreedWithCallback(), ShouldBeFalse)
					So(ctx.DoubleFreed(), ShouldBeFalse)
				})
			})

			Convey("And then realized again on a new surface", func() {
				second := &fakeSurface{fbo: 2}
				So(render.OnRealize(second), ShouldBeNil)

				renders := fake.Renders()
				So(len(renders), ShouldEqual, 2)
				old, current := renders[0], renders[1]

				Convey("Then the previous context is released once", func() {
					So(old.Freed(), ShouldBeTrue)
					So(old.DoubleFreed(), ShouldBeFalse)
					So(old.HasCallback(), ShouldBeFalse)
					So(current.Registrations(), ShouldEqual, 1)
				})

				Convey("Then a frame produces a single notification for the new surface only", func() {
					fake.FrameReady()
					So(render.Updates().Len(), ShouldEqual, 1)
					So(render.Pump(), ShouldBeTrue)
					So(second.queued.Load(), ShouldEqual, 1)
					So(first.queued.Load(), ShouldEqual, 0)
				})

				Convey("Then updates from the old registration are ignored", func() {
					render.Updates().Push(RenderUpdate{Generation: 1})
					So(render.Pump(), ShouldBeFalse)
					So(second.queued.Load(), ShouldEqual, 0)
				})
			})

			Convey("And the handle gets poisoned", func() {
				fake.PanicOn("stop")
				_ = handle.With("stop", func(eng engine.Engine) error {
					return eng.Command("stop")
				})
				render.OnUnrealize()

				Convey("Then the context is leaked rather than freed with a live callback", func() {
					So(render.Realized(), ShouldBeFalse)
					So(ctx.Freed(), ShouldBeFalse)
				})
			})
		})

		Convey("When the engine has no render api", func() {
			unsupported := NewRenderBridge(NewHandle(noRender{Fake: fake}))
			err := unsupported.OnRealize(first)

			Convey("Then realize fails and the bridge stays unrealized", func() {
				So(errors.Is(err, engine.ErrRenderUnsupported), ShouldBeTrue)
				So(unsupported.Realized(), ShouldBeFalse)
			})
		})
	})
}

func TestCallbackSlot(t *testing.T) {
	Convey("Given a slot with a registration", t, func() {
		var slot callbackSlot
		notified := make(chan uint64, 8)
		callback, generation := slot.store(func(g uint64) { notified <- g })

		Convey("The callback notifies with its generation", func() {
			callback()
			So(<-notified, ShouldEqual, generation)
			So(slot.generation(), ShouldEqual, generation)
		})

		Convey("A reclaimed callback is a no-op", func() {
			So(slot.reclaim(), ShouldBeTrue)
			So(slot.reclaim(), ShouldBeFalse)

			callback()
			So(len(notified), ShouldEqual, 0)
			So(slot.generation(), ShouldEqual, 0)
		})

		Convey("Reclaim waits for a running invocation", func() {
			var blocking callbackSlot
			entered := make(chan struct{})
			release := make(chan struct{})
			cb, _ := blocking.store(func(uint64) {
				close(entered)
				<-release
			})
			go cb()
			<-entered

			reclaimed := make(chan struct{})
			go func() {
				blocking.reclaim()
				close(reclaimed)
			}()

			select {
			case <-reclaimed:
				So("reclaim returned while the callback was running", ShouldBeEmpty)
			case <-time.After(30 * time.Millisecond):
			}

			close(release)
			select {
			case <-reclaimed:
			case <-time.After(time.Second):
				So("reclaim never returned", ShouldBeEmpty)
			}
		})

		Convey("Generations increase across registrations", func() {
			slot.reclaim()
			_, next := slot.store(func(uint64) {})
			So(next, ShouldBeGreaterThan, generation)
		})
	})
}
