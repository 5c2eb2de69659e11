package bridge

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func TestHandle(t *testing.T) {
	Convey("Given a handle around an engine", t, func() {
		fake := enginetest.NewFake()
		handle := NewHandle(fake)

		Convey("When a call succeeds", func() {
			err := handle.With("command", func(eng engine.Engine) error {
				return eng.Command("show-text", "hello")
			})

			Convey("Then no error is returned", func() {
				So(err, ShouldBeNil)
				So(fake.Calls(), ShouldResemble, []string{"show-text"})
			})
		})

		Convey("When the engine reports an error", func() {
			boom := errors.New("boom")
			fake.FailOn("seek", boom)
			err := handle.With("seek", func(eng engine.Engine) error {
				return eng.Command("seek", "10")
			})

			Convey("Then it is returned unchanged and the handle stays usable", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(handle.Poisoned(), ShouldBeFalse)
			})
		})

		Convey("When a call panics", func() {
			fake.PanicOn("loadfile")
			err := handle.With("loadfile", func(eng engine.Engine) error {
				return eng.Command("loadfile", "file.mp4")
			})

			Convey("Then the panic becomes ErrPoisoned", func() {
				So(errors.Is(err, ErrPoisoned), ShouldBeTrue)
				So(handle.Poisoned(), ShouldBeTrue)
			})

			Convey("Then later calls are no-ops", func() {
				called := false
				err := handle.With("stop", func(engine.Engine) error {
					called = true
					return nil
				})
				So(errors.Is(err, ErrPoisoned), ShouldBeTrue)
				So(called, ShouldBeFalse)
			})

			Convey("Then Destroy still releases the engine", func() {
				handle.Destroy()
				So(fake.Destroyed(), ShouldBeTrue)
			})
		})

		Convey("When the handle is destroyed", func() {
			handle.Destroy()
			handle.Destroy()

			Convey("Then calls return ErrDestroyed", func() {
				So(fake.Destroyed(), ShouldBeTrue)
				err := handle.With("stop", func(engine.Engine) error { return nil })
				So(errors.Is(err, ErrDestroyed), ShouldBeTrue)
			})
		})
	})
}
