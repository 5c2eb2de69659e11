package bridge

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGate(t *testing.T) {
	Convey("Given a new gate", t, func() {
		gate := NewGate()

		Convey("It starts disarmed", func() {
			So(gate.Armed(), ShouldBeFalse)
		})

		Convey("Waiting while disarmed times out", func() {
			start := time.Now()
			armed := gate.WaitWhileDisarmed(20 * time.Millisecond)
			So(armed, ShouldBeFalse)
			So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 20*time.Millisecond)
		})

		Convey("Waiting while armed returns at once", func() {
			gate.Arm()
			gate.Arm()

			start := time.Now()
			So(gate.WaitWhileDisarmed(time.Second), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 100*time.Millisecond)
		})

		Convey("Arming wakes a waiter before its timeout", func() {
			go func() {
				time.Sleep(10 * time.Millisecond)
				gate.Arm()
			}()

			start := time.Now()
			So(gate.WaitWhileDisarmed(time.Second), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		})

		Convey("Disarming after arming parks waiters again", func() {
			gate.Arm()
			gate.Disarm()
			gate.Disarm()

			So(gate.Armed(), ShouldBeFalse)
			So(gate.WaitWhileDisarmed(10*time.Millisecond), ShouldBeFalse)
		})
	})
}
