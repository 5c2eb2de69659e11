//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestPlayerAdapter(t *testing.T) {
	Convey("Given an adapter on a running bridge", t, func() {
		fake := enginetest.NewFake()
		b := bridge.New(fake, bridge.Options{PollTimeout: 50 * time.Millisecond})
		So(b.Start(), ShouldBeNil)
		b.Arm()
		Reset(b.Close)

		p := &playerAdapter{player: b, media: Media{URL: "/media/show/ep2.mkv"}}

		Convey("Nothing loaded reports stopped", func() {
			status, err := p.PlaybackStatus()
			So(err, ShouldBeNil)
			So(status, ShouldEqual, types.PlaybackStatusStopped)

			meta, _ := p.Metadata()
			So(meta.Title, ShouldBeEmpty)
		})

		Convey("When a file plays", func() {
			b.Command(bridge.LoadFile("/media/show/ep2.mkv", bridge.LoadReplace, "start=12"))
			So(waitFor(func() bool {
				b.Drain()
				return b.Model().Snapshot().Duration.IsPresent()
			}), ShouldBeTrue)

			Convey("Then status and metadata follow the model", func() {
				status, _ := p.PlaybackStatus()
				So(status, ShouldEqual, types.PlaybackStatusPlaying)

				meta, err := p.Metadata()
				So(err, ShouldBeNil)
				So(meta.Title, ShouldEqual, "ep2")
				So(meta.Length, ShouldEqual, types.Microseconds(120*time.Second/time.Microsecond))
				So(string(meta.TrackId), ShouldStartWith, "/org/mpris/MediaPlayer2/Track/")
			})

			Convey("Then the position comes from the clock", func() {
				pos, err := p.Position()
				So(err, ShouldBeNil)
				So(pos, ShouldEqual, (12 * time.Second).Microseconds())
			})

			Convey("Then controls are dispatched", func() {
				So(p.Pause(), ShouldBeNil)
				So(p.SetPosition("", types.Microseconds(30*time.Second/time.Microsecond)), ShouldBeNil)
				So(p.SetVolume(0.5), ShouldBeNil)

				So(waitFor(func() bool {
					calls := fake.Calls()
					return lo.Contains(calls, "pause") && lo.Contains(calls, "seek") && lo.Contains(calls, "volume")
				}), ShouldBeTrue)

				So(waitFor(func() bool {
					b.Drain()
					v, _ := p.Volume()
					return v == 0.5
				}), ShouldBeTrue)
			})

			Convey("Then rates are clamped", func() {
				So(p.SetRate(10), ShouldBeNil)
				So(waitFor(func() bool {
					b.Drain()
					r, _ := p.Rate()
					return r == maxRate
				}), ShouldBeTrue)
			})
		})
	})
}
