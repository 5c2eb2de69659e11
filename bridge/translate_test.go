package bridge

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

func change(name string, data any) engine.Event {
	return engine.Event{ID: engine.EventPropertyChange, Name: name, Data: data}
}

func TestTranslate(t *testing.T) {
	Convey("Given engine events", t, func() {
		Convey("Every recognized property maps to exactly one typed event", func() {
			table := []struct {
				event engine.Event
				want  ListenEvent
			}{
				{change("duration", 120.5), DurationEvent{Seconds: 120.5}},
				{change("pause", true), PauseEvent{Paused: true}},
				{change("cache-speed", int64(2048)), CacheSpeedEvent{BytesPerSecond: 2048}},
				{change("paused-for-cache", false), PausedForCacheEvent{Paused: false}},
				{change("demuxer-cache-time", int64(30)), DemuxerCacheTimeEvent{Seconds: 30}},
				{change("volume", int64(80)), VolumeEvent{Level: 80}},
				{change("speed", 1.5), SpeedEvent{Factor: 1.5}},
				{change("track-list", []any{
					map[string]any{"id": 1.0, "type": "audio", "lang": "jpn"},
				}), TrackListEvent{Tracks: Tracks{{ID: 1, Language: "jpn", Kind: TrackAudio}}}},
			}

			for _, tc := range table {
				got, ok := Translate(tc.event)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, tc.want)
			}
		})

		Convey("Lifecycle events map to their variants", func() {
			table := []struct {
				event engine.Event
				want  ListenEvent
			}{
				{engine.Event{ID: engine.EventSeek}, SeekEvent{}},
				{engine.Event{ID: engine.EventPlaybackRestart}, PlaybackRestartEvent{}},
				{engine.Event{ID: engine.EventStartFile}, StartFileEvent{}},
				{engine.Event{ID: engine.EventShutdown}, ShutdownEvent{}},
				{engine.Event{ID: engine.EventEndFile, Reason: engine.EndFileStop}, EndOfFileEvent{Reason: engine.EndFileStop}},
			}

			for _, tc := range table {
				got, ok := Translate(tc.event)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, tc.want)
			}
		})

		Convey("Payloads of the wrong type are dropped", func() {
			for _, ev := range []engine.Event{
				change("duration", "long"),
				change("pause", 1.0),
				change("cache-speed", 1.5),
				change("track-list", "[]"),
				change("volume", nil),
			} {
				_, ok := Translate(ev)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Unknown properties and uninteresting events are dropped", func() {
			for _, ev := range []engine.Event{
				change("time-pos", 3.0),
				{ID: engine.EventNone},
				{ID: engine.EventLogMessage},
				{ID: engine.EventFileLoaded},
				{ID: engine.EventIdle},
			} {
				_, ok := Translate(ev)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("An overflowing engine queue is reported", func() {
			got, ok := Translate(engine.Event{ID: engine.EventQueueOverflow})
			So(ok, ShouldBeTrue)
			So(got.Name(), ShouldEqual, "error")
		})
	})
}
