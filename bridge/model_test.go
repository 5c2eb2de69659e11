package bridge

import (
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

func tracksTagged(tag string, n int) Tracks {
	tracks := make(Tracks, n)
	for i := range tracks {
		tracks[i] = Track{ID: int64(i + 1), Title: tag, Kind: TrackAudio}
	}
	return tracks
}

func TestTracks(t *testing.T) {
	Convey("Given a track-list node", t, func() {
		node := []any{
			map[string]any{"id": 1.0, "type": "video", "selected": true},
			map[string]any{"id": 1.0, "type": "audio", "lang": "jpn", "title": "Stereo", "selected": true},
			map[string]any{"id": 2.0, "type": "audio", "lang": "eng", "title": "Dub"},
			map[string]any{"id": 1.0, "type": "sub", "lang": "eng", "title": "Full"},
			map[string]any{"type": "sub", "lang": "ger"},
			"garbage",
		}

		tracks, ok := ParseTracks(node)
		So(ok, ShouldBeTrue)

		Convey("Video and malformed entries are skipped", func() {
			So(len(tracks), ShouldEqual, 3)
			So(len(tracks.Audio()), ShouldEqual, 2)
			So(len(tracks.Subtitles()), ShouldEqual, 1)
		})

		Convey("The selected track is found per kind", func() {
			So(tracks.Selected(TrackAudio).MustGet().ID, ShouldEqual, 1)
			So(tracks.Selected(TrackSubtitle).IsAbsent(), ShouldBeTrue)
		})

		Convey("Next wraps around", func() {
			So(tracks.Next(TrackAudio).MustGet().ID, ShouldEqual, 2)
			So(tracks.Next(TrackSubtitle).MustGet().ID, ShouldEqual, 1)
		})

		Convey("Preferred matches languages exactly, then fuzzily", func() {
			So(tracks.Preferred(TrackAudio, "eng").MustGet().ID, ShouldEqual, 2)
			So(tracks.Preferred(TrackAudio, "dub").MustGet().ID, ShouldEqual, 2)
			So(tracks.Preferred(TrackAudio, "xyz").IsAbsent(), ShouldBeTrue)
			So(tracks.Preferred(TrackAudio, "").IsAbsent(), ShouldBeTrue)
		})

		Convey("Labels combine title and language", func() {
			So(tracks[0].Label(), ShouldEqual, "Stereo [jpn]")
		})
	})

	Convey("A node that is not a list is rejected", t, func() {
		_, ok := ParseTracks(map[string]any{})
		So(ok, ShouldBeFalse)
	})
}

func TestModel(t *testing.T) {
	Convey("Given a model", t, func() {
		model := NewModel()

		Convey("It starts idle", func() {
			s := model.Snapshot()
			So(s.Loaded, ShouldBeFalse)
			So(s.Duration.IsAbsent(), ShouldBeTrue)
			So(s.Volume, ShouldEqual, 100)
		})

		Convey("A track list is visible in full right after it is applied", func() {
			tracks := tracksTagged("first", 3)
			So(model.Apply(TrackListEvent{Tracks: tracks}), ShouldBeTrue)
			So(model.Snapshot().Tracks, ShouldResemble, tracks)
		})

		Convey("A new file resets per-file state", func() {
			model.Apply(DurationEvent{Seconds: 60})
			model.Apply(TrackListEvent{Tracks: tracksTagged("old", 2)})
			model.Apply(EndOfFileEvent{Reason: engine.EndFileEOF})
			model.Apply(StartFileEvent{})

			s := model.Snapshot()
			So(s.Loaded, ShouldBeTrue)
			So(s.Tracks, ShouldBeEmpty)
			So(s.Duration.IsAbsent(), ShouldBeTrue)
			So(s.LastEnd.IsAbsent(), ShouldBeTrue)
		})

		Convey("Durations are converted", func() {
			model.Apply(DurationEvent{Seconds: 1.5})
			So(model.Snapshot().Duration.MustGet(), ShouldEqual, 1500*time.Millisecond)
		})

		Convey("Events the model does not track leave it untouched", func() {
			before := model.Snapshot()
			So(model.Apply(SeekEvent{}), ShouldBeFalse)
			So(model.Snapshot(), ShouldEqual, before)
		})

		Convey("Readers never see a torn track list", func() {
			var wg sync.WaitGroup
			stop := make(chan struct{})
			torn := make(chan string, 1)

			for r := 0; r < 4; r++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						select {
						case <-stop:
							return
						default:
						}

						tracks := model.Snapshot().Tracks
						for _, tr := range tracks {
							if tr.Title != tracks[0].Title || len(tracks) != 8 {
								select {
								case torn <- tr.Title:
								default:
								}
								return
							}
						}
					}
				}()
			}

			for i := 0; i < 500; i++ {
				model.Apply(TrackListEvent{Tracks: tracksTagged(fmt.Sprint(i), 8)})
			}
			close(stop)
			wg.Wait()

			So(len(torn), ShouldEqual, 0)
		})
	})
}
