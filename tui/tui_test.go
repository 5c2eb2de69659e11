package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
	"github.com/tsukinaha/tsukimi-sub001/filesystem"
	"github.com/tsukinaha/tsukimi-sub001/history"
	"github.com/tsukinaha/tsukimi-sub001/segment"
)

func init() {
	filesystem.SetMemMapFs()
}

// pump feeds queued bridge events to the bubble until until holds.
func pump(b *playerBubble, until func() bool) bool {
	deadline := time.After(2 * time.Second)
	for !until() {
		select {
		case <-b.bridge.Events().Ready():
			b.Update(eventsReadyMsg{})
		case <-time.After(10 * time.Millisecond):
			b.Update(tickMsg(time.Now()))
			if b.reading {
				b.Update(b.readPosition()())
			}
		case <-deadline:
			return false
		}
	}
	return true
}

func called(fake *enginetest.Fake, name string) func() bool {
	return func() bool { return lo.Contains(fake.Calls(), name) }
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPlayer(t *testing.T) {
	Convey("Given a player on a running bridge", t, func() {
		fake := enginetest.NewFake()
		b := bridge.New(fake, bridge.Options{PollTimeout: 50 * time.Millisecond, ReportCommandErrors: true})
		So(b.Start(), ShouldBeNil)
		b.Arm()

		opening := segment.Segment{Start: 0, End: 30 * time.Second, Title: "Opening"}
		options := &Options{
			URL:           "https://media.example/ep1.mkv",
			Title:         "Episode 1",
			AudioLanguage: "eng",
			Resume:        true,
			Segments:      []segment.Segment{opening},
		}
		bubble := newBubble(b, options)
		bubble.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		Reset(b.Close)

		Convey("Before loading it shows the title", func() {
			So(bubble.View(), ShouldContainSubstring, "Episode 1")
		})

		Convey("When the file is loaded", func() {
			bubble.Init()
			So(pump(bubble, func() bool { return bubble.state == playingState }), ShouldBeTrue)

			Convey("Then the title and chapters are sent", func() {
				So(pump(bubble, called(fake, string(bridge.PropChapterList))), ShouldBeTrue)
				So(fake.Calls(), ShouldContain, string(bridge.PropMediaTitle))
			})

			Convey("Then the preferred audio track is selected", func() {
				So(pump(bubble, called(fake, string(bridge.PropAid))), ShouldBeTrue)
			})

			Convey("Then the view shows tracks and time", func() {
				So(pump(bubble, func() bool { return bubble.duration > 0 }), ShouldBeTrue)
				view := bubble.View()
				So(view, ShouldContainSubstring, "Stereo [jpn]")
				So(view, ShouldContainSubstring, "2:00")
				So(view, ShouldContainSubstring, "Opening")
			})

			Convey("Then space toggles pause", func() {
				bubble.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
				So(pump(bubble, func() bool { return bubble.snapshot.Paused }), ShouldBeTrue)
				So(bubble.View(), ShouldContainSubstring, "Paused")
			})

			Convey("Then the opening is skipped", func() {
				So(pump(bubble, func() bool { return bubble.position >= 30*time.Second }), ShouldBeTrue)
			})

			Convey("Then a tick returns while the engine is busy", func() {
				fake.SetCallDelay(500 * time.Millisecond)
				Reset(func() { fake.SetCallDelay(0) })
				b.SetProperty(bridge.PropVolume, int64(50))
				time.Sleep(20 * time.Millisecond)

				started := time.Now()
				bubble.Update(tickMsg(time.Now()))
				So(time.Since(started), ShouldBeLessThan, 50*time.Millisecond)
				So(bubble.reading, ShouldBeTrue)

				Convey("And the position arrives once the engine is free", func() {
					msg := bubble.readPosition()().(positionMsg)
					So(msg.err, ShouldBeNil)
					bubble.Update(msg)
					So(bubble.reading, ShouldBeFalse)
					So(bubble.position, ShouldEqual, msg.pos)
				})
			})

			Convey("Then ticks wait for the previous position read", func() {
				bubble.reading = true
				bubble.position = 5 * time.Second
				bubble.Update(tickMsg(time.Now()))
				So(bubble.position, ShouldEqual, 5*time.Second)

				bubble.Update(positionMsg{err: engine.ErrPropertyMissing})
				So(bubble.reading, ShouldBeFalse)
				So(bubble.position, ShouldEqual, 5*time.Second)
			})

			Convey("Then arrow keys seek", func() {
				So(pump(bubble, func() bool { return bubble.position >= 30*time.Second }), ShouldBeTrue)
				bubble.Update(tea.KeyMsg{Type: tea.KeyRight})
				So(pump(bubble, func() bool { return bubble.position >= 35*time.Second }), ShouldBeTrue)
			})

			Convey("Then the volume is clamped", func() {
				cmd := bubble.changeVolume(500)
				So(cmd().(toastMsg).text, ShouldEqual, "Volume 130%")
			})

			Convey("Then subtitles cycle through off", func() {
				So(pump(bubble, func() bool { return len(bubble.snapshot.Tracks) > 0 }), ShouldBeTrue)
				cmd := bubble.cycleTrack(bridge.TrackSubtitle)
				So(cmd().(toastMsg).text, ShouldEqual, "Subtitle: Full [eng]")
			})

			Convey("Then command errors become toasts", func() {
				msg := bubble.handleEvent(bridge.ErrorEvent{Message: "command seek: no file"})()
				So(msg.(toastMsg).level, ShouldEqual, toastError)
			})

			Convey("When quitting midway", func() {
				bubble.position = 50 * time.Second
				bubble.duration = 2 * time.Minute
				cmd := bubble.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
				So(isQuit(cmd), ShouldBeTrue)

				Convey("Then the position is saved", func() {
					entry, err := history.Get(options.URL)
					So(err, ShouldBeNil)
					So(entry.MustGet().Position, ShouldEqual, 50*time.Second)
				})
			})

			Convey("When the file ends", func() {
				fake.Finish()
				So(pump(bubble, func() bool { return !bubble.snapshot.Loaded }), ShouldBeTrue)
				So(isQuit(bubble.handleEvent(bridge.EndOfFileEvent{Reason: engine.EndFileEOF})), ShouldBeTrue)
			})

			Convey("When the file fails", func() {
				So(bubble.handleEvent(bridge.EndOfFileEvent{Reason: engine.EndFileError}), ShouldBeNil)
				So(bubble.state, ShouldEqual, errorState)
				So(strings.Contains(bubble.View(), "ep1.mkv"), ShouldBeTrue)
			})

			Convey("When the engine shuts down", func() {
				So(isQuit(bubble.handleEvent(bridge.ShutdownEvent{})), ShouldBeTrue)
			})
		})

		Convey("Keys other than quit are ignored while loading", func() {
			So(bubble.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}), ShouldBeNil)
			So(fake.Calls(), ShouldNotContain, "cycle")
		})
	})
}

func TestNotifier(t *testing.T) {
	Convey("Given a notifier", t, func() {
		n := &notifier{}

		Convey("A toast is shown until its own timer expires", func() {
			n.Update(toastMsg{text: "first"})
			n.Update(toastMsg{text: "second"})
			n.Update(clearToastMsg{serial: 1})
			So(n.View("body", 40), ShouldContainSubstring, "second")

			n.Update(clearToastMsg{serial: 2})
			So(n.View("body", 40), ShouldEqual, "body")
		})
	})
}
