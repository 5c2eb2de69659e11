package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/history"
	"github.com/tsukinaha/tsukimi-sub001/log"
	"github.com/tsukinaha/tsukimi-sub001/util"
)

type (
	eventsReadyMsg  struct{}
	eventsClosedMsg struct{}
	tickMsg         time.Time

	positionMsg struct {
		pos time.Duration
		err error
	}
)

// load dispatches the initial loadfile. Dispatching never blocks, so it runs on the loop itself.
func (b *playerBubble) load() {
	if b.options.Title != "" {
		b.bridge.SetProperty(bridge.PropMediaTitle, b.options.Title)
	}

	var options []string
	if b.options.StartAt > 0 {
		options = append(options, fmt.Sprintf("start=%.3f", b.options.StartAt.Seconds()))
		log.Infof("resuming %s at %s", b.options.URL, b.options.StartAt)
	}
	b.bridge.Command(bridge.LoadFile(b.options.URL, bridge.LoadReplace, options...))
}

// waitForEvents parks until the listener queued something. The drain itself happens in Update.
func (b *playerBubble) waitForEvents() tea.Cmd {
	events := b.bridge.Events()
	return func() tea.Msg {
		select {
		case <-events.Ready():
			return eventsReadyMsg{}
		case <-events.Done():
			return eventsClosedMsg{}
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// readPosition queries the clock from a command goroutine; the query waits for the handle.
func (b *playerBubble) readPosition() tea.Cmd {
	clock := b.bridge.Clock()
	return func() tea.Msg {
		pos, err := clock.Now()
		return positionMsg{pos: pos, err: err}
	}
}

func (b *playerBubble) onTick() tea.Cmd {
	b.bridge.Render().Pump()

	if !b.snapshot.Loaded || b.reading {
		return tick()
	}

	b.reading = true
	return tea.Batch(tick(), b.readPosition())
}

func (b *playerBubble) onPosition(msg positionMsg) tea.Cmd {
	b.reading = false
	if msg.err != nil {
		log.Debugf("read position: %s", msg.err)
		return nil
	}

	b.position = msg.pos
	if seg, skipped := b.skipper.Check(msg.pos); skipped {
		return toast(toastInfo, "Skipped "+seg.Title)
	}
	return nil
}

func (b *playerBubble) onEvents(events []bridge.ListenEvent) tea.Cmd {
	b.snapshot = b.bridge.Model().Snapshot()

	cmds := make([]tea.Cmd, 0, len(events))
	for _, ev := range events {
		cmds = append(cmds, b.handleEvent(ev))
	}
	return tea.Batch(cmds...)
}

func (b *playerBubble) handleEvent(ev bridge.ListenEvent) tea.Cmd {
	switch e := ev.(type) {
	case bridge.StartFileEvent:
		b.tracksApplied = false
		b.duration = 0
		b.skipper.Reset()
	case bridge.PlaybackRestartEvent:
		if b.state == loadingState {
			b.setState(playingState)
			// chapters are reset by every load
			b.skipper.ApplyChapters()
		}
	case bridge.DurationEvent:
		b.duration = time.Duration(e.Seconds * float64(time.Second))
	case bridge.TrackListEvent:
		if !b.tracksApplied && len(e.Tracks) > 0 {
			b.tracksApplied = true
			b.applyPreferredTracks(e.Tracks)
		}
	case bridge.PausedForCacheEvent:
		if e.Paused {
			return toast(toastWarn, "Buffering...")
		}
	case bridge.ErrorEvent:
		return toast(toastError, e.Message)
	case bridge.EndOfFileEvent:
		b.saveResume()

		switch e.Reason {
		case engine.EndFileEOF, engine.EndFileStop, engine.EndFileQuit:
			return tea.Quit
		case engine.EndFileError:
			b.lastError = fmt.Errorf("playback of %s failed", b.options.URL)
			b.setState(errorState)
		}
	case bridge.ShutdownEvent:
		b.saveResume()
		return tea.Quit
	}
	return nil
}

func (b *playerBubble) applyPreferredTracks(tracks bridge.Tracks) {
	prefer := func(kind bridge.TrackKind, preference string) {
		t, ok := tracks.Preferred(kind, preference).Get()
		if !ok || t.Selected {
			return
		}
		log.Infof("selecting preferred %s track %s", kind, t.Label())
		b.bridge.SetProperty(kind.Property(), t.ID)
	}

	prefer(bridge.TrackAudio, b.options.AudioLanguage)
	prefer(bridge.TrackSubtitle, b.options.SubtitleLanguage)
}

// saveResume records the last known position. Finished media is removed from the history instead.
func (b *playerBubble) saveResume() {
	if !b.options.Resume || b.position == 0 {
		return
	}
	if err := history.Save(b.options.URL, b.title(), b.position, b.duration); err != nil {
		log.Warnf("save resume position: %s", err)
	}
}

func (b *playerBubble) seek(seconds float64) tea.Cmd {
	b.bridge.Command(bridge.Seek(seconds, bridge.SeekRelative))
	return nil
}

func (b *playerBubble) changeVolume(delta int64) tea.Cmd {
	level := util.Clamp(b.snapshot.Volume+delta, 0, maxVolume)
	b.bridge.SetProperty(bridge.PropVolume, level)
	return toast(toastInfo, fmt.Sprintf("Volume %d%%", level))
}

func (b *playerBubble) changeSpeed(delta float64) tea.Cmd {
	factor := util.Clamp(b.snapshot.Speed+delta, 0.25, 4.0)
	b.bridge.SetProperty(bridge.PropSpeed, factor)
	return toast(toastInfo, fmt.Sprintf("Speed %.2fx", factor))
}

// cycleTrack selects the next track of a kind. Subtitles turn off after the last one.
func (b *playerBubble) cycleTrack(kind bridge.TrackKind) tea.Cmd {
	tracks := b.snapshot.Tracks
	candidates := tracks.OfKind(kind)
	if len(candidates) == 0 {
		return toast(toastWarn, fmt.Sprintf("No %s tracks", kind))
	}

	if kind == bridge.TrackSubtitle && candidates[len(candidates)-1].Selected {
		b.bridge.SetProperty(kind.Property(), "no")
		return toast(toastInfo, "Subtitles off")
	}

	next := tracks.Next(kind).MustGet()
	b.bridge.SetProperty(kind.Property(), next.ID)
	return toast(toastInfo, fmt.Sprintf("%s: %s", util.Capitalize(kind.String()), next.Label()))
}
