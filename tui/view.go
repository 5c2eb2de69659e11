package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/icon"
	"github.com/tsukinaha/tsukimi-sub001/style"
	"github.com/tsukinaha/tsukimi-sub001/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

const toastHeight = 3

func (b *playerBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playingState:
		output = b.viewPlaying()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output, b.width)
}

func (b *playerBubble) header() string {
	title := b.title()
	if b.width > 4 {
		title = truncate.StringWithTail(title, uint(b.width-4), "…")
	}
	return style.Title(title)
}

func (b *playerBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			b.header(),
			"",
			b.spinnerC.View() + " Loading " + style.Faint(b.options.URL),
		},
	)
}

func (b *playerBubble) viewPlaying() string {
	s := b.snapshot

	status := icon.With(icon.Play, "Playing")
	switch {
	case s.PausedForCache:
		status = style.Fg(style.WarningColor)(icon.With(icon.Buffering, "Buffering"))
	case s.Paused:
		status = icon.With(icon.Pause, "Paused")
	}

	timeline := util.Timestamp(b.position)
	var percent float64
	if b.duration > 0 {
		timeline += " / " + util.Timestamp(b.duration)
		percent = util.Clamp(float64(b.position)/float64(b.duration), 0, 1)
	} else {
		timeline += " / " + style.Faint("live")
	}

	lines := []string{
		b.header(),
		"",
		status + "  " + timeline,
		b.progressC.ViewAs(percent),
		"",
		b.viewTracks(),
		icon.With(icon.Volume, fmt.Sprintf("%d%%", s.Volume)) + "  " + icon.With(icon.Seek, fmt.Sprintf("%.2fx", s.Speed)),
	}

	if line := b.viewCache(); line != "" {
		lines = append(lines, line)
	}

	if segments := b.skipper.Segments(); len(segments) > 0 {
		names := make([]string, len(segments))
		for i, seg := range segments {
			names[i] = fmt.Sprintf("%s %s-%s", seg.Title, util.Timestamp(seg.Start), util.Timestamp(seg.End))
		}
		lines = append(lines, style.Faint("skips: "+strings.Join(names, ", ")))
	}

	return b.renderLines(true, lines)
}

func (b *playerBubble) viewTracks() string {
	label := func(kind bridge.TrackKind, none string) string {
		if t, ok := b.snapshot.Tracks.Selected(kind).Get(); ok {
			return t.Label()
		}
		return style.Faint(none)
	}

	return fmt.Sprintf("%s %s  %s %s",
		style.Fg(style.AccentColor)("audio"), label(bridge.TrackAudio, "none"),
		style.Fg(style.AccentColor)("subs"), label(bridge.TrackSubtitle, "off"),
	)
}

func (b *playerBubble) viewCache() string {
	s := b.snapshot
	if s.CacheSpeed <= 0 && s.DemuxerCacheTime <= 0 {
		return ""
	}

	ahead := time.Duration(s.DemuxerCacheTime) * time.Second
	return style.Fg(style.CacheColor)(fmt.Sprintf("cache %s/s, %s ahead",
		humanize.Bytes(uint64(s.CacheSpeed)),
		util.Timestamp(ahead),
	))
}

func (b *playerBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.With(icon.Fail, "Playback stopped:"),
			"",
			errorMsg,
		},
	)
}

func (b *playerBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		// leave room for a toast below the help
		if pad := b.height - h - toastHeight; pad > 0 {
			l += strings.Repeat("\n", pad)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
