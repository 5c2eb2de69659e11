package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
)

func (b *playerBubble) Init() tea.Cmd {
	b.load()
	return tea.Batch(b.waitForEvents(), tick(), b.spinnerC.Tick)
}

func (b *playerBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case eventsReadyMsg:
		cmds = append(cmds, b.onEvents(b.bridge.Drain()), b.waitForEvents())
	case eventsClosedMsg:
		b.onEvents(b.bridge.Drain())
		return b, tea.Quit
	case tickMsg:
		cmds = append(cmds, b.onTick())
	case positionMsg:
		cmds = append(cmds, b.onPosition(msg))
	case spinner.TickMsg:
		if b.state == loadingState {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		cmds = append(cmds, b.handleKey(msg))
	}

	return b, tea.Batch(cmds...)
}

func (b *playerBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
		b.saveResume()
		return tea.Quit
	}

	if b.state != playingState {
		return nil
	}

	switch {
	case key.Matches(msg, b.keymap.playPause):
		b.bridge.Command(bridge.CyclePause())
	case key.Matches(msg, b.keymap.seekBack):
		return b.seek(-seekStep)
	case key.Matches(msg, b.keymap.seekForward):
		return b.seek(seekStep)
	case key.Matches(msg, b.keymap.jumpBack):
		return b.seek(-jumpStep)
	case key.Matches(msg, b.keymap.jumpForward):
		return b.seek(jumpStep)
	case key.Matches(msg, b.keymap.volumeDown):
		return b.changeVolume(-volumeStep)
	case key.Matches(msg, b.keymap.volumeUp):
		return b.changeVolume(volumeStep)
	case key.Matches(msg, b.keymap.mute):
		b.bridge.Command(bridge.RawCommand("cycle", string(bridge.PropMute)))
	case key.Matches(msg, b.keymap.slower):
		return b.changeSpeed(-speedStep)
	case key.Matches(msg, b.keymap.faster):
		return b.changeSpeed(speedStep)
	case key.Matches(msg, b.keymap.cycleAudio):
		return b.cycleTrack(bridge.TrackAudio)
	case key.Matches(msg, b.keymap.cycleSubtitles):
		return b.cycleTrack(bridge.TrackSubtitle)
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}
	return nil
}
