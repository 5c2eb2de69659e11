package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tsukinaha/tsukimi-sub001/color"
	"github.com/tsukinaha/tsukimi-sub001/style"
)

// playerKeymap defines the keyboard interactions of the player.
type playerKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	seekBack, seekForward,
	jumpBack, jumpForward,
	volumeDown, volumeUp, mute,
	slower, faster,
	cycleAudio, cycleSubtitles,
	showHelp key.Binding
}

func (k *playerKeymap) setState(newState state) {
	k.state = newState
}

func newPlayerKeymap() *playerKeymap {
	return &playerKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+5s"),
		),
		jumpBack: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "-1m"),
		),
		jumpForward: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "+1m"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("9", "-"),
			key.WithHelp("9", "volume down"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("0", "+", "="),
			key.WithHelp("0", "volume up"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster"),
		),
		cycleAudio: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "audio track"),
		),
		cycleSubtitles: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "subtitles"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *playerKeymap) help() ([]key.Binding, []key.Binding) {
	switch k.state {
	case playingState:
		return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.cycleAudio, k.cycleSubtitles, k.showHelp, k.quit},
			[]key.Binding{k.jumpBack, k.jumpForward, k.volumeDown, k.volumeUp, k.mute, k.slower, k.faster}
	default:
		return []key.Binding{k.quit, k.forceQuit}, nil
	}
}

func (k *playerKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *playerKeymap) FullHelp() [][]key.Binding {
	short, full := k.help()
	return [][]key.Binding{short, full}
}
