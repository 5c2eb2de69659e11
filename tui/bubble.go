package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/segment"
	"github.com/tsukinaha/tsukimi-sub001/style"
	"github.com/tsukinaha/tsukimi-sub001/util"
)

const (
	tickInterval = 250 * time.Millisecond
	seekStep     = 5
	jumpStep     = 60
	volumeStep   = 5
	maxVolume    = 130
	speedStep    = 0.25
)

// playerBubble is the GUI loop of the bridge: it drains events and pumps render updates.
// Engine calls are only dispatched from here; the position arrives as a positionMsg.
type playerBubble struct {
	state   state
	keymap  *playerKeymap
	bridge  *bridge.Bridge
	skipper *segment.Skipper

	// components
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *notifier

	// what the engine told us, kept past the end of the file for resume bookkeeping
	snapshot *bridge.State
	position time.Duration
	duration time.Duration
	reading  bool

	tracksApplied bool
	lastError     error

	width, height int
	options       *Options
}

func newBubble(b *bridge.Bridge, options *Options) *playerBubble {
	bubble := &playerBubble{
		state:    loadingState,
		keymap:   newPlayerKeymap(),
		bridge:   b,
		skipper:  segment.NewSkipper(b, options.Segments),
		notifier: &notifier{},
		snapshot: b.Model().Snapshot(),
		options:  options,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(
		progress.WithGradient(string(style.ProgressStart), string(style.ProgressEnd)),
		progress.WithoutPercentage(),
	)

	return bubble
}

func (b *playerBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *playerBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = util.Clamp(b.width, 10, 120)
	b.helpC.Width = b.width
}

func (b *playerBubble) title() string {
	if b.options.Title != "" {
		return b.options.Title
	}
	return util.FileStem(b.options.URL)
}
