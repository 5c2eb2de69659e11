// Package tui provides the terminal player driving a playback bridge.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/segment"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// URL is loaded when the program starts.
	URL   string
	Title string

	// StartAt resumes playback from a saved position.
	StartAt time.Duration

	Segments []segment.Segment

	AudioLanguage    string
	SubtitleLanguage string
	Resume           bool
}

// Run loads the media and executes the Bubble Tea loop until playback ends or the user quits.
// The bridge must be started and armed; closing it stays with the caller.
func Run(b *bridge.Bridge, options *Options) error {
	bubble := newBubble(b, options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return bubble.lastError
}
