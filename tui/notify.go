package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tsukinaha/tsukimi-sub001/icon"
	"github.com/tsukinaha/tsukimi-sub001/style"
)

const toastLifetime = 3 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastWarn
	toastError
)

// toastMsg asks the notifier to show a transient notice.
type toastMsg struct {
	level toastLevel
	text  string
}

// clearToastMsg expires the toast with the same serial; newer toasts survive older timers.
type clearToastMsg struct {
	serial int
}

// notifier holds the state for displaying non-blocking alerts.
type notifier struct {
	current *toastMsg
	serial  int
}

func toast(level toastLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{level: level, text: text}
	}
}

func (n *notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case toastMsg:
		n.current = &msg
		n.serial++
		serial := n.serial
		return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
			return clearToastMsg{serial: serial}
		})
	case clearToastMsg:
		if msg.serial == n.serial {
			n.current = nil
		}
	}
	return nil
}

// View renders the toast below content, or content alone.
func (n *notifier) View(content string, width int) string {
	if n.current == nil {
		return content
	}

	var (
		accent lipgloss.Color
		symbol string
	)
	switch n.current.level {
	case toastWarn:
		accent, symbol = style.WarningColor, icon.Get(icon.Warn)
	case toastError:
		accent, symbol = style.ErrorColor, icon.Get(icon.Fail)
	default:
		accent, symbol = style.AccentColor, icon.Get(icon.Success)
	}

	text := n.current.text
	if symbol != "" {
		text = symbol + " " + text
	}
	if width > 4 {
		text = wordwrap.String(text, width-4)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, style.Toast(accent).Render(text))
}
