package bridge

import (
	"sync"
	"time"
)

// PlaybackEventGate controls whether the listener actively polls the engine for events.
// It is the only signal used to start and stop event delivery.
type PlaybackEventGate interface {
	// Arm starts event delivery.
	Arm()
	// Disarm stops event delivery; the listener parks within one poll timeout.
	Disarm()
	// Armed reports the current state.
	Armed() bool
	// WaitWhileDisarmed blocks until the gate is armed or the timeout elapses.
	// It reports whether the gate is armed.
	WaitWhileDisarmed(timeout time.Duration) bool
}

// Gate is the default PlaybackEventGate.
//
//	┌──────────┐   Arm    ┌──────────┐
//	│ Disarmed │ ───────▶ │  Armed   │
//	└──────────┘ ◀─────── └──────────┘
//	               Disarm
//
// A Gate starts disarmed.
type Gate struct {
	mu    sync.Mutex
	armed bool
	// open is closed while the gate is armed.
	open chan struct{}
}

// NewGate returns a disarmed gate.
func NewGate() *Gate {
	return &Gate{open: make(chan struct{})}
}

func (g *Gate) Arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.armed {
		return
	}
	g.armed = true
	close(g.open)
}

func (g *Gate) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.armed {
		return
	}
	g.armed = false
	g.open = make(chan struct{})
}

func (g *Gate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

func (g *Gate) WaitWhileDisarmed(timeout time.Duration) bool {
	g.mu.Lock()
	open := g.open
	g.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-open:
		return true
	case <-timer.C:
		return g.Armed()
	}
}

var _ PlaybackEventGate = (*Gate)(nil)
