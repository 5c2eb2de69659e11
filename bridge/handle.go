// Package bridge exposes a native, multi-threaded playback engine to a single-threaded GUI event loop.
//
// Three execution contexts meet here: the GUI loop issuing commands and draining events,
// a dedicated listener thread translating engine events, and engine-owned threads signalling new frames.
// Every engine call is serialized through a Handle and no GUI-facing call blocks on engine I/O.
package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

var (
	// ErrPoisoned is returned by every call once an engine call panicked while holding the handle.
	ErrPoisoned = errors.New("engine handle poisoned")

	// ErrDestroyed is returned after the engine was destroyed.
	ErrDestroyed = errors.New("engine handle destroyed")
)

// Handle is the single point of mutual exclusion around the engine instance.
type Handle struct {
	mu        sync.Mutex
	eng       engine.Engine
	poisoned  bool
	destroyed bool
}

// NewHandle takes exclusive ownership of eng.
func NewHandle(eng engine.Engine) *Handle {
	return &Handle{eng: eng}
}

// With runs fn with exclusive access to the engine.
// The lock is held for the duration of fn only; fn must not wait on engine events.
//
// A panic inside fn poisons the handle: it is logged and converted into ErrPoisoned,
// and every later call is a logged no-op.
func (h *Handle) With(op string, fn func(engine.Engine) error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.poisoned {
		log.Errorf("engine %s skipped: handle poisoned", op)
		return ErrPoisoned
	}
	if h.destroyed {
		return ErrDestroyed
	}

	defer func() {
		if r := recover(); r != nil {
			h.poisoned = true
			log.Errorf("engine %s panicked: %v", op, r)
			err = fmt.Errorf("%w: %s: %v", ErrPoisoned, op, r)
		}
	}()

	return fn(h.eng)
}

// Poisoned reports whether a prior call panicked.
func (h *Handle) Poisoned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.poisoned
}

// Destroy terminates the engine. The listener must be parked before this is called.
// Destroy runs even on a poisoned handle so the native instance is released.
func (h *Handle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return
	}
	h.destroyed = true

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("engine destroy panicked: %v", r)
		}
	}()
	h.eng.Destroy()
}
