package bridge

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

// DefaultPollTimeout bounds every engine wait so the gate is re-checked at least this often.
const DefaultPollTimeout = time.Second

// maxRestarts is how many times a panicking listener loop is restarted before event delivery stops for good.
const maxRestarts = 3

var errListenerStarted = errors.New("event listener already started")

// Listener owns the dedicated event thread.
//
// It registers property observers once, then loops: park while the gate is disarmed,
// otherwise wait for one engine event, translate it and push it onto the event channel.
// An engine shutdown disarms the gate; the thread keeps running so playback can be re-armed later.
type Listener struct {
	handle      *Handle
	gate        PlaybackEventGate
	events      *Channel[ListenEvent]
	pollTimeout time.Duration

	// source is captured once under the handle; WaitEvent and Wakeup are safe without the lock.
	mu     sync.Mutex
	source engine.Engine

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewListener creates a listener that is not yet running.
func NewListener(handle *Handle, gate PlaybackEventGate, events *Channel[ListenEvent], pollTimeout time.Duration) *Listener {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	return &Listener{
		handle:      handle,
		gate:        gate,
		events:      events,
		pollTimeout: pollTimeout,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start registers the property observers and launches the event thread.
// It may be called once. If registration fails the listener is finished and Done is closed.
func (l *Listener) Start() error {
	if !l.started.CompareAndSwap(false, true) {
		return errListenerStarted
	}

	err := l.handle.With("listener.observe", func(eng engine.Engine) error {
		for i, o := range observations {
			if err := eng.ObserveProperty(uint64(i+1), o.name, o.format); err != nil {
				return fmt.Errorf("observe %s: %w", o.name, err)
			}
		}
		l.mu.Lock()
		l.source = eng
		l.mu.Unlock()
		return nil
	})
	if err != nil {
		close(l.done)
		return err
	}

	go l.run()
	return nil
}

// Stop asks the event thread to exit. It returns immediately; wait on Done.
// The thread notices within one poll timeout. A listener that was never started is finished at once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
		if l.started.CompareAndSwap(false, true) {
			close(l.done)
			return
		}

		l.mu.Lock()
		source := l.source
		l.mu.Unlock()
		if source != nil {
			source.Wakeup()
		}
	})
}

// Done is closed once the event thread has exited.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	for restarts := 0; ; restarts++ {
		if l.loop() {
			return
		}

		if restarts >= maxRestarts {
			log.Errorf("event listener gave up after %d restarts", restarts)
			l.events.Push(ErrorEvent{Message: "event listener stopped"})
			return
		}
		log.Warnf("restarting event listener (%d/%d)", restarts+1, maxRestarts)
	}
}

// loop runs until Stop is called, in which case it returns true, or until it panics.
func (l *Listener) loop() (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event listener panicked: %v", r)
			l.events.Push(ErrorEvent{Message: fmt.Sprintf("event listener panicked: %v", r)})
			stopped = false
		}
	}()

	for {
		if l.stopping() {
			return true
		}

		if !l.gate.WaitWhileDisarmed(l.pollTimeout) {
			continue
		}

		l.handleEvent(l.source.WaitEvent(l.pollTimeout))
	}
}

func (l *Listener) stopping() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

func (l *Listener) handleEvent(ev engine.Event) {
	if ev.ID == engine.EventNone {
		return
	}

	if ev.Err != nil {
		log.Warnf("engine event %s: %s", ev.ID, ev.Err)
		l.events.Push(ErrorEvent{Message: ev.Err.Error()})
	}

	translated, ok := Translate(ev)
	if !ok {
		log.Tracef("dropped engine event %s %s", ev.ID, ev.Name)
		return
	}

	// disarm first so consumers seeing the shutdown also see the parked gate
	if _, ok := translated.(ShutdownEvent); ok {
		log.Info("engine shut down, disarming event listener")
		l.gate.Disarm()
	}
	l.events.Push(translated)
}
