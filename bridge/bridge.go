package bridge

import (
	"sync"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

// Options configures a Bridge.
type Options struct {
	// PollTimeout bounds each engine wait of the listener. Zero means DefaultPollTimeout.
	PollTimeout time.Duration

	// ReportCommandErrors routes failed dispatches onto the event channel as ErrorEvent.
	// They are always logged.
	ReportCommandErrors bool
}

// Bridge is the context object owning one engine and every component around it.
// Create it once per engine and pass it to whatever needs to send commands or receive events.
type Bridge struct {
	handle     *Handle
	gate       *Gate
	events     *Channel[ListenEvent]
	dispatcher *Dispatcher
	listener   *Listener
	render     *RenderBridge
	model      *Model
	clock      *Clock

	closeOnce sync.Once
}

// New wraps eng. The bridge takes ownership and destroys eng on Close.
func New(eng engine.Engine, opts Options) *Bridge {
	handle := NewHandle(eng)
	gate := NewGate()
	events := NewChannel[ListenEvent]()

	var errs *Channel[ListenEvent]
	if opts.ReportCommandErrors {
		errs = events
	}

	return &Bridge{
		handle:     handle,
		gate:       gate,
		events:     events,
		dispatcher: NewDispatcher(handle, errs),
		listener:   NewListener(handle, gate, events, opts.PollTimeout),
		render:     NewRenderBridge(handle),
		model:      NewModel(),
		clock:      NewClock(handle),
	}
}

// Start registers observers and launches the listener. Events flow once the gate is armed.
func (b *Bridge) Start() error {
	return b.listener.Start()
}

// Arm starts event delivery.
func (b *Bridge) Arm() { b.gate.Arm() }

// Disarm stops event delivery within one poll timeout.
func (b *Bridge) Disarm() { b.gate.Disarm() }

// Gate returns the listener gate.
func (b *Bridge) Gate() PlaybackEventGate { return b.gate }

// Events returns the event channel.
func (b *Bridge) Events() *Channel[ListenEvent] { return b.events }

// Render returns the render bridge.
func (b *Bridge) Render() *RenderBridge { return b.render }

// Model returns the derived playback state.
func (b *Bridge) Model() *Model { return b.model }

// Clock returns the playback clock.
func (b *Bridge) Clock() *Clock { return b.clock }

// Poisoned reports whether an engine call panicked.
func (b *Bridge) Poisoned() bool { return b.handle.Poisoned() }

// Command dispatches cmd without waiting for it.
func (b *Bridge) Command(cmd Command) {
	b.dispatcher.DispatchCommand(cmd)
}

// SetProperty dispatches a property write without waiting for it.
func (b *Bridge) SetProperty(prop Property, value any) {
	b.dispatcher.DispatchSetProperty(prop, value)
}

// Drain takes every queued event, folds it into the model and returns it in production order.
// Call it from the GUI loop.
func (b *Bridge) Drain() []ListenEvent {
	events := b.events.Drain()
	for _, ev := range events {
		b.model.Apply(ev)
	}
	return events
}

// Close tears the bridge down. The order matters:
// the render callback is deregistered before its context is freed, in-flight dispatches finish,
// the listener parks and exits, the engine is destroyed, and the gate stays disarmed.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.render.OnUnrealize()
		b.dispatcher.Wait()

		b.gate.Disarm()
		b.listener.Stop()
		<-b.listener.Done()

		b.handle.Destroy()
		b.gate.Disarm()

		b.events.Close()
		b.render.Updates().Close()
		log.Info("playback bridge closed")
	})
}
