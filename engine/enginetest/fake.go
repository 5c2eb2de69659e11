// Package enginetest provides an in-memory engine that mimics mpv's command, property and event semantics for tests.
package enginetest

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

const eventQueueSize = 4096

type observer struct {
	id     uint64
	format engine.Format
}

// Fake is a test double for engine.Engine.
//
// Commands and property writes produce the same event sequence mpv would:
// loadfile emits start-file, duration and track-list changes, file-loaded and playback-restart.
// Property-change events are only emitted for observed properties.
type Fake struct {
	mu        sync.Mutex
	props     map[string]any
	observed  map[string]observer
	failures  map[string]error
	panics    map[string]bool
	calls     []string
	tracks    []any
	duration  float64
	destroyed bool
	renders   []*FakeRender

	callDelay time.Duration
	inCall    atomic.Int32
	overlaps  atomic.Int32

	events chan engine.Event
	wake   chan struct{}
}

// NewFake creates a fake engine in the idle state.
func NewFake() *Fake {
	return &Fake{
		props: map[string]any{
			"pause":  false,
			"volume": int64(100),
			"speed":  1.0,
		},
		observed: make(map[string]observer),
		failures: make(map[string]error),
		panics:   make(map[string]bool),
		duration: 120.0,
		tracks: []any{
			map[string]any{"id": 1.0, "type": "video", "selected": true},
			map[string]any{"id": 1.0, "type": "audio", "lang": "jpn", "title": "Stereo", "selected": true},
			map[string]any{"id": 2.0, "type": "audio", "lang": "eng", "title": "Dub"},
			map[string]any{"id": 1.0, "type": "sub", "lang": "eng", "title": "Full"},
		},
		events: make(chan engine.Event, eventQueueSize),
		wake:   make(chan struct{}, 1),
	}
}

// SetDuration sets the duration reported for the next loaded file.
func (f *Fake) SetDuration(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = seconds
}

// SetTracks sets the track-list node reported for the next loaded file.
func (f *Fake) SetTracks(tracks []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracks = tracks
}

// SetCallDelay makes every command and property write sleep while it is in progress.
func (f *Fake) SetCallDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callDelay = d
}

// FailOn makes the named command or property write fail with err.
func (f *Fake) FailOn(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
}

// PanicOn makes the named command panic.
func (f *Fake) PanicOn(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panics[name] = true
}

// Overlaps reports how many calls started while another call was still running.
func (f *Fake) Overlaps() int {
	return int(f.overlaps.Load())
}

// Calls returns the names of all commands and property writes, in execution order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Observed reports whether a property observer is registered.
func (f *Fake) Observed(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.observed[name]
	return ok
}

// ObserverCount returns the number of registered observers.
func (f *Fake) ObserverCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observed)
}

// Destroyed reports whether Destroy was called.
func (f *Fake) Destroyed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// Pending returns the number of queued, undelivered events.
func (f *Fake) Pending() int {
	return len(f.events)
}

// Emit queues a raw event.
func (f *Fake) Emit(ev engine.Event) {
	select {
	case f.events <- ev:
	default:
	}
}

// Shutdown queues an engine shutdown event.
func (f *Fake) Shutdown() {
	f.Emit(engine.Event{ID: engine.EventShutdown})
}

// Finish simulates the current file reaching its end.
func (f *Fake) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Emit(engine.Event{ID: engine.EventEndFile, Reason: engine.EndFileEOF})
	f.changeLocked("duration", nil)
	f.Emit(engine.Event{ID: engine.EventIdle})
}

// SetCache simulates a cache state change reported by the demuxer.
func (f *Fake) SetCache(speed int64, stalled bool, cacheTime float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changeLocked("cache-speed", speed)
	f.changeLocked("paused-for-cache", stalled)
	f.changeLocked("demuxer-cache-time", cacheTime)
}

// FrameReady simulates the engine signalling a new frame from one of its own threads.
func (f *Fake) FrameReady() {
	f.mu.Lock()
	var current *FakeRender
	if len(f.renders) > 0 {
		current = f.renders[len(f.renders)-1]
	}
	f.mu.Unlock()

	if current != nil {
		current.signal()
	}
}

// Renders returns every render context created so far.
func (f *Fake) Renders() []*FakeRender {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeRender(nil), f.renders...)
}

func (f *Fake) enter(name string) (func(), error) {
	if f.inCall.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	leave := func() { f.inCall.Add(-1) }

	f.mu.Lock()
	delay := f.callDelay
	failure := f.failures[name]
	shouldPanic := f.panics[name]
	destroyed := f.destroyed
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if destroyed {
		leave()
		return nil, engine.ErrClosed
	}
	if shouldPanic {
		leave()
		panic(fmt.Sprintf("fake engine: %s", name))
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if failure != nil {
		leave()
		return nil, failure
	}
	return leave, nil
}

func (f *Fake) Command(args ...string) error {
	if len(args) == 0 {
		return errors.New("empty command")
	}

	leave, err := f.enter(args[0])
	if err != nil {
		return err
	}
	defer leave()

	f.mu.Lock()
	defer f.mu.Unlock()

	switch args[0] {
	case "loadfile":
		if len(args) < 2 || args[1] == "" {
			return errors.New("loadfile: missing url")
		}
		start := 0.0
		if len(args) >= 5 {
			for _, opt := range strings.Split(args[4], ",") {
				if v, ok := strings.CutPrefix(opt, "start="); ok {
					start, _ = strconv.ParseFloat(v, 64)
				}
			}
		}
		f.Emit(engine.Event{ID: engine.EventStartFile})
		f.changeLocked("path", args[1])
		f.changeLocked("time-pos", start)
		f.changeLocked("duration", f.duration)
		f.changeLocked("track-list", f.tracks)
		f.Emit(engine.Event{ID: engine.EventFileLoaded})
		f.Emit(engine.Event{ID: engine.EventPlaybackRestart})
	case "seek":
		if len(args) < 2 {
			return errors.New("seek: missing target")
		}
		target, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("seek: %w", err)
		}
		if len(args) < 3 || args[2] != "absolute" {
			pos, _ := f.props["time-pos"].(float64)
			target += pos
		}
		f.Emit(engine.Event{ID: engine.EventSeek})
		f.changeLocked("time-pos", target)
		f.Emit(engine.Event{ID: engine.EventPlaybackRestart})
	case "stop":
		f.Emit(engine.Event{ID: engine.EventEndFile, Reason: engine.EndFileStop})
		f.changeLocked("duration", nil)
		f.Emit(engine.Event{ID: engine.EventIdle})
	case "quit":
		f.Emit(engine.Event{ID: engine.EventEndFile, Reason: engine.EndFileQuit})
		f.Emit(engine.Event{ID: engine.EventShutdown})
	case "cycle":
		if len(args) < 2 {
			return errors.New("cycle: missing property")
		}
		if v, ok := f.props[args[1]].(bool); ok {
			f.changeLocked(args[1], !v)
		}
	case "set":
		if len(args) < 3 {
			return errors.New("set: missing value")
		}
		f.changeLocked(args[1], args[2])
	case "show-text", "script-message":
	default:
		return fmt.Errorf("%w: %s", engine.ErrUnknownCommand, args[0])
	}

	return nil
}

func (f *Fake) SetProperty(name string, format engine.Format, value any) error {
	leave, err := f.enter(name)
	if err != nil {
		return err
	}
	defer leave()

	converted, err := engine.Convert(value, format)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.changeLocked(name, converted)
	return nil
}

func (f *Fake) GetProperty(name string, format engine.Format) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return nil, engine.ErrClosed
	}

	value, ok := f.props[name]
	if !ok || value == nil {
		return nil, fmt.Errorf("%w: %s", engine.ErrPropertyMissing, name)
	}
	return engine.Convert(value, format)
}

func (f *Fake) ObserveProperty(id uint64, name string, format engine.Format) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return engine.ErrClosed
	}

	f.observed[name] = observer{id: id, format: format}
	if value, ok := f.props[name]; ok && value != nil {
		f.emitChangeLocked(name, value)
	}
	return nil
}

func (f *Fake) WaitEvent(timeout time.Duration) engine.Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-f.events:
		return ev
	case <-f.wake:
		return engine.Event{}
	case <-timer.C:
		return engine.Event{}
	}
}

func (f *Fake) Wakeup() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *Fake) CreateRenderContext() (engine.RenderContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return nil, engine.ErrClosed
	}

	r := &FakeRender{}
	f.renders = append(f.renders, r)
	return r, nil
}

func (f *Fake) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
}

func (f *Fake) changeLocked(name string, value any) {
	if reflect.DeepEqual(f.props[name], value) {
		return
	}
	f.props[name] = value
	f.emitChangeLocked(name, value)
}

func (f *Fake) emitChangeLocked(name string, value any) {
	obs, ok := f.observed[name]
	if !ok {
		return
	}

	var data any
	if value != nil {
		converted, err := engine.Convert(value, obs.format)
		if err != nil {
			return
		}
		data = converted
	}

	f.Emit(engine.Event{
		ID:            engine.EventPropertyChange,
		ReplyUserdata: obs.id,
		Name:          name,
		Format:        obs.format,
		Data:          data,
	})
}

// FakeRender is the render context handed out by Fake.
type FakeRender struct {
	mu                sync.Mutex
	cb                func()
	registrations     int
	renders           int
	freed             bool
	doubleFree        bool
	freedWithCallback bool
}

func (r *FakeRender) SetUpdateCallback(cb func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb != nil {
		r.registrations++
	}
	r.cb = cb
}

func (r *FakeRender) Render(_, _, _ int, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.freed {
		return engine.ErrClosed
	}
	r.renders++
	return nil
}

func (r *FakeRender) Free() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.freed {
		r.doubleFree = true
	}
	if r.cb != nil {
		r.freedWithCallback = true
	}
	r.freed = true
}

// signal invokes the update callback from a foreign goroutine and waits for it to return.
func (r *FakeRender) signal() {
	r.mu.Lock()
	cb := r.cb
	r.mu.Unlock()

	if cb == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		cb()
	}()
	<-done
}

// Registrations returns how many non-nil update callbacks were registered.
func (r *FakeRender) Registrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registrations
}

// Rendered returns how many frames were drawn.
func (r *FakeRender) Rendered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// Freed reports whether Free was called.
func (r *FakeRender) Freed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.freed
}

// DoubleFreed reports whether Free was called more than once.
func (r *FakeRender) DoubleFreed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doubleFree
}

// FreedWithCallback reports whether Free ran while an update callback was still registered.
func (r *FakeRender) FreedWithCallback() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.freedWithCallback
}

// HasCallback reports whether an update callback is registered.
func (r *FakeRender) HasCallback() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cb != nil
}
