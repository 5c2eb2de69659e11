// Package ipc drives an out-of-process mpv over its JSON-IPC socket.
//
// One persistent connection carries both command replies and events. Replies are matched to
// requests by request_id, events are queued for WaitEvent. Video is shown in mpv's own window,
// so there is no render API.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

const (
	replyTimeout   = 2 * time.Second
	eventQueueSize = 1024
	maxLineSize    = 4 << 20
)

// request is the JSON structure sent to mpv's IPC socket.
type request struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

// message is anything mpv writes back: a reply (no "event") or an event.
type message struct {
	Event     string `json:"event"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Data      any    `json:"data"`

	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

type reply struct {
	data any
	err  error
}

// Engine implements engine.Engine over a JSON-IPC connection.
type Engine struct {
	conn    io.ReadWriteCloser
	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan reply
	formats map[uint64]engine.Format
	closed  bool

	events   chan engine.Event
	overflow atomic.Bool
	wake     chan struct{}
	done     chan struct{}

	// onDestroy releases whatever owns the other end, e.g. the mpv process.
	onDestroy func()
}

// New wraps an established connection and starts reading from it.
func New(conn io.ReadWriteCloser) *Engine {
	e := &Engine{
		conn:    conn,
		pending: make(map[uint64]chan reply),
		formats: make(map[uint64]engine.Format),
		events:  make(chan engine.Event, eventQueueSize),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	go e.readLoop()
	return e
}

func (e *Engine) Command(args ...string) error {
	if len(args) == 0 {
		return errors.New("empty command")
	}

	command := make([]any, len(args))
	for i, a := range args {
		command[i] = a
	}

	_, err := e.call(command...)
	return err
}

func (e *Engine) SetProperty(name string, format engine.Format, value any) error {
	converted, err := engine.Convert(value, format)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	_, err = e.call("set_property", name, converted)
	return err
}

func (e *Engine) GetProperty(name string, format engine.Format) (any, error) {
	data, err := e.call("get_property", name)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", engine.ErrPropertyMissing, name)
	}
	return engine.Convert(data, format)
}

func (e *Engine) ObserveProperty(id uint64, name string, format engine.Format) error {
	e.mu.Lock()
	e.formats[id] = format
	e.mu.Unlock()

	_, err := e.call("observe_property", id, name)
	return err
}

func (e *Engine) WaitEvent(timeout time.Duration) engine.Event {
	if e.overflow.CompareAndSwap(true, false) {
		return engine.Event{ID: engine.EventQueueOverflow}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-e.events:
		return ev
	case <-e.wake:
		return engine.Event{}
	case <-timer.C:
		return engine.Event{}
	}
}

func (e *Engine) Wakeup() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) CreateRenderContext() (engine.RenderContext, error) {
	return nil, engine.ErrRenderUnsupported
}

// Destroy closes the connection and releases the mpv process, if this engine launched it.
func (e *Engine) Destroy() {
	if e.onDestroy != nil {
		_, _ = e.call("quit")
	}

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	_ = e.conn.Close()
	<-e.done

	if e.onDestroy != nil {
		e.onDestroy()
	}
}

// call sends a command and waits for its reply.
func (e *Engine) call(command ...any) (any, error) {
	id := e.nextID.Add(1)
	ch := make(chan reply, 1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, engine.ErrClosed
	}
	e.pending[id] = ch
	e.mu.Unlock()

	payload, err := json.Marshal(request{Command: command, RequestID: id})
	if err != nil {
		e.forget(id)
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	e.writeMu.Lock()
	_, err = e.conn.Write(append(payload, '\n'))
	e.writeMu.Unlock()
	if err != nil {
		e.forget(id)
		return nil, fmt.Errorf("write: %w", err)
	}

	timer := time.NewTimer(replyTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-timer.C:
		e.forget(id)
		return nil, fmt.Errorf("%v: no reply after %s", command[0], replyTimeout)
	}
}

func (e *Engine) forget(id uint64) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
}

func (e *Engine) readLoop() {
	defer close(e.done)

	scanner := bufio.NewScanner(e.conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		e.handleLine(scanner.Bytes())
	}

	e.mu.Lock()
	intentional := e.closed
	e.closed = true
	pending := e.pending
	e.pending = make(map[uint64]chan reply)
	e.mu.Unlock()

	if err := scanner.Err(); err != nil && !intentional {
		log.Warnf("mpv ipc read: %s", err)
	}

	for _, ch := range pending {
		ch <- reply{err: engine.ErrClosed}
	}

	// the other end went away; report it the way an in-process engine would
	if !intentional {
		e.push(engine.Event{ID: engine.EventShutdown})
	}
}

func (e *Engine) handleLine(line []byte) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		log.Debugf("mpv ipc: skipping unparseable line: %s", err)
		return
	}

	if msg.Event == "" {
		e.mu.Lock()
		ch, ok := e.pending[msg.RequestID]
		delete(e.pending, msg.RequestID)
		e.mu.Unlock()

		if ok {
			ch <- reply{data: msg.Data, err: replyError(msg.Error)}
		}
		return
	}

	if ev, ok := e.translate(msg); ok {
		e.push(ev)
	}
}

func (e *Engine) translate(msg message) (engine.Event, bool) {
	id, ok := engine.ParseEventID(msg.Event)
	if !ok {
		return engine.Event{}, false
	}

	ev := engine.Event{ID: id}
	switch id {
	case engine.EventPropertyChange:
		e.mu.Lock()
		format, observed := e.formats[msg.ID]
		e.mu.Unlock()
		if !observed {
			return engine.Event{}, false
		}

		data, err := engine.Convert(msg.Data, format)
		if err != nil {
			log.Debugf("mpv ipc: property %s: %s", msg.Name, err)
			return engine.Event{}, false
		}

		ev.ReplyUserdata = msg.ID
		ev.Name = msg.Name
		ev.Format = format
		ev.Data = data
	case engine.EventEndFile:
		ev.Reason = engine.ParseEndFileReason(msg.Reason)
		if msg.FileError != "" {
			ev.Err = errors.New(msg.FileError)
		}
	}

	return ev, true
}

func (e *Engine) push(ev engine.Event) {
	select {
	case e.events <- ev:
	default:
		e.overflow.Store(true)
	}
}

func replyError(s string) error {
	switch s {
	case "", "success":
		return nil
	case "property unavailable":
		return engine.ErrPropertyMissing
	default:
		return fmt.Errorf("mpv error: %s", s)
	}
}

var _ engine.Engine = (*Engine)(nil)
