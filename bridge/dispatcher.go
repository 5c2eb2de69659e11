package bridge

import (
	"fmt"
	"sync"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

// Dispatcher turns GUI calls into fire-and-forget engine invocations.
//
// Every dispatch runs on its own goroutine and is atomic with respect to other engine calls
// through the Handle. Program order across dispatches is not preserved.
type Dispatcher struct {
	handle *Handle
	errors *Channel[ListenEvent]
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. If errors is not nil, engine failures are pushed onto it as ErrorEvent.
func NewDispatcher(handle *Handle, errors *Channel[ListenEvent]) *Dispatcher {
	return &Dispatcher{
		handle: handle,
		errors: errors,
	}
}

// DispatchCommand runs cmd in the background and returns immediately.
func (d *Dispatcher) DispatchCommand(cmd Command) {
	d.spawn("command "+cmd.Name(), func(eng engine.Engine) error {
		return eng.Command(cmd.Args()...)
	})
}

// DispatchSetProperty writes a property in the background and returns immediately.
func (d *Dispatcher) DispatchSetProperty(prop Property, value any) {
	value = normalize(value)
	format := FormatOf(value)

	d.spawn("set "+string(prop), func(eng engine.Engine) error {
		return eng.SetProperty(string(prop), format, value)
	})
}

// Wait blocks until every in-flight dispatch has finished.
// It is meant for teardown and tests; the GUI loop must never call it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) spawn(op string, fn func(engine.Engine) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		err := d.handle.With(op, fn)
		if err == nil {
			return
		}

		log.Errorf("dispatch %s: %s", op, err)
		if d.errors != nil {
			d.errors.Push(ErrorEvent{Message: fmt.Sprintf("%s: %s", op, err)})
		}
	}()
}
