//go:build libmpv

// Package libmpv runs mpv in-process through libmpv.
package libmpv

import (
	"errors"
	"fmt"
	"time"

	"github.com/gen2brain/go-mpv"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// Available reports whether this binary was built with libmpv.
const Available = true

// Engine implements engine.Engine on a libmpv handle.
type Engine struct {
	mpv *mpv.Mpv
}

// New creates and initializes an mpv instance with the given options.
func New(options map[string]string) (engine.Engine, error) {
	m := mpv.New()

	if err := applyOptions(m.SetOptionString, options); err != nil {
		m.TerminateDestroy()
		return nil, err
	}

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}

	return &Engine{mpv: m}, nil
}

func (e *Engine) Command(args ...string) error {
	if len(args) == 0 {
		return errors.New("empty command")
	}
	return e.mpv.Command(args)
}

func (e *Engine) SetProperty(name string, format engine.Format, value any) error {
	converted, err := engine.Convert(value, format)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return e.mpv.SetProperty(name, nativeFormat(format), converted)
}

func (e *Engine) GetProperty(name string, format engine.Format) (any, error) {
	value, err := e.mpv.GetProperty(name, nativeFormat(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", engine.ErrPropertyMissing, name, err)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: %s", engine.ErrPropertyMissing, name)
	}
	return engine.Convert(value, format)
}

func (e *Engine) ObserveProperty(id uint64, name string, format engine.Format) error {
	return e.mpv.ObserveProperty(id, name, nativeFormat(format))
}

func (e *Engine) WaitEvent(timeout time.Duration) engine.Event {
	ev := e.mpv.WaitEvent(timeout.Seconds())
	if ev == nil || ev.EventID == mpv.EventNone {
		return engine.Event{}
	}
	if ev.EventID == mpv.EventShutdown {
		return engine.Event{ID: engine.EventShutdown}
	}

	id, ok := engine.ParseEventID(ev.EventID.String())
	if !ok {
		return engine.Event{}
	}

	out := engine.Event{ID: id, ReplyUserdata: ev.ReplyUserdata, Err: ev.Error}
	switch id {
	case engine.EventPropertyChange:
		prop := ev.Property()
		out.Name = prop.Name
		out.Format = engineFormat(prop.Format)
		if data, err := engine.Convert(prop.Data, out.Format); err == nil {
			out.Data = data
		}
	case engine.EventEndFile:
		end := ev.EndFile()
		out.Reason = engine.ParseEndFileReason(end.Reason.String())
		if end.Error != nil {
			out.Err = end.Error
		}
	}
	return out
}

func (e *Engine) Wakeup() {
	e.mpv.Wakeup()
}

// CreateRenderContext is not offered: the OpenGL render API needs a GL context owned by the GUI toolkit.
func (e *Engine) CreateRenderContext() (engine.RenderContext, error) {
	return nil, engine.ErrRenderUnsupported
}

func (e *Engine) Destroy() {
	e.mpv.TerminateDestroy()
}

func nativeFormat(f engine.Format) mpv.Format {
	switch f {
	case engine.FormatString:
		return mpv.FormatString
	case engine.FormatFlag:
		return mpv.FormatFlag
	case engine.FormatInt64:
		return mpv.FormatInt64
	case engine.FormatDouble:
		return mpv.FormatDouble
	case engine.FormatNode:
		return mpv.FormatNode
	default:
		return mpv.FormatNone
	}
}

func engineFormat(f mpv.Format) engine.Format {
	switch f {
	case mpv.FormatString:
		return engine.FormatString
	case mpv.FormatFlag:
		return engine.FormatFlag
	case mpv.FormatInt64:
		return engine.FormatInt64
	case mpv.FormatDouble:
		return engine.FormatDouble
	case mpv.FormatNode:
		return engine.FormatNode
	default:
		return engine.FormatNone
	}
}

var _ engine.Engine = (*Engine)(nil)
