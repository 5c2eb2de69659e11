// Package engine defines the contract of the native media-playback engine (mpv) wrapped by the playback bridge.
//
// The engine is internally multi-threaded. Command, property and render calls must be serialized by the caller,
// while WaitEvent may run concurrently with them on a dedicated listener thread.
package engine

import (
	"errors"
	"time"
)

// Sentinel errors shared by every backend.
var (
	ErrClosed            = errors.New("engine closed")
	ErrRenderUnsupported = errors.New("render API not supported by this engine backend")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrPropertyMissing   = errors.New("property unavailable")
)

// Format identifies the typed payload of a property value.
type Format int

const (
	FormatNone Format = iota
	FormatString
	FormatFlag
	FormatInt64
	FormatDouble
	FormatNode
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatString:
		return "string"
	case FormatFlag:
		return "flag"
	case FormatInt64:
		return "int64"
	case FormatDouble:
		return "double"
	case FormatNode:
		return "node"
	default:
		return "none"
	}
}

// EventID identifies the kind of a native engine event.
type EventID int

const (
	EventNone EventID = iota
	EventShutdown
	EventLogMessage
	EventStartFile
	EventEndFile
	EventFileLoaded
	EventIdle
	EventSeek
	EventPlaybackRestart
	EventPropertyChange
	EventQueueOverflow
)

// String returns the event name as mpv spells it.
func (id EventID) String() string {
	switch id {
	case EventShutdown:
		return "shutdown"
	case EventLogMessage:
		return "log-message"
	case EventStartFile:
		return "start-file"
	case EventEndFile:
		return "end-file"
	case EventFileLoaded:
		return "file-loaded"
	case EventIdle:
		return "idle"
	case EventSeek:
		return "seek"
	case EventPlaybackRestart:
		return "playback-restart"
	case EventPropertyChange:
		return "property-change"
	case EventQueueOverflow:
		return "event-queue-overflow"
	default:
		return "none"
	}
}

// ParseEventID maps mpv's event name to an EventID. It reports false for events the bridge does not know.
func ParseEventID(name string) (EventID, bool) {
	for id := EventShutdown; id <= EventQueueOverflow; id++ {
		if id.String() == name {
			return id, true
		}
	}
	return EventNone, false
}

// EndFileReason explains why playback of a file ended.
type EndFileReason int

const (
	EndFileEOF EndFileReason = iota
	EndFileStop
	EndFileQuit
	EndFileError
	EndFileRedirect
)

// String returns the reason name as mpv spells it.
func (r EndFileReason) String() string {
	switch r {
	case EndFileEOF:
		return "eof"
	case EndFileStop:
		return "stop"
	case EndFileQuit:
		return "quit"
	case EndFileError:
		return "error"
	case EndFileRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// ParseEndFileReason maps mpv's textual reason to an EndFileReason.
func ParseEndFileReason(s string) EndFileReason {
	switch s {
	case "eof":
		return EndFileEOF
	case "stop":
		return EndFileStop
	case "quit":
		return EndFileQuit
	case "redirect":
		return EndFileRedirect
	default:
		return EndFileError
	}
}

// Event is a single native notification returned by WaitEvent.
//
// For EventPropertyChange, Name, Format and Data carry the observed property.
// Data holds string, bool, int64, float64 or, for FormatNode, decoded JSON ([]any, map[string]any).
// A nil Data means the property became unavailable.
type Event struct {
	ID            EventID
	ReplyUserdata uint64
	Name          string
	Format        Format
	Data          any
	Reason        EndFileReason
	Err           error
}

// Engine is the native engine instance.
type Engine interface {
	// Command runs a string command, e.g. {"loadfile", "file.mp4", "replace"}.
	Command(args ...string) error

	// SetProperty assigns a property value of the given format.
	SetProperty(name string, format Format, value any) error

	// GetProperty reads a property value converted to the given format.
	GetProperty(name string, format Format) (any, error)

	// ObserveProperty subscribes to change notifications for a property.
	// Matching events carry id as their ReplyUserdata.
	ObserveProperty(id uint64, name string, format Format) error

	// WaitEvent blocks until an event arrives or the timeout elapses.
	// On timeout it returns an Event with ID EventNone.
	WaitEvent(timeout time.Duration) Event

	// Wakeup interrupts a concurrent WaitEvent.
	Wakeup()

	// CreateRenderContext creates a render context, or fails with ErrRenderUnsupported.
	CreateRenderContext() (RenderContext, error)

	// Destroy terminates the engine. No method may be called afterwards.
	Destroy()
}

// RenderContext draws engine frames into a caller-owned framebuffer.
type RenderContext interface {
	// SetUpdateCallback registers the function the engine invokes, from one of its own threads,
	// when a new frame is ready. A nil callback deregisters. The callback must not call into the engine.
	SetUpdateCallback(cb func())

	// Render draws the current frame. It must run on the thread owning the graphics context.
	Render(fbo, width, height int, flip bool) error

	// Free destroys the context. The update callback must be deregistered first.
	Free()
}
