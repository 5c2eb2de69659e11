package bridge

import (
	"sync/atomic"
	"time"

	"github.com/samber/mo"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// State is an immutable snapshot of the derived playback state.
type State struct {
	Loaded           bool
	Tracks           Tracks
	Duration         mo.Option[time.Duration]
	Paused           bool
	PausedForCache   bool
	CacheSpeed       int64
	DemuxerCacheTime int64
	Volume           int64
	Speed            float64
	LastEnd          mo.Option[engine.EndFileReason]
	ShutDown         bool
}

// Model holds the current State. Every update replaces the snapshot, so readers never see a torn state.
type Model struct {
	state atomic.Pointer[State]
}

// NewModel returns a model in the idle state.
func NewModel() *Model {
	m := &Model{}
	m.state.Store(&State{
		Volume: 100,
		Speed:  1,
	})
	return m
}

// Snapshot returns the current state. The result must not be modified.
func (m *Model) Snapshot() *State {
	return m.state.Load()
}

// Apply folds an event into a new snapshot. It reports whether the event changed the model.
func (m *Model) Apply(ev ListenEvent) bool {
	for {
		current := m.state.Load()
		next, changed := reduce(*current, ev)
		if !changed {
			return false
		}
		if m.state.CompareAndSwap(current, &next) {
			return true
		}
	}
}

func reduce(s State, ev ListenEvent) (State, bool) {
	switch e := ev.(type) {
	case StartFileEvent:
		s.Loaded = true
		s.ShutDown = false
		s.Tracks = nil
		s.Duration = mo.None[time.Duration]()
		s.LastEnd = mo.None[engine.EndFileReason]()
	case EndOfFileEvent:
		s.Loaded = false
		s.LastEnd = mo.Some(e.Reason)
	case DurationEvent:
		s.Duration = mo.Some(time.Duration(e.Seconds * float64(time.Second)))
	case PauseEvent:
		s.Paused = e.Paused
	case CacheSpeedEvent:
		s.CacheSpeed = e.BytesPerSecond
	case TrackListEvent:
		s.Tracks = e.Tracks
	case VolumeEvent:
		s.Volume = e.Level
	case SpeedEvent:
		s.Speed = e.Factor
	case PausedForCacheEvent:
		s.PausedForCache = e.Paused
	case DemuxerCacheTimeEvent:
		s.DemuxerCacheTime = e.Seconds
	case ShutdownEvent:
		s.Loaded = false
		s.ShutDown = true
	default:
		return s, false
	}
	return s, true
}
