package bridge

import (
	"sync/atomic"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
)

// Clock answers "what is the current playback time" for timing consumers such as overlays.
// It never waits on engine events; each read is one short property query through the Handle.
type Clock struct {
	handle *Handle
	last   atomic.Int64
}

// NewClock creates a clock reading through handle.
func NewClock(handle *Handle) *Clock {
	return &Clock{handle: handle}
}

// Now queries the current playback position.
// On failure, for example when nothing is loaded, it returns the last known position with the error.
func (c *Clock) Now() (time.Duration, error) {
	var seconds float64
	err := c.handle.With("clock", func(eng engine.Engine) error {
		value, err := eng.GetProperty(string(PropTimePos), engine.FormatDouble)
		if err != nil {
			return err
		}
		seconds, _ = value.(float64)
		return nil
	})
	if err != nil {
		return c.Cached(), err
	}

	pos := time.Duration(seconds * float64(time.Second))
	c.last.Store(int64(pos))
	return pos, nil
}

// Cached returns the position from the last successful Now without touching the engine.
func (c *Clock) Cached() time.Duration {
	return time.Duration(c.last.Load())
}
