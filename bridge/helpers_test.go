package bridge

import (
	"sync/atomic"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/engine/enginetest"
)

const testPollTimeout = 50 * time.Millisecond

// collect drains events until one satisfies until or the timeout elapses.
func collect(events *Channel[ListenEvent], timeout time.Duration, until func(ListenEvent) bool) ([]ListenEvent, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var got []ListenEvent
	for {
		for _, ev := range events.Drain() {
			got = append(got, ev)
			if until(ev) {
				return got, true
			}
		}

		select {
		case <-events.Ready():
		case <-deadline.C:
			return got, false
		}
	}
}

func is[T ListenEvent](ev ListenEvent) bool {
	_, ok := ev.(T)
	return ok
}

func indexOf(events []ListenEvent, match func(ListenEvent) bool) int {
	for i, ev := range events {
		if match(ev) {
			return i
		}
	}
	return -1
}

// panicky panics in WaitEvent while remaining is positive.
type panicky struct {
	*enginetest.Fake
	remaining atomic.Int32
}

func (p *panicky) WaitEvent(timeout time.Duration) engine.Event {
	if p.remaining.Add(-1) >= 0 {
		panic("wait event exploded")
	}
	return p.Fake.WaitEvent(timeout)
}

// noRender is an engine without a render api.
type noRender struct {
	*enginetest.Fake
}

func (noRender) CreateRenderContext() (engine.RenderContext, error) {
	return nil, engine.ErrRenderUnsupported
}

type fakeSurface struct {
	fbo    int
	queued atomic.Int32
}

func (s *fakeSurface) Framebuffer() (int, int, int) { return s.fbo, 1920, 1080 }
func (s *fakeSurface) QueueRender()                 { s.queued.Add(1) }
