package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tsukinaha/tsukimi-sub001/engine"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

// ErrUnrealized is returned when rendering without a live render context.
var ErrUnrealized = errors.New("render bridge not realized")

// Surface is the graphics surface the engine draws into. Both methods are called on the GUI loop.
type Surface interface {
	// Framebuffer returns the target framebuffer object and its size in pixels.
	Framebuffer() (fbo, width, height int)
	// QueueRender schedules a redraw on the surface's own render cycle.
	QueueRender()
}

// RenderUpdate notifies the GUI loop that the engine has a new frame.
type RenderUpdate struct {
	Generation uint64
}

// RenderBridge ties the engine's render context to the lifecycle of a Surface.
//
//	┌────────────┐  OnRealize   ┌──────────┐
//	│ Unrealized │ ───────────▶ │ Realized │
//	└────────────┘ ◀─────────── └──────────┘
//	                OnUnrealize
//
// The update callback runs on engine threads and only pushes onto Updates.
// Everything else, Render included, belongs to the GUI loop.
type RenderBridge struct {
	handle  *Handle
	updates *Channel[RenderUpdate]
	slot    callbackSlot

	mu      sync.Mutex
	ctx     engine.RenderContext
	surface Surface
}

// NewRenderBridge returns an unrealized render bridge.
func NewRenderBridge(handle *Handle) *RenderBridge {
	return &RenderBridge{
		handle:  handle,
		updates: NewChannel[RenderUpdate](),
	}
}

// Updates is the render-update channel the GUI loop drains, usually through Pump.
func (r *RenderBridge) Updates() *Channel[RenderUpdate] {
	return r.updates
}

// Realized reports whether a render context is live.
func (r *RenderBridge) Realized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx != nil
}

// OnRealize creates a render context for surface and registers the update callback.
// A realized bridge is unrealized first.
func (r *RenderBridge) OnRealize(surface Surface) error {
	r.OnUnrealize()

	var ctx engine.RenderContext
	err := r.handle.With("render.create", func(eng engine.Engine) error {
		created, err := eng.CreateRenderContext()
		if err != nil {
			return err
		}
		ctx = created
		return nil
	})
	if err != nil {
		if errors.Is(err, engine.ErrRenderUnsupported) {
			log.Warn("engine has no render api, video stays in the engine window")
		}
		return fmt.Errorf("realize: %w", err)
	}

	callback, generation := r.slot.store(func(generation uint64) {
		r.updates.Push(RenderUpdate{Generation: generation})
	})

	err = r.handle.With("render.register", func(engine.Engine) error {
		ctx.SetUpdateCallback(callback)
		return nil
	})
	if err != nil {
		r.slot.reclaim()
		log.Errorf("render context leaked: %s", err)
		return fmt.Errorf("realize: %w", err)
	}

	r.mu.Lock()
	r.ctx = ctx
	r.surface = surface
	r.mu.Unlock()

	log.Debugf("render context realized, generation %d", generation)
	return nil
}

// OnUnrealize deregisters the update callback, then frees the render context. It is idempotent.
//
// If deregistration fails the context is leaked rather than freed with a live callback.
func (r *RenderBridge) OnUnrealize() {
	r.mu.Lock()
	ctx := r.ctx
	r.ctx = nil
	r.surface = nil
	r.mu.Unlock()

	if ctx == nil {
		return
	}

	err := r.handle.With("render.deregister", func(engine.Engine) error {
		ctx.SetUpdateCallback(nil)
		return nil
	})
	r.slot.reclaim()
	if err != nil {
		log.Errorf("render context leaked: deregistration failed: %s", err)
		return
	}

	err = r.handle.With("render.free", func(engine.Engine) error {
		ctx.Free()
		return nil
	})
	if err != nil {
		log.Errorf("render context free: %s", err)
	}
}

// Pump drains render updates and queues one redraw on the surface if any of them is current.
// Updates left over from a previous registration are discarded. It reports whether a redraw was queued.
func (r *RenderBridge) Pump() bool {
	updates := r.updates.Drain()
	if len(updates) == 0 {
		return false
	}

	r.mu.Lock()
	surface := r.surface
	r.mu.Unlock()
	if surface == nil {
		return false
	}

	live := r.slot.generation()
	for _, u := range updates {
		if u.Generation == live {
			surface.QueueRender()
			return true
		}
	}
	return false
}

// Render draws the current frame. It must be called from the GUI loop, inside the surface's render cycle.
func (r *RenderBridge) Render(fbo, width, height int, flip bool) error {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	if ctx == nil {
		return ErrUnrealized
	}

	return r.handle.With("render", func(engine.Engine) error {
		return ctx.Render(fbo, width, height, flip)
	})
}

// RenderSurface draws the current frame into the realized surface's framebuffer.
func (r *RenderBridge) RenderSurface() error {
	r.mu.Lock()
	surface := r.surface
	r.mu.Unlock()

	if surface == nil {
		return ErrUnrealized
	}

	fbo, width, height := surface.Framebuffer()
	return r.Render(fbo, width, height, true)
}
