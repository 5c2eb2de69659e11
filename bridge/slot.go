package bridge

import "sync"

// registration is one update callback handed to the engine.
type registration struct {
	generation uint64
	notify     func(generation uint64)
	retired    bool
	inflight   sync.WaitGroup
}

// callbackSlot holds at most one live update-callback registration.
//
// A registration is a strict two-phase resource: store hands out the callback exactly once,
// reclaim retires it exactly once and waits for invocations already running on engine threads.
// A retired callback that fires late is a no-op.
type callbackSlot struct {
	mu      sync.Mutex
	current *registration
	last    uint64
}

// store registers notify and returns the callback to pass to the engine with its generation.
// Any previous registration must have been reclaimed.
func (s *callbackSlot) store(notify func(generation uint64)) (func(), uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	reg := &registration{
		generation: s.last,
		notify:     notify,
	}
	s.current = reg

	return func() { s.invoke(reg) }, reg.generation
}

// invoke runs on an engine-owned thread. It must not block or call into the engine.
func (s *callbackSlot) invoke(reg *registration) {
	s.mu.Lock()
	if reg.retired {
		s.mu.Unlock()
		return
	}
	reg.inflight.Add(1)
	s.mu.Unlock()

	defer reg.inflight.Done()
	reg.notify(reg.generation)
}

// reclaim retires the current registration and waits until none of its invocations are running.
// It reports whether there was a registration.
func (s *callbackSlot) reclaim() bool {
	s.mu.Lock()
	reg := s.current
	s.current = nil
	if reg != nil {
		reg.retired = true
	}
	s.mu.Unlock()

	if reg == nil {
		return false
	}
	reg.inflight.Wait()
	return true
}

// generation returns the live registration's generation, or 0 if the slot is empty.
func (s *callbackSlot) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.generation
}
