package bridge

import "sync"

// Channel is an unbounded multi-producer, single-consumer queue.
//
// Producers never block. The consumer waits on Ready and takes everything queued with Drain.
// There is no backpressure: a stalled consumer lets items accumulate.
type Channel[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

// NewChannel creates an empty channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push appends an item. It reports false if the channel is closed.
func (c *Channel[T]) Push(item T) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.items = append(c.items, item)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain removes and returns every queued item in FIFO order without blocking.
func (c *Channel[T]) Drain() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}

// Ready is signalled after items were pushed. A signal may cover several pushes.
func (c *Channel[T]) Ready() <-chan struct{} {
	return c.ready
}

// Done is closed when the channel is closed.
func (c *Channel[T]) Done() <-chan struct{} {
	return c.done
}

// Len returns the number of queued items.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops accepting items. Queued items can still be drained.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
