package presenter

import (
	"context"
	"sync"
)

// Dispatcher marshals work onto the UI thread. Background goroutines Post
// or Call; the UI loop Drains on every tick. The zero value is usable.
type Dispatcher struct {
	mu    sync.Mutex
	queue []func()
}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Post enqueues fn without waiting.
func (d *Dispatcher) Post(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// Call enqueues fn and waits until it ran on the UI thread or ctx is done.
// A cancelled call may still run later; its effect is then discarded by
// the caller.
func (d *Dispatcher) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	d.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every queued function in order and returns how many ran.
// Functions posted while draining run on the next Drain.
func (d *Dispatcher) Drain() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	q := d.queue
	d.queue = nil
	d.mu.Unlock()
	for _, fn := range q {
		fn()
	}
	return len(q)
}

// Pending returns the queue length.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
