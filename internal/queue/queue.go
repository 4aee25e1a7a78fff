// Package queue provides the fixed-capacity line transport between
// producers and the viewport.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("queue closed")

// Bounded is a multi-producer, single-consumer FIFO with a fixed capacity.
// Producers block in Push when it is full; the consumer never blocks.
type Bounded[T any] struct {
	items     chan T
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a queue holding at most capacity items. A capacity below one
// is raised to one.
func New[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded[T]{
		items:  make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Push enqueues v, waiting for room until ctx is done or the queue is closed.
func (q *Bounded[T]) Push(ctx context.Context, v T) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}
	select {
	case q.items <- v:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPush enqueues v only if there is room.
func (q *Bounded[T]) TryPush(v T) bool {
	select {
	case <-q.closed:
		return false
	default:
	}
	select {
	case q.items <- v:
		return true
	default:
		return false
	}
}

// TryPop dequeues one item without blocking.
func (q *Bounded[T]) TryPop() (T, bool) {
	select {
	case v := <-q.items:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Drain pops up to limit items into fn and returns how many were taken.
func (q *Bounded[T]) Drain(limit int, fn func(T)) int {
	n := 0
	for n < limit {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		fn(v)
		n++
	}
	return n
}

// Close wakes blocked producers; items already queued stay poppable.
func (q *Bounded[T]) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}

func (q *Bounded[T]) Len() int { return len(q.items) }

func (q *Bounded[T]) Cap() int { return cap(q.items) }
