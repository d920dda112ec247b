// Package queue provides the bounded FIFO buffer used for pre-init command
// capture and offline event buffering.
//
// The queue holds at most its construction-time capacity. An enqueue at
// capacity evicts exactly one item, the oldest, and reports it through the
// drop callback before the new item is appended.
package queue

import "sync"

// DefaultCapacity is used when no positive capacity is given.
const DefaultCapacity = 128

// DropFunc receives an item evicted to make room for a newer one.
type DropFunc[T any] func(item T)

// Queue is a bounded FIFO buffer.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	onDrop   DropFunc[T]
}

// Option configures a Queue.
type Option[T any] func(*Queue[T])

// WithOnDrop registers a callback invoked synchronously, exactly once per
// eviction, with the dropped item.
func WithOnDrop[T any](fn DropFunc[T]) Option[T] {
	return func(q *Queue[T]) {
		q.onDrop = fn
	}
}

// New creates a queue with the given capacity.
func New[T any](capacity int, opts ...Option[T]) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &Queue[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends item, evicting the single oldest item first when the
// queue is at capacity. Size never exceeds capacity.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == q.capacity {
		dropped := q.items[0]
		q.items = append(q.items[:0], q.items[1:]...)
		if q.onDrop != nil {
			q.onDrop(dropped)
		}
	}
	q.items = append(q.items, item)
}

// Flush returns a snapshot of all items in insertion order and empties the
// queue. The returned slice does not alias internal storage, so callers may
// mutate it freely.
func (q *Queue[T]) Flush() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]T, len(q.items))
	copy(snapshot, q.items)
	q.items = q.items[:0]
	return snapshot
}

// Clear empties the queue without returning items or invoking callbacks.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
