package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/quocvuong92/ai-apps/internal/logging"
)

// Handler delivers one item; errors are logged and dropped
type Handler[T any] func(ctx context.Context, item T) error

// Queue is a bounded channel drained by a single worker goroutine.
// Offer never blocks: items are dropped when the buffer is full or the
// queue is closed.
type Queue[T any] struct {
	name    string
	ch      chan T
	handle  Handler[T]
	logger  *logging.Logger
	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewQueue starts a queue named name with room for size pending items
func NewQueue[T any](name string, size int, handle Handler[T], logger *logging.Logger) *Queue[T] {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}
	q := &Queue[T]{
		name:   name,
		ch:     make(chan T, size),
		handle: handle,
		logger: logger.WithFields(logging.Fields{"queue": name}),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// Offer enqueues item without blocking and reports whether it was accepted
func (q *Queue[T]) Offer(item T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.ch <- item:
		return true
	default:
		q.dropped.Add(1)
		q.logger.Warn("queue full, dropping item")
		return false
	}
}

// Dropped is the number of items Offer refused
func (q *Queue[T]) Dropped() int64 {
	return q.dropped.Load()
}

// Failed is the number of items the handler returned an error for
func (q *Queue[T]) Failed() int64 {
	return q.failed.Load()
}

// Close stops accepting items and waits until the pending ones are handled
// or ctx expires.
func (q *Queue[T]) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue[T]) run() {
	defer close(q.done)
	for item := range q.ch {
		q.deliver(item)
	}
}

func (q *Queue[T]) deliver(item T) {
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			q.logger.Warn("queue handler panicked", logging.Fields{"panic": r})
		}
	}()
	if err := q.handle(context.Background(), item); err != nil {
		q.failed.Add(1)
		q.logger.Error("queue handler failed", err)
	}
}
