package events

import (
	"context"
	"errors"
)

// ErrQueueStopped is returned by Do once the queue loop has exited.
var ErrQueueStopped = errors.New("events: queue stopped")

// Queue confines publishing to the goroutine running Run. Other
// goroutines hand work to it through Publish and Do, so handlers never
// run concurrently with each other.
type Queue struct {
	broker *Broker
	work   chan func()
	done   chan struct{}
}

func NewQueue(b *Broker, size int) *Queue {
	return &Queue{
		broker: b,
		work:   make(chan func(), size),
		done:   make(chan struct{}),
	}
}

// Publish schedules e for delivery on the loop. Events published after
// the loop has exited are dropped.
func (q *Queue) Publish(e Event) {
	select {
	case q.work <- func() { q.broker.Publish(e) }:
	case <-q.done:
	}
}

// Do runs fn on the loop and waits for it to return.
func (q *Queue) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case q.work <- func() { defer close(finished); fn() }:
	case <-q.done:
		return ErrQueueStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-q.done:
		return ErrQueueStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes scheduled work until ctx is done. Work still queued at
// that point is discarded.
func (q *Queue) Run(ctx context.Context) error {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-q.work:
			fn()
		}
	}
}
