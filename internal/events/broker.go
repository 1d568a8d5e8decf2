// Package events is the in-process publish/subscribe hub that decouples
// input, game logic and presentation.
package events

import (
	"log/slog"
	"sync"

	"github.com/playperu/ticketarcade/internal/metrics"
)

// Event is a message published on the broker. Subscribers receive every
// event whose Topic matches the one they subscribed to.
type Event interface {
	Topic() Topic
}

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(Event)
}

// Subscription identifies a registered handler.
type Subscription struct {
	id    uint64
	topic Topic
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Broker delivers events synchronously on the publishing goroutine, in
// subscription order. A handler that panics is recovered and logged; the
// remaining subscribers still receive the event.
type Broker struct {
	mu      sync.RWMutex
	subs    map[Topic][]subscriber
	nextID  uint64
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewBroker(logger *slog.Logger, m *metrics.Metrics) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:    make(map[Topic][]subscriber),
		logger:  logger,
		metrics: m,
	}
}

// Subscribe registers fn for every event of type E.
func Subscribe[E Event](b *Broker, fn func(E)) Subscription {
	var zero E
	return b.subscribe(zero.Topic(), func(e Event) {
		if ev, ok := e.(E); ok {
			fn(ev)
		}
	})
}

// SubscribeAll registers fn on every topic.
func SubscribeAll(b *Broker, fn func(Event)) []Subscription {
	subs := make([]Subscription, 0, len(Topics))
	for _, t := range Topics {
		subs = append(subs, b.subscribe(t, fn))
	}
	return subs
}

func (b *Broker) subscribe(topic Topic, fn func(Event)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, topic: topic}
}

// Unsubscribe removes the handler behind s. Unknown or already removed
// subscriptions are ignored.
func (b *Broker) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[s.topic]
	for i, sub := range subs {
		if sub.id == s.id {
			// Copy so that in-flight deliveries keep their snapshot intact.
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, s.topic)
			} else {
				b.subs[s.topic] = next
			}
			return
		}
	}
}

// UnsubscribeAll removes every subscription in subs.
func (b *Broker) UnsubscribeAll(subs []Subscription) {
	for _, s := range subs {
		b.Unsubscribe(s)
	}
}

// Publish delivers e to the subscribers registered for its topic when
// Publish is called.
func (b *Broker) Publish(e Event) {
	topic := e.Topic()
	b.mu.RLock()
	subs := b.subs[topic]
	b.mu.RUnlock()

	b.metrics.EventPublished(topic.String())
	for _, sub := range subs {
		b.deliver(topic, sub, e)
	}
}

func (b *Broker) deliver(topic Topic, sub subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.metrics.HandlerPanicked(topic.String())
			b.logger.Error("event handler panicked",
				"topic", topic.String(),
				"subscription", sub.id,
				"panic", r,
			)
		}
	}()
	sub.fn(e)
}

// Subscribers reports how many handlers are registered for topic.
func (b *Broker) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
