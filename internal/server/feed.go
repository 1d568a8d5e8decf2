package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/playperu/ticketarcade/internal/events"
)

// FeedEvent is the payload streamed to feed subscribers.
type FeedEvent struct {
	Topic string       `json:"topic"`
	Kind  string       `json:"kind"`
	Data  events.Event `json:"data"`
}

// Feed mirrors every broker event to SSE subscribers as JSON.
type Feed struct {
	broker *events.Broker
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[chan []byte]struct{}
	regs []events.Subscription
}

func NewFeed(b *events.Broker, logger *slog.Logger) *Feed {
	f := &Feed{
		broker: b,
		logger: logger,
		subs:   make(map[chan []byte]struct{}),
	}
	f.regs = events.SubscribeAll(b, f.publish)
	return f
}

// Close detaches the feed from the broker.
func (f *Feed) Close() {
	f.broker.UnsubscribeAll(f.regs)
}

// Subscribe returns a channel that receives JSON-encoded feed events.
func (f *Feed) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) Unsubscribe(ch chan []byte) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

func (f *Feed) publish(e events.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.subs) == 0 {
		return
	}

	data, err := json.Marshal(FeedEvent{Topic: e.Topic().String(), Kind: kindOf(e), Data: e})
	if err != nil {
		f.logger.Warn("encoding feed event failed", "topic", e.Topic().String(), "error", err)
		return
	}
	for ch := range f.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
}

func kindOf(e events.Event) string {
	switch ev := e.(type) {
	case events.ButtonEvent:
		return ev.Kind.String()
	case events.AudioEvent:
		return ev.Kind.String()
	case events.GameEvent:
		return ev.Kind.String()
	case events.ShopEvent:
		return ev.Kind.String()
	case events.UIEvent:
		return ev.Kind.String()
	case events.InputEvent:
		return ev.Kind.String()
	case events.NavigationRequest:
		return ev.Target.String()
	}
	return ""
}
