package game

import (
	"log/slog"

	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/screen"
)

var buttonTargets = map[events.ButtonKind]screen.Screen{
	events.ButtonMenu:     screen.Menu,
	events.ButtonPlay:     screen.Levels,
	events.ButtonSettings: screen.Settings,
	events.ButtonShop:     screen.Shop,
	events.ButtonBonus:    screen.WeeklyBonus,
}

// ButtonHub maps button presses to navigation requests, audio toggles and
// game events. Every recognised press also plays the click sound.
type ButtonHub struct {
	broker *events.Broker
	logger *slog.Logger
	subs   []events.Subscription
}

func NewButtonHub(b *events.Broker, logger *slog.Logger) *ButtonHub {
	h := &ButtonHub{broker: b, logger: logger}
	h.subs = []events.Subscription{events.Subscribe(b, h.handle)}
	return h
}

func (h *ButtonHub) Close() {
	h.broker.UnsubscribeAll(h.subs)
	h.subs = nil
}

func (h *ButtonHub) handle(e events.ButtonEvent) {
	if target, ok := buttonTargets[e.Kind]; ok {
		h.broker.Publish(events.NavigationRequest{Target: target})
		h.click()
		return
	}

	switch e.Kind {
	case events.ButtonMusic:
		h.broker.Publish(events.AudioEvent{Kind: events.AudioTurnMusic})
	case events.ButtonSound:
		h.broker.Publish(events.AudioEvent{Kind: events.AudioTurnSound})
	case events.ButtonDailyBonus:
		bonus := e.Bonus
		h.broker.Publish(events.GameEvent{Kind: events.GameTicketsReceived, Bonus: &bonus})
		h.broker.Publish(events.UIEvent{Kind: events.UIShowDailyBonus, Bonus: bonus})
	case events.ButtonLevel:
		h.broker.Publish(events.GameEvent{Kind: events.GameLevelAcquired, Level: e.Level})
	default:
		h.logger.Debug("unknown button ignored", "button", e.Kind.String())
		return
	}
	h.click()
}

func (h *ButtonHub) click() {
	h.broker.Publish(events.AudioEvent{Kind: events.AudioPlayClick})
}
