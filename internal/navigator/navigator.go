// Package navigator owns which screen is current, the history used by
// back, and the routing of device input and UI updates to the views.
package navigator

import (
	"log/slog"
	"slices"

	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/metrics"
	"github.com/playperu/ticketarcade/internal/screen"
)

var predecessors = map[screen.Screen][]screen.Screen{
	screen.Menu:        {screen.Shop, screen.DailyBonus, screen.WeeklyBonus, screen.Levels, screen.Settings, screen.None},
	screen.Settings:    {screen.Menu},
	screen.WeeklyBonus: {screen.Menu, screen.DailyBonus},
	screen.DailyBonus:  {screen.Menu, screen.WeeklyBonus},
	screen.Levels:      {screen.Menu},
	screen.Shop:        {screen.Menu},
}

// Allowed reports whether the navigator may move from one screen to another.
func Allowed(from, to screen.Screen) bool {
	return slices.Contains(predecessors[to], from)
}

// Navigator is not safe for concurrent use. It is driven from the event
// loop goroutine.
type Navigator struct {
	broker  *events.Broker
	views   Views
	logger  *slog.Logger
	metrics *metrics.Metrics

	current screen.Screen
	history []screen.Screen

	busy    bool
	pending []func()
	subs    []events.Subscription
}

// New creates a navigator and subscribes it to navigation requests, input
// and UI events on b. Every field of v except Focus must be set.
func New(b *events.Broker, v Views, logger *slog.Logger, m *metrics.Metrics) *Navigator {
	n := &Navigator{
		broker:  b,
		views:   v,
		logger:  logger,
		metrics: m,
	}
	n.subs = []events.Subscription{
		events.Subscribe(b, func(e events.NavigationRequest) { n.Navigate(e.Target) }),
		events.Subscribe(b, n.handleInput),
		events.Subscribe(b, n.handleUI),
	}
	return n
}

// Start hides every view and shows the menu.
func (n *Navigator) Start() {
	n.views.Menu.Hide()
	n.views.Shop.Hide()
	n.views.Settings.Hide()
	n.views.Bonus.Hide()
	n.views.Levels.Hide()
	n.views.Overlay.Hide()
	n.Navigate(screen.Menu)
}

func (n *Navigator) Close() {
	n.broker.UnsubscribeAll(n.subs)
	n.subs = nil
}

func (n *Navigator) Current() screen.Screen { return n.current }

// History returns a copy of the back stack, oldest entry first.
func (n *Navigator) History() []screen.Screen { return slices.Clone(n.history) }

// Locked reports whether the overlay is blocking input.
func (n *Navigator) Locked() bool { return n.views.Overlay.IsShown() }

// Navigate moves to target when the transition table allows it and
// otherwise does nothing. A request made while another transition is being
// applied runs after that transition completes.
func (n *Navigator) Navigate(target screen.Screen) {
	n.run(func() { n.transition(target, true) })
}

// Back returns to the previous screen. Stepping back between the two bonus
// faces collapses the whole bonus run and returns to the screen before it.
func (n *Navigator) Back() {
	n.run(n.back)
}

func (n *Navigator) run(fn func()) {
	if n.busy {
		n.pending = append(n.pending, fn)
		return
	}
	n.busy = true
	defer func() {
		n.busy = false
		n.pending = nil
	}()

	fn()
	for len(n.pending) > 0 {
		next := n.pending[0]
		n.pending = n.pending[1:]
		next()
	}
}

func (n *Navigator) transition(target screen.Screen, record bool) bool {
	from := n.current
	if !Allowed(from, target) {
		n.metrics.Transition(target.String(), false)
		n.logger.Debug("navigation ignored", "from", from.String(), "to", target.String())
		return false
	}

	n.apply(from, target)
	if record {
		n.history = append(n.history, from)
	}
	n.current = target
	n.metrics.Transition(target.String(), true)
	n.logger.Debug("navigated", "from", from.String(), "to", target.String())

	n.broker.Publish(events.GameEvent{Kind: events.GameViewShown, Screen: target})
	return true
}

func (n *Navigator) apply(from, to screen.Screen) {
	switch to {
	case screen.Menu:
		if from != screen.None {
			n.hide(from)
		}
		n.views.Menu.Show()
	case screen.Settings:
		n.views.Settings.Show()
	case screen.WeeklyBonus:
		if from.IsBonus() {
			n.hide(from)
		}
		n.views.Bonus.ShowWeek()
	case screen.DailyBonus:
		if from.IsBonus() {
			n.hide(from)
		}
		n.views.Bonus.ShowDay()
	case screen.Levels:
		n.hide(screen.Menu)
		n.views.Levels.Show()
	case screen.Shop:
		n.hide(screen.Menu)
		n.views.Shop.Show()
	}
}

func (n *Navigator) hide(s screen.Screen) {
	v := n.viewFor(s)
	if v == nil {
		return
	}
	v.Hide()
	n.broker.Publish(events.GameEvent{Kind: events.GameViewHidden, Screen: s})
}

func (n *Navigator) viewFor(s screen.Screen) View {
	switch s {
	case screen.Menu:
		return n.views.Menu
	case screen.Settings:
		return n.views.Settings
	case screen.WeeklyBonus, screen.DailyBonus:
		return n.views.Bonus
	case screen.Levels:
		return n.views.Levels
	case screen.Shop:
		return n.views.Shop
	}
	return nil
}

func (n *Navigator) back() {
	target, ok := n.pop()
	if !ok || target == screen.None {
		return
	}

	if n.current.IsBonus() && target.IsBonus() && target != n.current {
		for len(n.history) > 0 && n.history[len(n.history)-1].IsBonus() {
			n.history = n.history[:len(n.history)-1]
		}
		target, ok = n.pop()
		if !ok {
			return
		}
		if target == screen.None {
			n.history = append(n.history, target)
			return
		}
	}

	if !n.transition(target, false) {
		n.logger.Debug("back target discarded", "from", n.current.String(), "to", target.String())
	}
}

func (n *Navigator) pop() (screen.Screen, bool) {
	if len(n.history) == 0 {
		return screen.None, false
	}
	top := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	return top, true
}

func (n *Navigator) handleInput(e events.InputEvent) {
	if n.Locked() {
		n.logger.Debug("input dropped while locked", "input", e.Kind.String())
		return
	}
	switch e.Kind {
	case events.InputConfirm:
		if n.views.Focus != nil {
			n.views.Focus.SubmitSelected()
		}
	case events.InputCancel:
		n.Back()
	}
}

func (n *Navigator) handleUI(e events.UIEvent) {
	switch e.Kind {
	case events.UIUpdateTickets:
		n.views.Menu.SetTickets(e.Tickets)
	case events.UIUpdateLevels:
		n.views.Levels.SetProgress(e.Progress)
	case events.UIUpdateSettings:
		n.views.Settings.SetProgress(e.Progress)
	case events.UIUpdateWeeklyBonus:
		n.views.Bonus.SetWeek(e.Progress)
	case events.UIUpdateDailyBonus:
		n.views.Bonus.SetDay(e.Bonus)
	case events.UIShowDailyBonus:
		n.Navigate(screen.DailyBonus)
	case events.UIUpdateShop:
		n.views.Shop.Refill(e.Offers)
	case events.UIUpdateShopItem:
		n.views.Shop.UpdateItem(e.Offer)
	case events.UIUpdateShopItems:
		n.views.Shop.UpdateItems(e.Offers)
	case events.UIShowOverlay:
		n.views.Overlay.Show()
	case events.UIHideOverlay:
		n.views.Overlay.Hide()
	}
}
