package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/views"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownItem    = errors.New("unknown item")
)

// Command is a remote input, as sent by the devtools remote and API.
type Command struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Level  int    `json:"level,omitempty"`
	Day    int    `json:"day,omitempty"`
	Amount int    `json:"amount,omitempty"`
	ItemID string `json:"itemId,omitempty"`
}

// ItemFinder resolves a catalog item by id.
type ItemFinder interface {
	ItemByID(ctx context.Context, id string) (catalog.Item, bool)
}

// Controller feeds remote commands into the client as if they came from
// the device. Buttons and purchases are focused and then confirmed, so the
// overlay lock applies to them like to a real press.
type Controller struct {
	queue  *events.Queue
	broker *events.Broker
	focus  *views.Focus
	items  ItemFinder
	logger *slog.Logger
}

func NewController(q *events.Queue, b *events.Broker, focus *views.Focus, items ItemFinder, logger *slog.Logger) *Controller {
	return &Controller{queue: q, broker: b, focus: focus, items: items, logger: logger}
}

// Dispatch validates cmd and runs it on the event loop. It returns once the
// command and everything it published synchronously has been handled.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	var fn func()

	switch cmd.Type {
	case "input":
		kind, ok := events.ParseInput(cmd.Name)
		if !ok {
			return fmt.Errorf("input %q: %w", cmd.Name, ErrUnknownCommand)
		}
		fn = func() { c.broker.Publish(events.InputEvent{Kind: kind}) }

	case "button":
		kind, ok := events.ParseButton(cmd.Name)
		if !ok {
			return fmt.Errorf("button %q: %w", cmd.Name, ErrUnknownCommand)
		}
		if kind == events.ButtonDailyBonus && (cmd.Day < 1 || cmd.Amount <= 0) {
			return fmt.Errorf("daily bonus day %d amount %d: %w", cmd.Day, cmd.Amount, ErrUnknownCommand)
		}
		press := events.ButtonEvent{
			Kind:  kind,
			Level: cmd.Level,
			Bonus: progress.DailyBonus{Day: cmd.Day, Amount: cmd.Amount},
		}
		fn = func() {
			c.focus.SelectButton(press)
			c.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
		}

	case "purchase":
		it, ok := c.items.ItemByID(ctx, cmd.ItemID)
		if !ok {
			return fmt.Errorf("item %q: %w", cmd.ItemID, ErrUnknownItem)
		}
		fn = func() {
			c.focus.SelectItem(it)
			c.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
		}

	case "navigate":
		target, ok := screen.Parse(cmd.Name)
		if !ok {
			return fmt.Errorf("screen %q: %w", cmd.Name, ErrUnknownCommand)
		}
		fn = func() { c.broker.Publish(events.NavigationRequest{Target: target}) }

	default:
		return fmt.Errorf("type %q: %w", cmd.Type, ErrUnknownCommand)
	}

	c.logger.Debug("dispatching remote command", "type", cmd.Type, "name", cmd.Name, "item", cmd.ItemID)
	return c.queue.Do(ctx, fn)
}
