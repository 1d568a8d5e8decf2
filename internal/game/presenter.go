// Package game wires player progress to the rest of the client. The
// Presenter applies domain events to the ledger and pushes the results to
// the screens; the ButtonHub turns button presses into intents.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/screen"
)

// Inventory supplies the items the shop currently offers.
type Inventory interface {
	MergedCatalog(ctx context.Context) *catalog.Set
}

// Presenter is driven from the event loop goroutine.
type Presenter struct {
	broker    *events.Broker
	ledger    *progress.Ledger
	inventory Inventory
	slots     progress.SlotStore
	slot      string
	logger    *slog.Logger
	subs      []events.Subscription
}

func NewPresenter(b *events.Broker, ledger *progress.Ledger, inv Inventory, slots progress.SlotStore, slot string, logger *slog.Logger) *Presenter {
	p := &Presenter{
		broker:    b,
		ledger:    ledger,
		inventory: inv,
		slots:     slots,
		slot:      slot,
		logger:    logger,
	}
	p.subs = []events.Subscription{
		events.Subscribe(b, p.handleGame),
		events.Subscribe(b, p.handleShop),
		events.Subscribe(b, p.handleAudio),
	}
	return p
}

// Start pushes the loaded progress to the screens and the audio player.
func (p *Presenter) Start() {
	p.publishSettings()
	p.publishTickets()
	p.publishLevels()
}

// Close releases the subscriptions and saves the progress to the slot.
func (p *Presenter) Close(ctx context.Context) error {
	p.broker.UnsubscribeAll(p.subs)
	p.subs = nil
	if err := progress.Save(ctx, p.slots, p.slot, p.ledger.Progress()); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	p.logger.Info("progress saved", "slot", p.slot)
	return nil
}

func (p *Presenter) handleGame(e events.GameEvent) {
	switch e.Kind {
	case events.GameTicketsReceived:
		if e.Bonus != nil {
			if !p.ledger.ClaimDailyBonus(*e.Bonus) {
				p.logger.Debug("daily bonus already claimed", "day", e.Bonus.Day)
			}
		} else {
			p.ledger.AddTickets(e.Tickets)
		}
		p.publishTickets()
	case events.GameTicketsSpent:
		if !p.ledger.SpendTickets(e.Tickets) {
			p.logger.Warn("ticket spend refused", "amount", e.Tickets, "balance", p.ledger.Tickets())
		}
		p.publishTickets()
	case events.GameLevelAcquired:
		if e.Level > p.ledger.Level() {
			p.logger.Debug("locked level ignored", "level", e.Level)
			return
		}
		p.ledger.SetLevel(e.Level + 1)
		p.publishLevels()
	case events.GameViewShown:
		p.viewShown(e.Screen)
	case events.GameStoreInitialized:
		p.publish(events.UIEvent{Kind: events.UIUpdateShop, Offers: p.offers()})
	case events.GameReceiptsRestored:
		for _, id := range e.ProductIDs {
			p.ledger.AddPurchase(id)
		}
		p.publish(events.UIEvent{Kind: events.UIUpdateShopItems, Offers: p.offers()})
	}
}

func (p *Presenter) viewShown(s screen.Screen) {
	switch s {
	case screen.WeeklyBonus:
		p.publish(events.UIEvent{Kind: events.UIUpdateWeeklyBonus, Progress: p.ledger.Snapshot()})
	case screen.DailyBonus:
		if b, ok := p.ledger.LastBonus(); ok {
			p.publish(events.UIEvent{Kind: events.UIUpdateDailyBonus, Bonus: b})
		}
	case screen.Shop:
		p.publish(events.UIEvent{Kind: events.UIUpdateShop, Offers: p.offers()})
	}
}

func (p *Presenter) handleShop(e events.ShopEvent) {
	switch e.Kind {
	case events.ShopPurchaseInitiated:
		p.publish(events.UIEvent{Kind: events.UIShowOverlay})
	case events.ShopPurchaseDenied:
		p.publish(events.UIEvent{Kind: events.UIHideOverlay})
	case events.ShopPurchaseCompleted:
		p.publish(events.UIEvent{Kind: events.UIHideOverlay})
		p.apply(e.Item)
		p.publishTickets()
		p.publish(events.UIEvent{Kind: events.UIUpdateShopItems, Offers: p.offers()})
	}
}

// apply grants a completed purchase. Payout keys the client does not know
// are skipped.
func (p *Presenter) apply(it catalog.Item) {
	if it.Kind == catalog.NonConsumable {
		p.ledger.AddPurchase(it.ID)
	}
	for _, key := range slices.Sorted(maps.Keys(it.Payouts)) {
		switch key {
		case catalog.PayoutTicket:
			p.ledger.AddTickets(it.Payouts[key])
		default:
			p.logger.Warn("payout key is not supported", "item_id", it.ID, "key", key)
		}
	}
}

func (p *Presenter) handleAudio(e events.AudioEvent) {
	switch e.Kind {
	case events.AudioTurnMusic:
		p.ledger.ToggleMusic()
		p.publishSettings()
	case events.AudioTurnSound:
		p.ledger.ToggleSound()
		p.publishSettings()
	}
}

func (p *Presenter) publishSettings() {
	snap := p.ledger.Snapshot()
	p.publish(events.UIEvent{Kind: events.UIUpdateSettings, Progress: snap})
	p.publish(events.AudioEvent{Kind: events.AudioSettingsChanged, Music: snap.Music, Sound: snap.Sound})
}

func (p *Presenter) publishTickets() {
	p.publish(events.UIEvent{Kind: events.UIUpdateTickets, Tickets: p.ledger.Tickets()})
}

func (p *Presenter) publishLevels() {
	p.publish(events.UIEvent{Kind: events.UIUpdateLevels, Progress: p.ledger.Snapshot()})
}

func (p *Presenter) offers() []catalog.Offer {
	return catalog.Offers(p.inventory.MergedCatalog(context.Background()), p.ledger)
}

func (p *Presenter) publish(e events.Event) { p.broker.Publish(e) }
