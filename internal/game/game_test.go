package game_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/game"
	"github.com/playperu/ticketarcade/internal/navigator"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/shop"
	"github.com/playperu/ticketarcade/internal/storefront"
	"github.com/playperu/ticketarcade/internal/views"
)

var (
	noAds = catalog.Item{
		ID:       "no_ads",
		Category: "Extras",
		Name:     "No ads",
		Price:    decimal.RequireFromString("2.99"),
		Currency: catalog.RealMoney,
		Kind:     catalog.NonConsumable,
		Payouts:  map[string]int{catalog.PayoutTicket: 50, "Gem": 3},
	}
	booster = catalog.Item{
		ID:            "booster",
		Category:      "Boosters",
		Name:          "Booster",
		Price:         decimal.NewFromInt(10),
		Currency:      catalog.Tickets,
		RequiredLevel: 1,
		Kind:          catalog.Consumable,
	}
)

type client struct {
	broker    *events.Broker
	ledger    *progress.Ledger
	views     *views.Set
	nav       *navigator.Navigator
	coord     *shop.Coordinator
	presenter *game.Presenter
	slots     progress.MemorySlots
}

func newClient(t *testing.T, p *progress.Progress) *client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := events.NewBroker(logger, nil)

	ledger, err := progress.NewLedger(p, logger)
	require.NoError(t, err)

	sandbox, err := storefront.NewSandbox(storefront.SandboxConfig{})
	require.NoError(t, err)

	c := &client{broker: b, ledger: ledger, slots: progress.MemorySlots{}}
	c.views = views.NewSet(b, logger)
	c.views.Audio.Attach(b)
	c.nav = navigator.New(b, c.views.Navigator(), logger, nil)
	c.coord = shop.New(shop.Config{
		Broker:     b,
		Queue:      b,
		Storefront: sandbox,
		Wallet:     ledger,
		Local:      []catalog.Item{noAds, booster},
		Logger:     logger,
	})
	c.presenter = game.NewPresenter(b, ledger, c.coord, c.slots, progress.DefaultSlot, logger)
	hub := game.NewButtonHub(b, logger)

	t.Cleanup(func() {
		hub.Close()
		c.coord.Close()
		c.nav.Close()
		c.views.Audio.Detach(b)
	})

	c.presenter.Start()
	c.nav.Start()
	return c
}

func (c *client) press(e events.ButtonEvent) { c.broker.Publish(e) }

func TestStartPushesProgress(t *testing.T) {
	p := progress.Default()
	p.Tickets = 30
	p.Level = 4
	p.Music = false
	c := newClient(t, p)

	assert.Equal(t, 30, c.views.Menu.Tickets)
	assert.Equal(t, 4, c.views.Levels.Level)
	assert.False(t, c.views.Settings.Music)
	assert.False(t, c.views.Audio.Playing())
	assert.Equal(t, screen.Menu, c.nav.Current())
}

func TestCompletedNonConsumableAppliesOncePerEvent(t *testing.T) {
	c := newClient(t, progress.Default())

	completed := events.ShopEvent{Kind: events.ShopPurchaseCompleted, Item: noAds}
	c.broker.Publish(completed)
	c.broker.Publish(completed)

	snap := c.ledger.Snapshot()
	assert.Equal(t, []string{"no_ads"}, snap.PurchasedIDs())
	assert.Equal(t, 100, snap.Tickets)
	assert.Equal(t, 100, c.views.Menu.Tickets)
}

func TestTicketPurchaseFlow(t *testing.T) {
	p := progress.Default()
	p.Tickets = 25
	c := newClient(t, p)

	c.press(events.ButtonEvent{Kind: events.ButtonShop})
	require.Equal(t, screen.Shop, c.nav.Current())
	offer, ok := c.views.Shop.Offer("booster")
	require.True(t, ok)
	require.True(t, offer.Affordable)

	c.views.Focus.SelectItem(booster)
	c.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
	c.broker.Publish(events.InputEvent{Kind: events.InputConfirm})

	assert.Equal(t, 5, c.ledger.Tickets())
	assert.Equal(t, 5, c.views.Menu.Tickets)
	offer, _ = c.views.Shop.Offer("booster")
	assert.False(t, offer.Affordable)

	c.broker.Publish(events.InputEvent{Kind: events.InputConfirm})
	assert.Equal(t, 5, c.ledger.Tickets())
}

func TestPurchaseOverlayBlocksInput(t *testing.T) {
	c := newClient(t, progress.Default())
	c.press(events.ButtonEvent{Kind: events.ButtonShop})

	c.broker.Publish(events.ShopEvent{Kind: events.ShopPurchaseInitiated, Item: noAds})
	require.True(t, c.views.Overlay.IsShown())

	c.broker.Publish(events.InputEvent{Kind: events.InputCancel})
	assert.Equal(t, screen.Shop, c.nav.Current())

	c.broker.Publish(events.ShopEvent{Kind: events.ShopPurchaseDenied, Pending: true})
	assert.False(t, c.views.Overlay.IsShown())

	c.broker.Publish(events.InputEvent{Kind: events.InputCancel})
	assert.Equal(t, screen.Menu, c.nav.Current())
}

func TestDailyBonusButton(t *testing.T) {
	c := newClient(t, progress.Default())
	c.press(events.ButtonEvent{Kind: events.ButtonBonus})
	require.Equal(t, screen.WeeklyBonus, c.nav.Current())
	assert.True(t, c.views.Bonus.Claimable(2))

	bonus := progress.DailyBonus{Day: 2, Amount: 20}
	c.press(events.ButtonEvent{Kind: events.ButtonDailyBonus, Bonus: bonus})

	assert.Equal(t, 20, c.ledger.Tickets())
	assert.Equal(t, 20, c.views.Menu.Tickets)
	assert.Equal(t, screen.DailyBonus, c.nav.Current())
	assert.Equal(t, views.FaceDay, c.views.Bonus.Face)
	assert.Equal(t, bonus, c.views.Bonus.Day)

	c.press(events.ButtonEvent{Kind: events.ButtonDailyBonus, Bonus: bonus})
	assert.Equal(t, 20, c.ledger.Tickets())

	c.broker.Publish(events.InputEvent{Kind: events.InputCancel})
	assert.Equal(t, screen.Menu, c.nav.Current())

	c.press(events.ButtonEvent{Kind: events.ButtonBonus})
	assert.False(t, c.views.Bonus.Claimable(2))
}

func TestLevelButton(t *testing.T) {
	c := newClient(t, progress.Default())
	c.press(events.ButtonEvent{Kind: events.ButtonPlay})
	require.Equal(t, screen.Levels, c.nav.Current())

	c.press(events.ButtonEvent{Kind: events.ButtonLevel, Level: 1})
	assert.Equal(t, 2, c.ledger.Level())
	assert.Equal(t, views.LevelCompleted, c.views.Levels.State(1))
	assert.Equal(t, views.LevelPlayable, c.views.Levels.State(2))

	c.press(events.ButtonEvent{Kind: events.ButtonLevel, Level: 7})
	assert.Equal(t, 2, c.ledger.Level())

	c.press(events.ButtonEvent{Kind: events.ButtonLevel, Level: 1})
	assert.Equal(t, 2, c.ledger.Level())
}

func TestAudioButtons(t *testing.T) {
	c := newClient(t, progress.Default())
	c.press(events.ButtonEvent{Kind: events.ButtonSettings})
	clicks := c.views.Audio.Clicks

	c.press(events.ButtonEvent{Kind: events.ButtonMusic})
	assert.False(t, c.ledger.Snapshot().Music)
	assert.False(t, c.views.Settings.Music)
	assert.False(t, c.views.Audio.Playing())
	assert.Equal(t, clicks+1, c.views.Audio.Clicks)

	c.press(events.ButtonEvent{Kind: events.ButtonSound})
	assert.False(t, c.views.Settings.Sound)
	assert.Equal(t, clicks+1, c.views.Audio.Clicks, "no click once sound is off")
}

func TestReceiptsRestoredRecordsPurchases(t *testing.T) {
	c := newClient(t, progress.Default())
	c.press(events.ButtonEvent{Kind: events.ButtonShop})

	c.broker.Publish(events.GameEvent{Kind: events.GameReceiptsRestored, ProductIDs: []string{"no_ads"}})

	assert.True(t, c.ledger.IsPurchased("no_ads"))
	offer, ok := c.views.Shop.Offer("no_ads")
	require.True(t, ok)
	assert.True(t, offer.Purchased)
}

func TestCloseSavesProgress(t *testing.T) {
	c := newClient(t, progress.Default())
	c.broker.Publish(events.GameEvent{Kind: events.GameTicketsReceived, Tickets: 12})

	require.NoError(t, c.presenter.Close(context.Background()))

	var rec progress.Record
	require.NoError(t, json.Unmarshal(c.slots[progress.DefaultSlot], &rec))
	assert.Equal(t, 12, rec.Tickets)

	c.broker.Publish(events.GameEvent{Kind: events.GameTicketsReceived, Tickets: 5})
	assert.Equal(t, 12, c.ledger.Tickets())
}
