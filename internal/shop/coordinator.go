// Package shop runs purchases: it opens the storefront session, serves the
// merged catalog and drives the single in-flight transaction from request
// to outcome.
package shop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/metrics"
	"github.com/playperu/ticketarcade/internal/storefront"
)

// Config wires a Coordinator. Consent and Metrics are optional.
type Config struct {
	// Broker is used for subscriptions and for publishing on the loop.
	Broker *events.Broker
	// Queue receives events raised on storefront goroutines.
	Queue      events.Publisher
	Storefront storefront.Storefront
	Consent    storefront.ConsentChecker
	Wallet     catalog.Wallet
	Local      []catalog.Item
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Coordinator is driven from the event loop goroutine. Start and the
// storefront listener are the only entry points used from elsewhere.
type Coordinator struct {
	broker  *events.Broker
	queue   events.Publisher
	front   storefront.Storefront
	consent storefront.ConsentChecker
	wallet  catalog.Wallet
	local   []catalog.Item
	logger  *slog.Logger
	metrics *metrics.Metrics

	once        sync.Once
	initialized atomic.Bool
	ready       chan struct{}

	slot     Transaction
	receipts map[string]struct{}
	subs     []events.Subscription
}

func New(cfg Config) *Coordinator {
	c := &Coordinator{
		broker:   cfg.Broker,
		queue:    cfg.Queue,
		front:    cfg.Storefront,
		consent:  cfg.Consent,
		wallet:   cfg.Wallet,
		local:    cfg.Local,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		ready:    make(chan struct{}),
		receipts: make(map[string]struct{}),
	}
	c.subs = []events.Subscription{
		events.Subscribe(c.broker, c.handle),
	}
	return c
}

// Start opens the storefront session in the background. Only the first
// call has an effect; ctx only bounds the initialization itself.
func (c *Coordinator) Start(ctx context.Context) {
	c.once.Do(func() {
		go c.initialize(ctx)
	})
}

// Ready is closed once the initialization attempt has finished, whether or
// not it succeeded.
func (c *Coordinator) Ready() <-chan struct{} { return c.ready }

func (c *Coordinator) IsInitialized() bool { return c.initialized.Load() }

func (c *Coordinator) initialize(ctx context.Context) {
	defer close(c.ready)

	if c.consent != nil {
		if err := c.consent.CheckRequiredConsents(ctx); err != nil {
			c.logger.Error("consent check failed", "error", err)
			return
		}
	}
	if err := c.front.Initialize(ctx, c.onOutcome); err != nil {
		c.logger.Error("store initialization failed", "error", err)
		return
	}

	c.initialized.Store(true)
	c.logger.Info("store initialized")
	c.queue.Publish(events.GameEvent{Kind: events.GameStoreInitialized})
}

func (c *Coordinator) onOutcome(o storefront.Outcome) {
	c.queue.Publish(events.ShopEvent{Kind: events.ShopStorefrontOutcome, Outcome: o})
}

func (c *Coordinator) Close() {
	c.broker.UnsubscribeAll(c.subs)
	c.subs = nil
}

// Transaction returns the in-flight transaction. Its phase is Idle when
// nothing is in flight.
func (c *Coordinator) Transaction() Transaction { return c.slot }

// MergedCatalog returns the shop inventory. Before the session is open, or
// when the live listing cannot be fetched, only local items are offered.
func (c *Coordinator) MergedCatalog(ctx context.Context) *catalog.Set {
	if !c.IsInitialized() {
		return catalog.NewSet(c.local...)
	}
	live, err := c.front.Products(ctx)
	if err != nil {
		c.logger.Warn("listing live products failed", "error", err)
		return catalog.NewSet(c.local...)
	}
	return catalog.Merge(c.local, live, c.logger)
}

func (c *Coordinator) ItemByID(ctx context.Context, id string) (catalog.Item, bool) {
	return c.MergedCatalog(ctx).Get(id)
}

// Restore publishes the ids of owned non-consumable products so they can
// be recorded again.
func (c *Coordinator) Restore(ctx context.Context) error {
	if !c.IsInitialized() {
		return storefront.ErrNotInitialized
	}
	ids, err := c.front.Receipts(ctx)
	if err != nil {
		return fmt.Errorf("querying receipts: %w", err)
	}
	c.logger.Info("receipts restored", "count", len(ids))
	c.queue.Publish(events.GameEvent{Kind: events.GameReceiptsRestored, ProductIDs: ids})
	return nil
}

func (c *Coordinator) handle(e events.ShopEvent) {
	switch e.Kind {
	case events.ShopPurchaseRequested:
		c.Request(e.Item)
	case events.ShopStorefrontOutcome:
		c.resolve(e.Outcome)
	}
}

// Request starts a purchase of it, replacing whatever transaction was in
// flight. Requests the player cannot afford or has not unlocked are
// dropped without an event.
func (c *Coordinator) Request(it catalog.Item) {
	c.slot = Transaction{ID: uuid.New(), Item: it, Phase: Idle}

	switch it.Currency {
	case catalog.Tickets:
		c.buyWithTickets(it)
	case catalog.RealMoney:
		c.buyProduct(it)
	default:
		c.reset()
	}
}

func (c *Coordinator) buyWithTickets(it catalog.Item) {
	affordable := decimal.NewFromInt(int64(c.wallet.Tickets())).GreaterThanOrEqual(it.Price)
	if !affordable || c.wallet.Level() < it.RequiredLevel {
		c.logger.Debug("ticket purchase rejected",
			"item_id", it.ID,
			"tickets", c.wallet.Tickets(),
			"level", c.wallet.Level(),
		)
		c.metrics.Purchase(it.Currency.String(), "rejected")
		c.reset()
		return
	}

	c.broker.Publish(events.GameEvent{Kind: events.GameTicketsSpent, Tickets: it.TicketPrice()})
	c.complete(it)
}

func (c *Coordinator) buyProduct(it catalog.Item) {
	if c.wallet.Level() < it.RequiredLevel {
		c.logger.Debug("purchase rejected: level too low", "item_id", it.ID, "required_level", it.RequiredLevel)
		c.metrics.Purchase(it.Currency.String(), "rejected")
		c.reset()
		return
	}
	if !c.IsInitialized() {
		c.logger.Info("purchasing is not initialized", "item_id", it.ID)
		c.metrics.Purchase(it.Currency.String(), "unavailable")
		c.reset()
		return
	}
	if err := c.front.Purchase(context.Background(), it.ID); err != nil {
		c.logger.Warn("cannot purchase product", "item_id", it.ID, "error", err)
		c.metrics.Purchase(it.Currency.String(), "unavailable")
		c.reset()
		return
	}

	c.slot.Phase = Initiated
	c.logger.Info("purchasing product", "item_id", it.ID, "transaction_id", c.slot.ID)
	c.metrics.Purchase(it.Currency.String(), "initiated")
	c.broker.Publish(events.ShopEvent{
		Kind:          events.ShopPurchaseInitiated,
		TransactionID: c.slot.ID,
		Item:          it,
	})
}

func (c *Coordinator) resolve(o storefront.Outcome) {
	switch o.Status {
	case storefront.Deferred:
		c.deferred(o)
	case storefront.Completed:
		if o.Receipt == "" {
			c.deferred(o)
			return
		}
		if _, seen := c.receipts[o.Receipt]; seen {
			c.logger.Debug("duplicate receipt ignored", "product_id", o.ProductID, "receipt", o.Receipt)
			return
		}
		c.receipts[o.Receipt] = struct{}{}

		it, ok := c.resolveItem(o.ProductID)
		if !ok {
			c.logger.Warn("completed purchase of unknown product", "product_id", o.ProductID)
			c.reset()
			return
		}
		c.logger.Info("purchase complete", "product_id", o.ProductID)
		c.complete(it)
	case storefront.Failed:
		c.logger.Info("purchase failed", "product_id", o.ProductID, "reason", o.Reason)
		c.slot.Phase = Denied
		c.metrics.Purchase(catalog.RealMoney.String(), "failed")
		c.broker.Publish(events.ShopEvent{
			Kind:          events.ShopPurchaseDenied,
			TransactionID: c.slot.ID,
			Item:          c.slot.Item,
			Reason:        o.Reason,
		})
		c.reset()
	}
}

func (c *Coordinator) deferred(o storefront.Outcome) {
	c.logger.Info("purchase deferred", "product_id", o.ProductID)
	if c.slot.Open() {
		c.slot.Phase = Pending
	}
	c.metrics.Purchase(catalog.RealMoney.String(), "deferred")
	c.broker.Publish(events.ShopEvent{
		Kind:          events.ShopPurchaseDenied,
		TransactionID: c.slot.ID,
		Item:          c.slot.Item,
		Pending:       true,
	})
}

// resolveItem prefers the remembered request and falls back to the
// catalog when the slot has been cleared.
func (c *Coordinator) resolveItem(productID string) (catalog.Item, bool) {
	if c.slot.Open() {
		return c.slot.Item, true
	}
	return c.ItemByID(context.Background(), productID)
}

func (c *Coordinator) complete(it catalog.Item) {
	c.slot.Phase = Completed
	c.metrics.Purchase(it.Currency.String(), "completed")
	c.broker.Publish(events.ShopEvent{
		Kind:          events.ShopPurchaseCompleted,
		TransactionID: c.slot.ID,
		Item:          it,
	})
	c.reset()
}

func (c *Coordinator) reset() {
	c.slot = Transaction{}
}
