package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/ticketarcade/internal/assets"
	"github.com/playperu/ticketarcade/internal/catalog"
	"github.com/playperu/ticketarcade/internal/config"
	"github.com/playperu/ticketarcade/internal/database"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/game"
	"github.com/playperu/ticketarcade/internal/handler/health"
	"github.com/playperu/ticketarcade/internal/metrics"
	"github.com/playperu/ticketarcade/internal/migrations"
	"github.com/playperu/ticketarcade/internal/navigator"
	"github.com/playperu/ticketarcade/internal/progress"
	"github.com/playperu/ticketarcade/internal/server"
	"github.com/playperu/ticketarcade/internal/shop"
	"github.com/playperu/ticketarcade/internal/store"
	"github.com/playperu/ticketarcade/internal/storefront"
	"github.com/playperu/ticketarcade/internal/views"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Save slots ---
	if cfg.DBPath != database.Memory {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating save directory: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to save database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to save database", "path", cfg.DBPath)

	slots, err := store.NewSlots(db, []byte(cfg.SaveKey))
	if err != nil {
		return fmt.Errorf("opening save slots: %w", err)
	}
	p, err := progress.Load(ctx, slots, cfg.SaveSlot)
	if errors.Is(err, progress.ErrCorruptSlot) {
		logger.Warn("save slot is corrupt, starting from defaults", "slot", cfg.SaveSlot, "error", err)
		p = progress.Default()
	} else if err != nil {
		return err
	}
	ledger, err := progress.NewLedger(p, logger)
	if err != nil {
		return err
	}

	// --- Catalog and storefront ---
	local, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	sandbox, err := storefront.LoadSandbox(cfg.StorefrontPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("storefront config not found, using an empty sandbox", "path", cfg.StorefrontPath)
		sandbox, err = storefront.NewSandbox(storefront.SandboxConfig{})
	}
	if err != nil {
		return fmt.Errorf("loading storefront: %w", err)
	}
	logger.Info("catalog loaded", "items", len(local))

	// --- Client ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	broker := events.NewBroker(logger, m)
	queue := events.NewQueue(broker, 256)

	set := views.NewSet(broker, logger)
	set.Audio.Attach(broker)
	defer set.Audio.Detach(broker)

	nav := navigator.New(broker, set.Navigator(), logger, m)
	defer nav.Close()

	shopCfg := shop.Config{
		Broker:     broker,
		Queue:      queue,
		Storefront: sandbox,
		Wallet:     ledger,
		Local:      local,
		Logger:     logger,
		Metrics:    m,
	}
	if cfg.RequireConsent {
		shopCfg.Consent = sandbox
	}
	coord := shop.New(shopCfg)
	defer coord.Close()

	presenter := game.NewPresenter(broker, ledger, coord, slots, cfg.SaveSlot, logger)
	hub := game.NewButtonHub(broker, logger)
	defer hub.Close()

	icons, err := assets.NewResolver(os.DirFS(cfg.IconDir), cfg.IconCacheSize, logger)
	if err != nil {
		return err
	}

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return queue.Run(gctx)
	})

	if err := queue.Do(gctx, func() {
		presenter.Start()
		nav.Start()
	}); err != nil {
		return fmt.Errorf("starting client: %w", err)
	}
	logger.Info("client started", "slot", cfg.SaveSlot, "tickets", ledger.Tickets(), "level", ledger.Level())

	coord.Start(gctx)
	g.Go(func() error {
		select {
		case <-coord.Ready():
		case <-gctx.Done():
			return nil
		}
		if !coord.IsInitialized() {
			return nil
		}
		if err := coord.Restore(gctx); err != nil {
			logger.Warn("restoring receipts failed", "error", err)
		}
		return nil
	})

	if cfg.DevtoolsAddr != "off" {
		if cfg.DevtoolsTokenHash == "" {
			logger.Warn("devtools token not set, mutating endpoints are open")
		}
		srv := server.New(cfg.DevtoolsAddr, logger, server.Deps{
			Queue:      queue,
			Broker:     broker,
			Views:      set,
			Navigator:  nav,
			Shop:       coord,
			Dispatcher: game.NewController(queue, broker, set.Focus, coord, logger),
			Slots:      slots,
			Sandbox:    sandbox,
			Icons:      icons,
			Gatherer:   reg,
			Health: health.NewHandler(logger,
				map[string]health.Checker{"database": health.CheckFunc(db.PingContext)},
				map[string]health.Checker{"storefront": health.CheckFunc(func(context.Context) error {
					if !coord.IsInitialized() {
						return storefront.ErrNotInitialized
					}
					return nil
				})},
			),
			TokenHash: cfg.DevtoolsTokenHash,
		})

		g.Go(func() error {
			logger.Info("starting devtools server", "addr", cfg.DevtoolsAddr)
			return srv.Run(gctx)
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down devtools server")
			return srv.Shutdown(context.Background())
		})
	}

	err = g.Wait()

	// The loop has stopped, so the presenter can be closed from here.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := presenter.Close(saveCtx); cerr != nil {
		err = errors.Join(err, fmt.Errorf("saving progress: %w", cerr))
	}
	return err
}
