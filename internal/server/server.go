// Package server is the devtools HTTP surface of the client: state
// inspection, remote input, save slot and sandbox storefront control, an
// event feed, metrics and API docs.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/playperu/ticketarcade/internal/assets"
	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/handler/health"
	"github.com/playperu/ticketarcade/internal/handler/remote"
	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/shop"
	"github.com/playperu/ticketarcade/internal/store"
	"github.com/playperu/ticketarcade/internal/views"
)

// Navigator exposes the current screen and the back history.
type Navigator interface {
	Current() screen.Screen
	History() []screen.Screen
}

// Shop exposes the purchase slot and receipt restore.
type Shop interface {
	Transaction() shop.Transaction
	IsInitialized() bool
	Restore(ctx context.Context) error
}

// SlotAdmin lists and removes save slots.
type SlotAdmin interface {
	List(ctx context.Context) ([]store.SlotInfo, error)
	Delete(ctx context.Context, name string) error
}

// Sandbox resolves deferred purchases of the sandbox storefront.
type Sandbox interface {
	Approve(productID string) error
	Decline(productID, reason string) error
}

// Deps are the client parts the devtools surface reads and drives. Views,
// Navigator and Shop are only touched on the event loop through Queue.
// Sandbox, Icons and Gatherer may be nil.
type Deps struct {
	Queue      *events.Queue
	Broker     *events.Broker
	Views      *views.Set
	Navigator  Navigator
	Shop       Shop
	Dispatcher remote.Dispatcher
	Slots      SlotAdmin
	Sandbox    Sandbox
	Icons      *assets.Resolver
	Gatherer   prometheus.Gatherer
	Health     *health.Handler
	// TokenHash is the bcrypt hash guarding mutating endpoints. Empty
	// leaves them open.
	TokenHash string
}

type Server struct {
	srv    *http.Server
	feed   *Feed
	logger *slog.Logger
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	feed := NewFeed(deps.Broker, logger)
	addRoutes(r, logger, deps, feed)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		feed:   feed,
		logger: logger,
	}
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	s.feed.Close()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
