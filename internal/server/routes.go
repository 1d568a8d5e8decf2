package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/ticketarcade/internal/handler/remote"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, feed *Feed) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Ticket Arcade devtools", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health.Routes())
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/icons/*", handleIcon(deps.Icons))

	// Read-only inspection.
	r.Get("/api/state", handleState(deps))
	r.Get("/api/slots", handleListSlots(deps, logger))
	r.Get("/api/events", handleEvents(feed))

	// Anything that changes the client requires the devtools token.
	r.Group(func(r chi.Router) {
		r.Use(tokenAuthMiddleware(deps.TokenHash, logger))
		r.Post("/api/commands", handleCommand(deps, logger))
		r.Mount("/api/remote", remote.NewHandler(deps.Dispatcher, logger).Routes())
		r.Delete("/api/slots/{name}", handleDeleteSlot(deps, logger))
		r.Post("/api/storefront/{productID}/approve", handleApprove(deps, logger))
		r.Post("/api/storefront/{productID}/decline", handleDecline(deps, logger))
		r.Post("/api/restore", handleRestore(deps, logger))
	})
}
