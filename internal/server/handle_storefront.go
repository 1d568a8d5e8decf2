package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/ticketarcade/internal/storefront"
)

// DeclineRequest is the optional body for POST /api/storefront/{productID}/decline.
type DeclineRequest struct {
	Reason string `json:"reason"`
}

func handleApprove(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sandbox == nil {
			writeError(w, http.StatusNotFound, "sandbox storefront not in use")
			return
		}
		id := chi.URLParam(r, "productID")
		if err := deps.Sandbox.Approve(id); err != nil {
			writeSandboxError(w, logger, id, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func handleDecline(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sandbox == nil {
			writeError(w, http.StatusNotFound, "sandbox storefront not in use")
			return
		}
		var req DeclineRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Reason == "" {
			req.Reason = "declined"
		}
		id := chi.URLParam(r, "productID")
		if err := deps.Sandbox.Decline(id, req.Reason); err != nil {
			writeSandboxError(w, logger, id, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeSandboxError(w http.ResponseWriter, logger *slog.Logger, id string, err error) {
	if errors.Is(err, storefront.ErrUnknownProduct) {
		writeError(w, http.StatusNotFound, "no deferred purchase for product")
		return
	}
	logger.Error("resolving deferred purchase failed", "product_id", id, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func handleRestore(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Shop.Restore(r.Context())
		if errors.Is(err, storefront.ErrNotInitialized) {
			writeError(w, http.StatusConflict, "store is not initialized")
			return
		}
		if err != nil {
			logger.Error("restoring receipts failed", "error", err)
			writeError(w, http.StatusBadGateway, "storefront error")
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
