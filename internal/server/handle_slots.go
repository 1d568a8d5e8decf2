package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/ticketarcade/internal/store"
)

func handleListSlots(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := deps.Slots.List(r.Context())
		if err != nil {
			logger.Error("listing slots failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if slots == nil {
			slots = []store.SlotInfo{}
		}
		writeJSON(w, http.StatusOK, slots)
	}
}

func handleDeleteSlot(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := deps.Slots.Delete(r.Context(), name); err != nil {
			logger.Error("deleting slot failed", "slot", name, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("save slot deleted", "slot", name)
		w.WriteHeader(http.StatusNoContent)
	}
}
