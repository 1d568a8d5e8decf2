package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/ticketarcade/internal/events"
	"github.com/playperu/ticketarcade/internal/game"
	"github.com/playperu/ticketarcade/internal/handler/remote"
)

func handleCommand(deps Deps, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd game.Command
		if err := readJSON(r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := deps.Dispatcher.Dispatch(r.Context(), cmd)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, remote.Ack{Type: cmd.Type, OK: true})
		case errors.Is(err, game.ErrUnknownCommand), errors.Is(err, game.ErrUnknownItem):
			writeJSON(w, http.StatusBadRequest, remote.Ack{Type: cmd.Type, Error: err.Error()})
		case errors.Is(err, events.ErrQueueStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "client is not running")
		default:
			logger.Error("dispatching command failed", "type", cmd.Type, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}
