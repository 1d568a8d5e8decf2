// Package remote serves a WebSocket that drives the client with JSON
// commands, one acknowledgement per command.
package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/ticketarcade/internal/game"
)

// Dispatcher runs a command against the client.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd game.Command) error
}

// Ack answers a single command.
type Ack struct {
	Type  string `json:"type"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Handler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewHandler(d Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{dispatcher: d, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.serve)
	return r
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	h.logger.Info("remote connected", "remote_addr", r.RemoteAddr)
	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			h.logger.Debug("websocket read ended", "error", err)
			return
		}

		if err := wsjson.Write(ctx, conn, h.handle(ctx, msg)); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) handle(ctx context.Context, msg []byte) Ack {
	var cmd game.Command
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return Ack{Error: "invalid command: " + err.Error()}
	}
	if err := h.dispatcher.Dispatch(ctx, cmd); err != nil {
		h.logger.Debug("remote command failed", "type", cmd.Type, "error", err)
		return Ack{Type: cmd.Type, Error: err.Error()}
	}
	return Ack{Type: cmd.Type, OK: true}
}
