package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker verifies that a dependency of the client is usable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// Handler reports the state of every registered check. A failing required
// check makes the client unhealthy; a failing optional check only marks it
// degraded.
type Handler struct {
	required map[string]Checker
	optional map[string]Checker
	logger   *slog.Logger
}

func NewHandler(logger *slog.Logger, required, optional map[string]Checker) *Handler {
	return &Handler{required: required, optional: optional, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rep := report{Status: "ok", Checks: make(map[string]string, len(h.required)+len(h.optional))}
	status := http.StatusOK

	for name, c := range h.optional {
		if err := c.Check(ctx); err != nil {
			h.logger.Warn("optional health check failed", "name", name, "error", err)
			rep.Checks[name] = "degraded"
			rep.Status = "degraded"
			continue
		}
		rep.Checks[name] = "ok"
	}
	for name, c := range h.required {
		if err := c.Check(ctx); err != nil {
			h.logger.Error("health check failed", "name", name, "error", err)
			rep.Checks[name] = "error"
			rep.Status = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		rep.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rep)
}
