package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/ticketarcade/internal/game"
	"github.com/playperu/ticketarcade/internal/handler/remote"
	"github.com/playperu/ticketarcade/internal/store"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Ticket Arcade devtools API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Inspection and remote control of a running Ticket Arcade client.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports the save database and storefront. A storefront failure only degrades.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Client state")
	getState.SetDescription("Current screen, back history, purchase slot and every view.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getState)

	// POST /api/commands
	postCommand, _ := r.NewOperationContext(http.MethodPost, "/api/commands")
	postCommand.SetSummary("Send command")
	postCommand.SetDescription("Feeds an input, button press, purchase or navigation request into the client. Requires Bearer token.")
	postCommand.AddReqStructure(game.Command{})
	postCommand.AddRespStructure(remote.Ack{}, openapi.WithHTTPStatus(http.StatusOK))
	postCommand.AddRespStructure(remote.Ack{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postCommand.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postCommand)

	// GET /api/remote
	getRemote, _ := r.NewOperationContext(http.MethodGet, "/api/remote")
	getRemote.SetSummary("WebSocket remote")
	getRemote.SetDescription("Upgrades to a WebSocket that accepts commands and answers each with an ack. Pass token as query parameter.")
	getRemote.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getRemote)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events mirror of every event published in the client.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/slots
	listSlots, _ := r.NewOperationContext(http.MethodGet, "/api/slots")
	listSlots.SetSummary("List save slots")
	listSlots.AddRespStructure([]store.SlotInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listSlots)

	// DELETE /api/slots/{name}
	deleteSlot, _ := r.NewOperationContext(http.MethodDelete, "/api/slots/{name}")
	deleteSlot.SetSummary("Delete save slot")
	deleteSlot.SetDescription("Removes a stored slot. The running client keeps its progress and writes it again on shutdown. Requires Bearer token.")
	deleteSlot.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSlot.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteSlot)

	// POST /api/storefront/{productID}/approve
	approve, _ := r.NewOperationContext(http.MethodPost, "/api/storefront/{productID}/approve")
	approve.SetSummary("Approve deferred purchase")
	approve.SetDescription("Completes a deferred sandbox purchase. Requires Bearer token.")
	approve.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusAccepted))
	approve.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	approve.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(approve)

	// POST /api/storefront/{productID}/decline
	decline, _ := r.NewOperationContext(http.MethodPost, "/api/storefront/{productID}/decline")
	decline.SetSummary("Decline deferred purchase")
	decline.SetDescription("Fails a deferred sandbox purchase. Requires Bearer token.")
	decline.AddReqStructure(DeclineRequest{})
	decline.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusAccepted))
	decline.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	decline.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(decline)

	// POST /api/restore
	restore, _ := r.NewOperationContext(http.MethodPost, "/api/restore")
	restore.SetSummary("Restore receipts")
	restore.SetDescription("Asks the storefront for owned products and records them again. Requires Bearer token.")
	restore.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusAccepted))
	restore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	restore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(restore)

	// GET /icons/{key}
	getIcon, _ := r.NewOperationContext(http.MethodGet, "/icons/{key}")
	getIcon.SetSummary("Shop icon")
	getIcon.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getIcon.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getIcon)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
