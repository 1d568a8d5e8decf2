package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/playperu/ticketarcade/internal/screen"
	"github.com/playperu/ticketarcade/internal/views"
)

// StateResponse is the response for GET /api/state.
type StateResponse struct {
	Screen      string           `json:"screen"`
	History     []string         `json:"history"`
	StoreReady  bool             `json:"storeReady"`
	Transaction TransactionState `json:"transaction"`
	Views       views.State      `json:"views"`
}

type TransactionState struct {
	ID     string `json:"id,omitempty"`
	ItemID string `json:"itemId,omitempty"`
	Phase  string `json:"phase"`
}

func handleState(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp StateResponse
		err := deps.Queue.Do(r.Context(), func() {
			resp = StateResponse{
				Screen:     deps.Navigator.Current().String(),
				History:    screenNames(deps.Navigator.History()),
				StoreReady: deps.Shop.IsInitialized(),
				Views:      deps.Views.State(),
			}
			tx := deps.Shop.Transaction()
			resp.Transaction.Phase = tx.Phase.String()
			if tx.ID != uuid.Nil {
				resp.Transaction.ID = tx.ID.String()
				resp.Transaction.ItemID = tx.Item.ID
			}
		})
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "client is not running")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func screenNames(ss []screen.Screen) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return out
}
