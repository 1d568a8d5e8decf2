package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/ticketarcade/internal/assets"
)

func handleIcon(icons *assets.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if icons == nil {
			writeError(w, http.StatusNotFound, "icon not found")
			return
		}
		icon, ok := icons.Icon(chi.URLParam(r, "*"))
		if !ok {
			writeError(w, http.StatusNotFound, "icon not found")
			return
		}
		w.Header().Set("Content-Type", icon.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(icon.Data)))
		w.Header().Set("Cache-Control", "max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(icon.Data)
	}
}
