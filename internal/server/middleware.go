package server

import (
	"log/slog"
	"net/http"
)

// tokenAuthMiddleware rejects requests without a token matching hash. An
// empty hash disables the check.
func tokenAuthMiddleware(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := checkToken(hash, r); err != nil {
				logger.Debug("devtools request rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
