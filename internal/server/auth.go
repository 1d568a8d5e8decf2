package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var errNoToken = errors.New("no devtools token")

// tokenFromRequest reads the bearer token, falling back to the token query
// parameter for clients that cannot set headers (EventSource, WebSocket).
func tokenFromRequest(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(auth, "Bearer "); found && token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errNoToken
}

func checkToken(hash string, r *http.Request) error {
	token, err := tokenFromRequest(r)
	if err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
}
