package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/ticketarcade/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		required   map[string]health.Checker
		optional   map[string]health.Checker
		wantStatus int
		wantState  string
		wantChecks map[string]string
	}{
		{
			name:       "all healthy",
			required:   map[string]health.Checker{"database": mockChecker{}},
			optional:   map[string]health.Checker{"storefront": mockChecker{}},
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantChecks: map[string]string{"database": "ok", "storefront": "ok"},
		},
		{
			name:       "storefront offline",
			required:   map[string]health.Checker{"database": mockChecker{}},
			optional:   map[string]health.Checker{"storefront": mockChecker{err: errors.New("not initialized")}},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
			wantChecks: map[string]string{"database": "ok", "storefront": "degraded"},
		},
		{
			name:       "database down",
			required:   map[string]health.Checker{"database": mockChecker{err: errors.New("locked")}},
			optional:   map[string]health.Checker{"storefront": mockChecker{}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "error",
			wantChecks: map[string]string{"database": "error", "storefront": "ok"},
		},
		{
			name: "both down",
			required: map[string]health.Checker{
				"database": health.CheckFunc(func(context.Context) error { return errors.New("db") }),
			},
			optional:   map[string]health.Checker{"storefront": mockChecker{err: errors.New("offline")}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "error",
			wantChecks: map[string]string{"database": "error", "storefront": "degraded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.required, tt.optional)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Status string
				Checks map[string]string
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			if body.Status != tt.wantState {
				t.Errorf("status field = %q, want %q", body.Status, tt.wantState)
			}
			for name, want := range tt.wantChecks {
				if got := body.Checks[name]; got != want {
					t.Errorf("%s = %q, want %q", name, got, want)
				}
			}
		})
	}
}
