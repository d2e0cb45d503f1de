package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirehub/backend/internal/common/logger"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "one failing",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(logger.NewDiscard(), tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("expected status %q, got %q", tt.wantBody, resp.Status)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("expected %d checks, got %v", len(tt.checks), resp.Checks)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(logger.NewDiscard(), nil)(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
