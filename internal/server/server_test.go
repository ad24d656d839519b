package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter("test-key", nil, Dependencies{})

	tests := []struct {
		name   string
		method string
		path   string
		key    bool
		want   int
	}{
		{"liveness is public", http.MethodGet, "/healthz", false, http.StatusOK},
		{"readiness without backends", http.MethodGet, "/readyz", false, http.StatusOK},
		{"version is public", http.MethodGet, "/version", false, http.StatusOK},
		{"api requires key", http.MethodGet, "/api/v1/link/status?platform_id=1", false, http.StatusUnauthorized},
		{"callback is public and needs state", http.MethodGet, "/oauth/callback?code=abc", false, http.StatusBadRequest},
		{"missing query param", http.MethodGet, "/api/v1/token/info", true, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/v1/link/begin", true, http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/v1/nope", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key {
				req.Header.Set(HeaderAPIKey, "test-key")
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
