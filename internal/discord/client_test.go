package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

func TestAPIClient_BeginLink(t *testing.T) {
	ctx := SetupTestContext(t)
	expires := time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC)

	ctx.Mux.HandleFunc("POST /api/v1/link/begin", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("X-API-Key"))
		var req handler.BeginLinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req.PlatformID)
		assert.Equal(t, []domain.Scope{domain.ScopeIdentify}, req.Scopes)

		WriteJSON(w, http.StatusOK, handler.BeginLinkResponse{
			AuthorizationURL: "https://osu.ppy.sh/oauth/authorize?state=abc_42",
			State:            "abc_42",
			Scopes:           req.Scopes,
			ExpiresAt:        expires,
		})
	})

	resp, err := ctx.APIClient.BeginLink(context.Background(), "42", []domain.Scope{domain.ScopeIdentify})
	require.NoError(t, err)
	assert.Equal(t, "abc_42", resp.State)
	assert.True(t, expires.Equal(resp.ExpiresAt))
}

func TestAPIClient_ErrorDecoding(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("GET /api/v1/osu/me", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusForbidden, handler.ErrorResponse{
			Error:   "missing scopes",
			Missing: []domain.Scope{domain.ScopeFriendsRead},
		})
	})

	_, err := ctx.APIClient.Me(context.Background(), "42", domain.ModeDefault)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "missing scopes", apiErr.Message)
	assert.Equal(t, []domain.Scope{domain.ScopeFriendsRead}, apiErr.Missing)
	assert.True(t, IsStatus(err, http.StatusForbidden))
}

func TestAPIClient_NonJSONErrorUsesStatusText(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("POST /api/v1/link/unlink", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := ctx.APIClient.Unlink(context.Background(), "42")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusNotFound), apiErr.Message)
}

func TestAPIClient_Retries(t *testing.T) {
	t.Run("retries internal errors then succeeds", func(t *testing.T) {
		ctx := SetupTestContext(t)
		var calls atomic.Int32
		ctx.Mux.HandleFunc("GET /api/v1/link/status", func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			WriteJSON(w, http.StatusOK, map[string]interface{}{"platform_id": "42", "linked": true})
		})

		status, err := ctx.APIClient.LinkStatus(context.Background(), "42")
		require.NoError(t, err)
		assert.True(t, status.Linked)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		ctx := SetupTestContext(t)
		var calls atomic.Int32
		ctx.Mux.HandleFunc("GET /api/v1/link/status", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := ctx.APIClient.LinkStatus(context.Background(), "42")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries exceeded")
		assert.Equal(t, int32(DefaultMaxRetries+1), calls.Load())
	})

	t.Run("does not retry upstream failures", func(t *testing.T) {
		ctx := SetupTestContext(t)
		var calls atomic.Int32
		ctx.Mux.HandleFunc("GET /api/v1/link/status", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			WriteJSON(w, http.StatusBadGateway, handler.ErrorResponse{Error: "osu! unavailable"})
		})

		_, err := ctx.APIClient.LinkStatus(context.Background(), "42")
		assert.True(t, IsStatus(err, http.StatusBadGateway))
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestAPIClient_QueryParameters(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("GET /api/v1/osu/users/{user}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "some player", r.PathValue("user"))
		assert.Equal(t, "42", r.URL.Query().Get("platform_id"))
		assert.Equal(t, "mania", r.URL.Query().Get("mode"))
		WriteJSON(w, http.StatusOK, map[string]interface{}{"user": map[string]interface{}{"id": 2}})
	})
	ctx.Mux.HandleFunc("GET /api/v1/osu/me", func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("mode"))
		WriteJSON(w, http.StatusOK, map[string]interface{}{"id": 1})
	})

	view, err := ctx.APIClient.User(context.Background(), "42", "some player", osuapi.LookupAuto, domain.ModeMania)
	require.NoError(t, err)
	require.NotNil(t, view.User)
	assert.Equal(t, int64(2), *view.User.ID)

	me, err := ctx.APIClient.Me(context.Background(), "42", domain.ModeDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *me.ID)
}

func TestAPIClient_TrackUpdate(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("POST /api/v1/osutrack/update", func(w http.ResponseWriter, r *http.Request) {
		var req handler.TrackUpdateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req.PlatformID)
		assert.Equal(t, "", req.User)
		assert.Equal(t, "taiko", req.Mode)
		WriteJSON(w, http.StatusOK, osutrack.UpdateResponse{Username: "peppy", First: true})
	})

	update, err := ctx.APIClient.TrackUpdate(context.Background(), "42", "", domain.ModeTaiko)
	require.NoError(t, err)
	assert.Equal(t, "peppy", update.Username)
	assert.True(t, update.First)
}

func TestAPIClient_Healthy(t *testing.T) {
	ctx := SetupTestContext(t)
	assert.False(t, ctx.APIClient.Healthy(context.Background()))

	ctx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, ctx.APIClient.Healthy(context.Background()))
}
