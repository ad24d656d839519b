package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/linking"
)

func postJSON(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
}

// ============================================================================
// REQUEST VALIDATION TESTS
// ============================================================================

func TestHandleBegin_InvalidJSON(t *testing.T) {
	svc := new(MockLinkingService)
	h := NewLinkingHandlers(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/link/begin", bytes.NewBufferString("invalid json"))
	w := httptest.NewRecorder()
	h.HandleBegin().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Begin")
}

func TestHandleBegin_RejectsUnknownScope(t *testing.T) {
	svc := new(MockLinkingService)
	h := NewLinkingHandlers(svc, nil)

	w := httptest.NewRecorder()
	h.HandleBegin().ServeHTTP(w, postJSON(t, "/api/v1/link/begin", map[string]interface{}{
		"platform_id": "123",
		"scopes":      []string{"public", "admin"},
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "scopes[1]")
	svc.AssertNotCalled(t, "Begin")
}

func TestHandleBegin_Success(t *testing.T) {
	svc := new(MockLinkingService)
	h := NewLinkingHandlers(svc, nil)
	deadline := time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC)

	svc.On("Begin", mock.Anything, "123", []domain.Scope{domain.ScopeIdentify}).
		Return(&domain.AuthorizationState{
			PlatformID: "123",
			State:      "123_1767268800",
			Scopes:     []domain.Scope{domain.ScopeIdentify},
			Deadline:   deadline,
		}, "https://osu.ppy.sh/oauth/authorize?state=123_1767268800", nil)

	w := httptest.NewRecorder()
	h.HandleBegin().ServeHTTP(w, postJSON(t, "/api/v1/link/begin", BeginLinkRequest{
		PlatformID: "123",
		Scopes:     []domain.Scope{domain.ScopeIdentify},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp BeginLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "123_1767268800", resp.State)
	assert.Contains(t, resp.AuthorizationURL, "state=123_1767268800")
	assert.True(t, deadline.Equal(resp.ExpiresAt))
	svc.AssertExpectations(t)
}

func TestHandleBegin_AlreadyLinked(t *testing.T) {
	svc := new(MockLinkingService)
	h := NewLinkingHandlers(svc, nil)
	svc.On("Begin", mock.Anything, "123", mock.Anything).Return(nil, "", domain.ErrAlreadyLinked)

	w := httptest.NewRecorder()
	h.HandleBegin().ServeHTTP(w, postJSON(t, "/api/v1/link/begin", BeginLinkRequest{PlatformID: "123"}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgAlreadyLinkedError)
}

// ============================================================================
// COMPLETION TESTS
// ============================================================================

func TestHandleComplete(t *testing.T) {
	const callback = "http://localhost/cb?code=abc&state=123_1"

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"linked", nil, http.StatusOK, `"external_account_id":"7562902"`},
		{"missing code", domain.ErrInvalidCallback, http.StatusBadRequest, ErrMsgInvalidCallbackError},
		{"foreign state", domain.ErrStateMismatch, http.StatusBadRequest, ErrMsgStateMismatchError},
		{"timed out", domain.ErrAuthorizationExpired, http.StatusGone, ErrMsgAuthorizationExpiredErr},
		{"conflict", &domain.LinkConflictError{PlatformID: "123", Existing: "1", Requested: "2"}, http.StatusConflict, ErrMsgLinkConflictError},
		{"exchange rejected", &domain.ExchangeError{Status: 400, Body: "invalid_grant"}, http.StatusBadGateway, `"upstream_status":400`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLinkingService)
			h := NewLinkingHandlers(svc, nil)

			if tt.err != nil {
				svc.On("Complete", mock.Anything, "123", callback).Return(nil, tt.err)
			} else {
				svc.On("Complete", mock.Anything, "123", callback).Return(&linking.LinkResult{
					PlatformID:        "123",
					ExternalAccountID: "7562902",
					Username:          "mrekk",
				}, nil)
			}

			w := httptest.NewRecorder()
			h.HandleComplete().ServeHTTP(w, postJSON(t, "/api/v1/link/complete", CompleteLinkRequest{
				PlatformID:  "123",
				CallbackURL: callback,
			}))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleCallback(t *testing.T) {
	t.Run("missing state", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)

		w := httptest.NewRecorder()
		h.HandleCallback().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CompleteByState")
	})

	t.Run("completes by state", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)
		svc.On("CompleteByState", mock.Anything, "123_1", "abc").
			Return(&linking.LinkResult{PlatformID: "123", ExternalAccountID: "9"}, nil)

		w := httptest.NewRecorder()
		h.HandleCallback().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=123_1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgAccountLinked)
	})

	t.Run("denied consent", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)
		svc.On("CompleteByState", mock.Anything, "123_1", "").Return(nil, domain.ErrInvalidCallback)

		w := httptest.NewRecorder()
		h.HandleCallback().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oauth/callback?error=access_denied&state=123_1", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ============================================================================
// UNLINK / STATUS TESTS
// ============================================================================

func TestHandleUnlink(t *testing.T) {
	t.Run("unlinks", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)
		svc.On("Unlink", mock.Anything, "123").Return("7562902", nil)

		w := httptest.NewRecorder()
		h.HandleUnlink().ServeHTTP(w, postJSON(t, "/api/v1/link/unlink", UnlinkRequest{PlatformID: "123"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "7562902")
	})

	t.Run("not linked", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)
		svc.On("Unlink", mock.Anything, "123").Return("", domain.ErrNotLinked)

		w := httptest.NewRecorder()
		h.HandleUnlink().ServeHTTP(w, postJSON(t, "/api/v1/link/unlink", UnlinkRequest{PlatformID: "123"}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing platform id", func(t *testing.T) {
		svc := new(MockLinkingService)
		h := NewLinkingHandlers(svc, nil)

		w := httptest.NewRecorder()
		h.HandleUnlink().ServeHTTP(w, postJSON(t, "/api/v1/link/unlink", UnlinkRequest{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Unlink")
	})
}

func TestHandleStatus(t *testing.T) {
	svc := new(MockLinkingService)
	h := NewLinkingHandlers(svc, nil)
	svc.On("Status", mock.Anything, "123").Return(&linking.LinkStatus{
		PlatformID:        "123",
		Linked:            true,
		ExternalAccountID: "9",
	}, nil)

	w := httptest.NewRecorder()
	h.HandleStatus().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/link/status?platform_id=123", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status linking.LinkStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Linked)
	assert.Equal(t, "9", status.ExternalAccountID)
	assert.Nil(t, status.Token)
}

func TestHandlePlatforms(t *testing.T) {
	t.Run("lists in link order", func(t *testing.T) {
		reg := new(MockPlatformLister)
		h := NewLinkingHandlers(nil, reg)
		reg.On("PlatformsByExternal", mock.Anything, "9").Return([]string{"a", "b"}, nil)

		w := httptest.NewRecorder()
		h.HandlePlatforms().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/link/platforms?external_account_id=9", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"external_account_id":"9","platform_ids":["a","b"]}`, w.Body.String())
	})

	t.Run("unknown account is empty", func(t *testing.T) {
		reg := new(MockPlatformLister)
		h := NewLinkingHandlers(nil, reg)
		reg.On("PlatformsByExternal", mock.Anything, "9").Return(nil, nil)

		w := httptest.NewRecorder()
		h.HandlePlatforms().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/link/platforms?external_account_id=9", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"platform_ids":[]`)
	})
}
