package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"not linked", domain.ErrNotLinked, http.StatusNotFound, ErrMsgNotLinkedError},
		{"wrapped not linked", fmt.Errorf("lookup: %w", domain.ErrNotLinked), http.StatusNotFound, ErrMsgNotLinkedError},
		{"conflict", &domain.LinkConflictError{PlatformID: "1", Existing: "2", Requested: "3"}, http.StatusConflict, ErrMsgLinkConflictError},
		{"already linked", domain.ErrAlreadyLinked, http.StatusConflict, ErrMsgAlreadyLinkedError},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, ErrMsgTokenExpiredError},
		{"scope", &domain.InsufficientScopeError{Missing: []domain.Scope{domain.ScopeIdentify}}, http.StatusForbidden, ErrMsgInsufficientScopeError},
		{"exchange", &domain.ExchangeError{Status: 401}, http.StatusBadGateway, ErrMsgExchangeFailedError},
		{"upstream", &domain.UpstreamRequestError{Service: "osu", Status: 500}, http.StatusBadGateway, ErrMsgUpstreamRequestError},
		{"unavailable", domain.ErrUpstreamUnavailable, http.StatusBadGateway, ErrMsgUnavailableError},
		{"parse", domain.ErrUpstreamParse, http.StatusBadGateway, ErrMsgUpstreamParseError},
		{"callback", domain.ErrInvalidCallback, http.StatusBadRequest, ErrMsgInvalidCallbackError},
		{"state", domain.ErrStateMismatch, http.StatusBadRequest, ErrMsgStateMismatchError},
		{"attempt expired", domain.ErrAuthorizationExpired, http.StatusGone, ErrMsgAuthorizationExpiredErr},
		{"not configured", domain.ErrOAuthNotConfigured, http.StatusServiceUnavailable, ErrMsgOAuthNotConfiguredError},
		{"mode", fmt.Errorf("%w: %q", domain.ErrInvalidGameMode, "piano"), http.StatusBadRequest, ErrMsgInvalidGameModeError},
		{"input", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"unknown", assert.AnError, http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestRespondJSON(t *testing.T) {
	t.Run("writes payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: "ok"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
	})

	t.Run("unencodable payload is a 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("buffers are reused cleanly", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			respondJSON(w, http.StatusOK, SuccessResponse{Message: fmt.Sprint(i)})
			assert.JSONEq(t, fmt.Sprintf(`{"message":"%d"}`, i), w.Body.String())
		}
	})
}
