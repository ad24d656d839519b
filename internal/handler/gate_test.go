package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

func TestHandleAuthorize(t *testing.T) {
	grant := &domain.TokenRecord{AccessToken: "secret", ExpiresAt: time.Now().Add(time.Hour), Scope: "public identify"}

	t.Run("explicit scopes", func(t *testing.T) {
		g := new(MockGate)
		h := NewGateHandlers(g)
		g.On("Authorize", mock.Anything, "123", []domain.Scope{domain.ScopeIdentify}).Return(grant, nil)

		w := httptest.NewRecorder()
		h.HandleAuthorize().ServeHTTP(w, postJSON(t, "/api/v1/gate/authorize", AuthorizeRequest{
			PlatformID: "123",
			Scopes:     []domain.Scope{domain.ScopeIdentify},
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
		g.AssertExpectations(t)
	})

	t.Run("operation from policy", func(t *testing.T) {
		g := new(MockGate)
		h := NewGateHandlers(g)
		g.On("AuthorizeOperation", mock.Anything, "123", "friends").Return(grant, nil)

		w := httptest.NewRecorder()
		h.HandleAuthorize().ServeHTTP(w, postJSON(t, "/api/v1/gate/authorize", AuthorizeRequest{
			PlatformID: "123",
			Operation:  "friends",
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		g.AssertNotCalled(t, "Authorize")
	})

	t.Run("missing scopes are listed", func(t *testing.T) {
		g := new(MockGate)
		h := NewGateHandlers(g)
		g.On("Authorize", mock.Anything, "123", mock.Anything).Return(nil, &domain.InsufficientScopeError{
			Missing: []domain.Scope{domain.ScopeFriendsRead, domain.ScopeChatWrite},
		})

		w := httptest.NewRecorder()
		h.HandleAuthorize().ServeHTTP(w, postJSON(t, "/api/v1/gate/authorize", AuthorizeRequest{
			PlatformID: "123",
			Scopes:     []domain.Scope{domain.ScopeFriendsRead, domain.ScopeChatWrite},
		}))

		require.Equal(t, http.StatusForbidden, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []domain.Scope{domain.ScopeFriendsRead, domain.ScopeChatWrite}, resp.Missing)
	})

	t.Run("denials map to distinct statuses", func(t *testing.T) {
		for err, status := range map[error]int{
			domain.ErrNotLinked:    http.StatusNotFound,
			domain.ErrTokenExpired: http.StatusUnauthorized,
		} {
			g := new(MockGate)
			h := NewGateHandlers(g)
			g.On("Authorize", mock.Anything, "123", mock.Anything).Return(nil, err)

			w := httptest.NewRecorder()
			h.HandleAuthorize().ServeHTTP(w, postJSON(t, "/api/v1/gate/authorize", AuthorizeRequest{PlatformID: "123"}))

			assert.Equal(t, status, w.Code, err.Error())
		}
	})
}
