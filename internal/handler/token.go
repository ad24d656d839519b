package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// TokenInspector reads secret-free token summaries
type TokenInspector interface {
	Info(ctx context.Context, platformID string) (*domain.TokenInfo, error)
}

// TokenRefresher forces a refresh of a stored grant
type TokenRefresher interface {
	Refresh(ctx context.Context, platformID string) (*domain.TokenRecord, error)
}

// TokenHandlers exposes token lifecycle operations. Token strings never
// leave the service.
type TokenHandlers struct {
	tokens TokenInspector
	flow   TokenRefresher
}

// NewTokenHandlers creates token handlers
func NewTokenHandlers(tokens TokenInspector, flow TokenRefresher) *TokenHandlers {
	return &TokenHandlers{tokens: tokens, flow: flow}
}

// RefreshRequest names the grant to refresh
type RefreshRequest struct {
	PlatformID string `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// RefreshResponse reports the renewed expiry
type RefreshResponse struct {
	Message   string         `json:"message"`
	ExpiresAt time.Time      `json:"expires_at"`
	Scopes    []domain.Scope `json:"scopes"`
}

// HandleInfo handles GET /token/info
// @Summary Token summary for a platform identity
// @Tags token
// @Produce json
// @Param platform_id query string true "Platform identity"
// @Success 200 {object} domain.TokenInfo
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/token/info [get]
func (h *TokenHandlers) HandleInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := GetQueryParam(r, w, ParamPlatformID)
		if !ok {
			return
		}

		info, err := h.tokens.Info(r.Context(), platformID)
		if err != nil {
			respondServiceError(w, r, ErrMsgTokenInfoFailed, err)
			return
		}
		if info == nil {
			respondError(w, http.StatusNotFound, ErrMsgNoTokenStored)
			return
		}

		respondJSON(w, http.StatusOK, info)
	}
}

// HandleRefresh handles POST /token/refresh
// @Summary Force a token refresh
// @Tags token
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Platform identity"
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/token/refresh [post]
func (h *TokenHandlers) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Refresh token"); err != nil {
			return
		}

		record, err := h.flow.Refresh(r.Context(), req.PlatformID)
		if err != nil {
			respondServiceError(w, r, ErrMsgTokenRefreshFailed, err)
			return
		}
		if record == nil {
			respondError(w, http.StatusUnauthorized, ErrMsgRefreshNotPossible)
			return
		}

		respondJSON(w, http.StatusOK, RefreshResponse{
			Message:   MsgTokenRefreshed,
			ExpiresAt: record.ExpiresAt,
			Scopes:    record.Scopes(),
		})
	}
}
