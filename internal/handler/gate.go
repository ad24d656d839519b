package handler

import (
	"net/http"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/gate"
)

// GateHandlers exposes authorization decisions without the token itself
type GateHandlers struct {
	gate gate.Gate
}

// NewGateHandlers creates gate handlers
func NewGateHandlers(g gate.Gate) *GateHandlers {
	return &GateHandlers{gate: g}
}

// AuthorizeRequest asks whether a platform identity may act. Operation,
// when set, takes its scopes from the scope policy and Scopes is ignored.
type AuthorizeRequest struct {
	PlatformID string         `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Scopes     []domain.Scope `json:"scopes" validate:"omitempty,dive,scope"`
	Operation  string         `json:"operation" validate:"omitempty,max=64"`
}

// AuthorizeResponse describes the usable grant
type AuthorizeResponse struct {
	Message   string         `json:"message"`
	Scopes    []domain.Scope `json:"scopes"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// HandleAuthorize handles POST /gate/authorize
// @Summary Check a platform identity's authorization
// @Tags gate
// @Accept json
// @Produce json
// @Param request body AuthorizeRequest true "Identity and required capabilities"
// @Success 200 {object} AuthorizeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/gate/authorize [post]
func (h *GateHandlers) HandleAuthorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthorizeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Authorize"); err != nil {
			return
		}

		var (
			record *domain.TokenRecord
			err    error
		)
		if req.Operation != "" {
			record, err = h.gate.AuthorizeOperation(r.Context(), req.PlatformID, req.Operation)
		} else {
			record, err = h.gate.Authorize(r.Context(), req.PlatformID, req.Scopes...)
		}
		if err != nil {
			respondServiceError(w, r, ErrMsgAuthorizeFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, AuthorizeResponse{
			Message:   MsgAuthorized,
			Scopes:    record.Scopes(),
			ExpiresAt: record.ExpiresAt,
		})
	}
}
