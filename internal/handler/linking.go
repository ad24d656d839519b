package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/linking"
	"github.com/osse101/OsuLink_Go/internal/logger"
)

// PlatformLister is the reverse-index read the platforms endpoint needs
type PlatformLister interface {
	PlatformsByExternal(ctx context.Context, externalAccountID string) ([]string, error)
}

// LinkingHandlers contains handlers for account linking
type LinkingHandlers struct {
	svc      linking.Service
	registry PlatformLister
}

// NewLinkingHandlers creates new linking handlers
func NewLinkingHandlers(svc linking.Service, registry PlatformLister) *LinkingHandlers {
	return &LinkingHandlers{svc: svc, registry: registry}
}

// BeginLinkRequest is the request body for starting a link
type BeginLinkRequest struct {
	PlatformID string         `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Scopes     []domain.Scope `json:"scopes" validate:"omitempty,dive,scope"`
}

// BeginLinkResponse carries the consent URL the user must open
type BeginLinkResponse struct {
	Message          string         `json:"message"`
	AuthorizationURL string         `json:"authorization_url"`
	State            string         `json:"state"`
	Scopes           []domain.Scope `json:"scopes"`
	ExpiresAt        time.Time      `json:"expires_at"`
}

// CompleteLinkRequest carries the redirect URL pasted back by the user
type CompleteLinkRequest struct {
	PlatformID  string `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	CallbackURL string `json:"callback_url" validate:"required,max=4096"`
}

// UnlinkRequest is the request body for unlinking
type UnlinkRequest struct {
	PlatformID string `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// UnlinkResponse names the account that was unlinked
type UnlinkResponse struct {
	Message           string `json:"message"`
	ExternalAccountID string `json:"external_account_id"`
}

// PlatformsResponse lists platform ids linked to one osu! account
type PlatformsResponse struct {
	ExternalAccountID string   `json:"external_account_id"`
	PlatformIDs       []string `json:"platform_ids"`
}

// HandleBegin handles POST /link/begin
// @Summary Start linking an osu! account
// @Tags linking
// @Accept json
// @Produce json
// @Param request body BeginLinkRequest true "Platform identity and optional scopes"
// @Success 200 {object} BeginLinkResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/link/begin [post]
func (h *LinkingHandlers) HandleBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BeginLinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Begin link"); err != nil {
			return
		}

		pending, authURL, err := h.svc.Begin(r.Context(), req.PlatformID, req.Scopes)
		if err != nil {
			respondServiceError(w, r, ErrMsgBeginLinkFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, BeginLinkResponse{
			Message:          MsgAuthorizeURLReady,
			AuthorizationURL: authURL,
			State:            pending.State,
			Scopes:           pending.Scopes,
			ExpiresAt:        pending.Deadline,
		})
	}
}

// HandleComplete handles POST /link/complete
// @Summary Finish linking from a pasted redirect URL
// @Tags linking
// @Accept json
// @Produce json
// @Param request body CompleteLinkRequest true "Platform identity and redirect URL"
// @Success 200 {object} linking.LinkResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/link/complete [post]
func (h *LinkingHandlers) HandleComplete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompleteLinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Complete link"); err != nil {
			return
		}

		result, err := h.svc.Complete(r.Context(), req.PlatformID, req.CallbackURL)
		if err != nil {
			respondServiceError(w, r, ErrMsgCompleteLinkFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info("Account linked",
			"platform_id", result.PlatformID, "external_account_id", result.ExternalAccountID)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCallback handles GET /oauth/callback, the provider's browser redirect
// @Summary OAuth2 redirect target
// @Tags linking
// @Produce json
// @Param code query string false "Authorization code"
// @Param state query string true "State issued by begin"
// @Success 200 {object} linking.LinkResult
// @Failure 400 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /oauth/callback [get]
func (h *LinkingHandlers) HandleCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		state, ok := GetQueryParam(r, w, ParamState)
		if !ok {
			return
		}
		// Provider denials arrive as ?error=access_denied with no code
		if denied := r.URL.Query().Get("error"); denied != "" {
			log.Info("Authorization denied by user", "state", state, "reason", denied)
		}

		result, err := h.svc.CompleteByState(r.Context(), state, r.URL.Query().Get(ParamCode))
		if err != nil {
			respondServiceError(w, r, ErrMsgCompleteLinkFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgAccountLinked, Data: result})
	}
}

// HandleUnlink handles POST /link/unlink
// @Summary Unlink an osu! account
// @Tags linking
// @Accept json
// @Produce json
// @Param request body UnlinkRequest true "Platform identity"
// @Success 200 {object} UnlinkResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/link/unlink [post]
func (h *LinkingHandlers) HandleUnlink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnlinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Unlink"); err != nil {
			return
		}

		external, err := h.svc.Unlink(r.Context(), req.PlatformID)
		if err != nil {
			respondServiceError(w, r, ErrMsgUnlinkFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, UnlinkResponse{Message: MsgAccountUnlinked, ExternalAccountID: external})
	}
}

// HandleStatus handles GET /link/status
// @Summary Link status for a platform identity
// @Tags linking
// @Produce json
// @Param platform_id query string true "Platform identity"
// @Success 200 {object} linking.LinkStatus
// @Router /api/v1/link/status [get]
func (h *LinkingHandlers) HandleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := GetQueryParam(r, w, ParamPlatformID)
		if !ok {
			return
		}

		status, err := h.svc.Status(r.Context(), platformID)
		if err != nil {
			respondServiceError(w, r, ErrMsgLinkStatusFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, status)
	}
}

// HandlePlatforms handles GET /link/platforms
// @Summary Platform identities linked to an osu! account
// @Tags linking
// @Produce json
// @Param external_account_id query string true "osu! user id"
// @Success 200 {object} PlatformsResponse
// @Router /api/v1/link/platforms [get]
func (h *LinkingHandlers) HandlePlatforms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		external, ok := GetQueryParam(r, w, ParamExternalAccountID)
		if !ok {
			return
		}

		ids, err := h.registry.PlatformsByExternal(r.Context(), external)
		if err != nil {
			respondServiceError(w, r, ErrMsgPlatformsFailed, err)
			return
		}
		if ids == nil {
			ids = []string{}
		}

		respondJSON(w, http.StatusOK, PlatformsResponse{ExternalAccountID: external, PlatformIDs: ids})
	}
}
