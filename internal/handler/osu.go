package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/gate"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

// OsuAPI is the osu! API v2 surface the handlers use
type OsuAPI interface {
	Me(ctx context.Context, token *domain.TokenRecord, mode domain.GameMode) (*osuapi.UserExtended, error)
	User(ctx context.Context, token *domain.TokenRecord, user string, kind osuapi.LookupKind, mode domain.GameMode) (*osuapi.UserExtended, error)
	Users(ctx context.Context, token *domain.TokenRecord, ids []string) ([]osuapi.UserExtended, error)
	Friends(ctx context.Context, token *domain.TokenRecord) ([]osuapi.UserExtended, error)
}

// OsuTrack is the osutrack surface the handlers use
type OsuTrack interface {
	Update(ctx context.Context, user string, mode domain.GameMode) (*osutrack.UpdateResponse, error)
	Peak(ctx context.Context, user string, mode domain.GameMode) (*osutrack.PeakData, error)
	StatsHistory(ctx context.Context, user string, mode domain.GameMode, r osutrack.DateRange) ([]osutrack.StatsUpdate, error)
	HiScores(ctx context.Context, user string, mode domain.GameMode, userMode osutrack.UserMode, r osutrack.DateRange) ([]osutrack.RecordedScore, error)
	BestPlays(ctx context.Context, mode domain.GameMode, r osutrack.DateRange, limit int) ([]osutrack.BestPlay, error)
}

// AccountResolver maps a platform identity to its linked osu! account id
type AccountResolver interface {
	ExternalByPlatform(ctx context.Context, platformID string) (string, bool, error)
}

// OsuHandlers proxies gated calls to osu! and osutrack
type OsuHandlers struct {
	gate     gate.Gate
	osu      OsuAPI
	track    OsuTrack
	accounts AccountResolver
}

// NewOsuHandlers creates osu! handlers
func NewOsuHandlers(g gate.Gate, osu OsuAPI, track OsuTrack, accounts AccountResolver) *OsuHandlers {
	return &OsuHandlers{gate: g, osu: osu, track: track, accounts: accounts}
}

// UserView is a user profile with its osutrack peak, when known
type UserView struct {
	User *osuapi.UserExtended `json:"user"`
	Peak *osutrack.PeakData   `json:"peak,omitempty"`
}

// LookupRequest resolves up to 50 users by id
type LookupRequest struct {
	PlatformID string   `json:"platform_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	IDs        []string `json:"ids" validate:"required,min=1,max=50,dive,required,numeric"`
}

// authorize resolves the caller's grant for an operation, writing the
// error response on failure.
func (h *OsuHandlers) authorize(w http.ResponseWriter, r *http.Request, platformID, operation string) (*domain.TokenRecord, bool) {
	record, err := h.gate.AuthorizeOperation(r.Context(), platformID, operation)
	if err != nil {
		respondServiceError(w, r, ErrMsgAuthorizeFailed, err)
		return nil, false
	}
	return record, true
}

// HandleMe handles GET /osu/me
// @Summary The caller's own osu! profile
// @Tags osu
// @Produce json
// @Param platform_id query string true "Platform identity"
// @Param mode query string false "osu, taiko, fruits or mania"
// @Success 200 {object} osuapi.UserExtended
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/osu/me [get]
func (h *OsuHandlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := GetQueryParam(r, w, ParamPlatformID)
		if !ok {
			return
		}
		mode, ok := GetModeParam(r, w)
		if !ok {
			return
		}
		record, ok := h.authorize(w, r, platformID, gate.OperationMe)
		if !ok {
			return
		}

		me, err := h.osu.Me(r.Context(), record, mode)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, me)
	}
}

// HandleUser handles GET /osu/users/{user}
// @Summary Look up an osu! user with their osutrack peak
// @Tags osu
// @Produce json
// @Param user path string true "Username or numeric id"
// @Param platform_id query string true "Platform identity whose token is used"
// @Param mode query string false "osu, taiko, fruits or mania"
// @Param type query string false "id or name; name also finds digits-only usernames"
// @Success 200 {object} UserView
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/osu/users/{user} [get]
func (h *OsuHandlers) HandleUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, ParamUser)
		if user == "" {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}
		platformID, ok := GetQueryParam(r, w, ParamPlatformID)
		if !ok {
			return
		}
		mode, ok := GetModeParam(r, w)
		if !ok {
			return
		}
		kind, ok := GetLookupParam(r, w)
		if !ok {
			return
		}
		record, ok := h.authorize(w, r, platformID, gate.OperationUser)
		if !ok {
			return
		}

		var view UserView
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			u, err := h.osu.User(ctx, record, user, kind, mode)
			view.User = u
			return err
		})
		g.Go(func() error {
			// Peak data is decoration; osutrack being down must not fail the lookup
			peak, err := h.track.Peak(ctx, user, mode)
			if err != nil {
				logger.FromContext(ctx).Warn("osutrack peak lookup failed", "user", user, "error", err)
				return nil
			}
			view.Peak = peak
			return nil
		})
		if err := g.Wait(); err != nil {
			respondServiceError(w, r, ErrMsgOsuRequest, err)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleLookup handles POST /osu/users/lookup
// @Summary Resolve several osu! users by id
// @Tags osu
// @Accept json
// @Produce json
// @Param request body LookupRequest true "Caller and 1 to 50 user ids"
// @Success 200 {array} osuapi.UserExtended
// @Router /api/v1/osu/users/lookup [post]
func (h *OsuHandlers) HandleLookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LookupRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Lookup users"); err != nil {
			return
		}
		record, ok := h.authorize(w, r, req.PlatformID, gate.OperationUsers)
		if !ok {
			return
		}

		users, err := h.osu.Users(r.Context(), record, req.IDs)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, users)
	}
}

// HandleFriends handles GET /osu/friends
// @Summary The caller's osu! friends
// @Tags osu
// @Produce json
// @Param platform_id query string true "Platform identity"
// @Success 200 {array} osuapi.UserExtended
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/osu/friends [get]
func (h *OsuHandlers) HandleFriends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, ok := GetQueryParam(r, w, ParamPlatformID)
		if !ok {
			return
		}
		record, ok := h.authorize(w, r, platformID, gate.OperationFriends)
		if !ok {
			return
		}

		friends, err := h.osu.Friends(r.Context(), record)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, friends)
	}
}
