package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

// TrackUpdateRequest records a stats snapshot. Without User the caller's
// linked account is used.
type TrackUpdateRequest struct {
	PlatformID string `json:"platform_id" validate:"required_without=User,max=100,excludesall=\x00\n\r\t"`
	User       string `json:"user" validate:"max=64"`
	Mode       string `json:"mode" validate:"gamemode"`
}

// linkedAccount resolves the caller's linked osu! id, writing the error
// response on failure. Public osu!track reads need no token.
func (h *OsuHandlers) linkedAccount(w http.ResponseWriter, r *http.Request, platformID string) (string, bool) {
	accountID, linked, err := h.accounts.ExternalByPlatform(r.Context(), platformID)
	if err == nil && !linked {
		err = domain.ErrNotLinked
	}
	if err != nil {
		respondServiceError(w, r, ErrMsgAuthorizeFailed, err)
		return "", false
	}
	return accountID, true
}

// trackUser picks the osu!track subject from the user and platform_id query
// parameters. A linked account is always addressed by id.
func (h *OsuHandlers) trackUser(w http.ResponseWriter, r *http.Request) (string, osutrack.UserMode, bool) {
	kind, ok := GetLookupParam(r, w)
	if !ok {
		return "", "", false
	}
	if user := r.URL.Query().Get(ParamUser); user != "" {
		return user, trackUserMode(user, kind), true
	}

	platformID, ok := GetQueryParam(r, w, ParamPlatformID)
	if !ok {
		return "", "", false
	}
	accountID, ok := h.linkedAccount(w, r, platformID)
	return accountID, osutrack.UserModeID, ok
}

func trackUserMode(user string, kind osuapi.LookupKind) osutrack.UserMode {
	switch kind {
	case osuapi.LookupID:
		return osutrack.UserModeID
	case osuapi.LookupName:
		return osutrack.UserModeUsername
	}
	if _, err := strconv.ParseInt(user, 10, 64); err == nil {
		return osutrack.UserModeID
	}
	return osutrack.UserModeUsername
}

func getDateRange(r *http.Request, w http.ResponseWriter) (osutrack.DateRange, bool) {
	var dates osutrack.DateRange
	var ok bool
	if dates.From, ok = getDateParam(r, w, ParamFrom); !ok {
		return dates, false
	}
	if dates.To, ok = getDateParam(r, w, ParamTo); !ok {
		return dates, false
	}
	return dates, true
}

// HandleTrackUpdate handles POST /osutrack/update
// @Summary Record an osutrack snapshot
// @Tags osutrack
// @Accept json
// @Produce json
// @Param request body TrackUpdateRequest true "User or linked caller, and mode"
// @Success 200 {object} osutrack.UpdateResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/osutrack/update [post]
func (h *OsuHandlers) HandleTrackUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrackUpdateRequest
		if err := DecodeAndValidateRequest(r, w, &req, "osutrack update"); err != nil {
			return
		}
		mode, err := domain.ParseGameMode(req.Mode)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuTrackRequest, err)
			return
		}

		user := req.User
		if user == "" {
			var ok bool
			if user, ok = h.linkedAccount(w, r, req.PlatformID); !ok {
				return
			}
		}

		update, err := h.track.Update(r.Context(), user, mode)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuTrackRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, update)
	}
}

// HandleStatsHistory handles GET /osutrack/history
// @Summary Recorded stat snapshots for a user or the linked caller
// @Tags osutrack
// @Produce json
// @Param user query string false "Numeric osu! id"
// @Param platform_id query string false "Linked caller, when user is empty"
// @Param mode query string false "osu, taiko, fruits or mania"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {array} osutrack.StatsUpdate
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/osutrack/history [get]
func (h *OsuHandlers) HandleStatsHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, ok := GetModeParam(r, w)
		if !ok {
			return
		}
		dates, ok := getDateRange(r, w)
		if !ok {
			return
		}
		user, userMode, ok := h.trackUser(w, r)
		if !ok {
			return
		}
		// stats_history only addresses users by id
		if userMode != osutrack.UserModeID {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, ParamUser))
			return
		}

		history, err := h.track.StatsHistory(r.Context(), user, mode, dates)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuTrackRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, history)
	}
}

// HandleHiScores handles GET /osutrack/hiscores
// @Summary Every score osu!track recorded for a user or the linked caller
// @Tags osutrack
// @Produce json
// @Param user query string false "Username or numeric id"
// @Param platform_id query string false "Linked caller, when user is empty"
// @Param type query string false "id or name"
// @Param mode query string false "osu, taiko, fruits or mania"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {array} osutrack.RecordedScore
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/osutrack/hiscores [get]
func (h *OsuHandlers) HandleHiScores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, ok := GetModeParam(r, w)
		if !ok {
			return
		}
		dates, ok := getDateRange(r, w)
		if !ok {
			return
		}
		user, userMode, ok := h.trackUser(w, r)
		if !ok {
			return
		}

		scores, err := h.track.HiScores(r.Context(), user, mode, userMode, dates)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuTrackRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, scores)
	}
}

// HandleBestPlays handles GET /osutrack/bestplays
// @Summary Best plays across all tracked users
// @Tags osutrack
// @Produce json
// @Param mode query string false "osu, taiko, fruits or mania"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param limit query int false "1 to 10000"
// @Success 200 {array} osutrack.BestPlay
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/osutrack/bestplays [get]
func (h *OsuHandlers) HandleBestPlays() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, ok := GetModeParam(r, w)
		if !ok {
			return
		}
		limit, ok := GetIntQueryParam(r, w, ParamLimit, 0)
		if !ok {
			return
		}
		dates, ok := getDateRange(r, w)
		if !ok {
			return
		}

		plays, err := h.track.BestPlays(r.Context(), mode, dates, limit)
		if err != nil {
			respondServiceError(w, r, ErrMsgOsuTrackRequest, err)
			return
		}
		respondJSON(w, http.StatusOK, plays)
	}
}

func getDateParam(r *http.Request, w http.ResponseWriter, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(osutrack.DateLayout, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
		return time.Time{}, false
	}
	return t, true
}
