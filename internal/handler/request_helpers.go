package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
)

// ValidationErrorResponse is the 400 body for a request that decoded but
// failed its validate tags
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest reads a JSON body into req and checks it. On
// error the 400 response has already been written.
//
//	var req BeginLinkRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Begin link"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, action string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty request body")
		}
		log.Warn("Failed to decode request", "action", action, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	if err := ValidateRequest(req); err != nil {
		fields := FieldErrors(err)
		log.Debug("Request failed validation", "action", action, "fields", fields)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: fields,
		})
		return err
	}
	return nil
}

// GetQueryParam returns a required query parameter. When it is missing the
// 400 response has already been written and ok is false.
func GetQueryParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		logger.FromContext(r.Context()).Warn("Missing query parameter", "param", name)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, name))
		return "", false
	}
	return value, true
}

// GetModeParam parses the optional mode parameter; absent means
// domain.ModeDefault
func GetModeParam(r *http.Request, w http.ResponseWriter) (domain.GameMode, bool) {
	mode, err := domain.ParseGameMode(r.URL.Query().Get(ParamMode))
	if err != nil {
		respondServiceError(w, r, "Parse mode", err)
		return domain.ModeDefault, false
	}
	return mode, true
}

// GetLookupParam parses the optional user lookup type
func GetLookupParam(r *http.Request, w http.ResponseWriter) (osuapi.LookupKind, bool) {
	kind, err := osuapi.ParseLookupKind(r.URL.Query().Get(ParamLookupType))
	if err != nil {
		respondServiceError(w, r, "Parse lookup type", err)
		return osuapi.LookupAuto, false
	}
	return kind, true
}

// GetIntQueryParam parses an optional integer parameter
func GetIntQueryParam(r *http.Request, w http.ResponseWriter, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
		return 0, false
	}
	return v, true
}
