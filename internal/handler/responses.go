package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Missing is set for scope
// failures and UpstreamStatus for provider rejections.
type ErrorResponse struct {
	Error          string         `json:"error"`
	Missing        []domain.Scope `json:"missing,omitempty"`
	UpstreamStatus int            `json:"upstream_status,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encode failure can still be a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, resp := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err, "status", status)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondJSON(w, status, resp)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError    = "osu! is temporarily unavailable. Please try again later."

	// Link messages
	ErrMsgNotLinkedError     = "No osu! account is linked. Use the link command first."
	ErrMsgLinkConflictError  = "This account is already linked to a different osu! account. Unlink it first."
	ErrMsgAlreadyLinkedError = "This account is already linked. Unlink it first to link another osu! account."

	// Token messages
	ErrMsgTokenExpiredError      = "Your osu! authorization expired. Please link your account again."
	ErrMsgInsufficientScopeError = "Your osu! authorization is missing required permissions. Please link again."

	// Handshake messages
	ErrMsgExchangeFailedError     = "osu! rejected the authorization code. Please start linking again."
	ErrMsgInvalidCallbackError    = "That URL has no authorization code. Paste the full URL you were redirected to."
	ErrMsgStateMismatchError      = "That authorization was started by someone else. Please start linking again."
	ErrMsgAuthorizationExpiredErr = "No authorization is in progress or it timed out. Please start linking again."
	ErrMsgOAuthNotConfiguredError = "osu! login is not configured on this server."

	// Upstream messages
	ErrMsgUpstreamRequestError = "osu! rejected the request."
	ErrMsgUpstreamParseError   = "osu! returned an unexpected response."

	// Input messages
	ErrMsgInvalidGameModeError = "Unknown game mode. Use osu, taiko, fruits or mania."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	status, resp := mapServiceError(err)
	return status, resp.Error
}

// mapServiceError is mapServiceErrorToUserMessage plus the structured
// details carried by typed errors.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError}
	}

	var scopeErr *domain.InsufficientScopeError
	if errors.As(err, &scopeErr) {
		return http.StatusForbidden, ErrorResponse{Error: ErrMsgInsufficientScopeError, Missing: scopeErr.Missing}
	}
	var exchangeErr *domain.ExchangeError
	if errors.As(err, &exchangeErr) {
		return http.StatusBadGateway, ErrorResponse{Error: ErrMsgExchangeFailedError, UpstreamStatus: exchangeErr.Status}
	}
	var upstreamErr *domain.UpstreamRequestError
	if errors.As(err, &upstreamErr) {
		return http.StatusBadGateway, ErrorResponse{Error: ErrMsgUpstreamRequestError, UpstreamStatus: upstreamErr.Status}
	}

	switch {
	case errors.Is(err, domain.ErrNotLinked):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgNotLinkedError}
	case errors.Is(err, domain.ErrLinkConflict):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgLinkConflictError}
	case errors.Is(err, domain.ErrAlreadyLinked):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgAlreadyLinkedError}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Error: ErrMsgTokenExpiredError}
	case errors.Is(err, domain.ErrInvalidCallback):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidCallbackError}
	case errors.Is(err, domain.ErrStateMismatch):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgStateMismatchError}
	case errors.Is(err, domain.ErrAuthorizationExpired):
		return http.StatusGone, ErrorResponse{Error: ErrMsgAuthorizationExpiredErr}
	case errors.Is(err, domain.ErrOAuthNotConfigured):
		return http.StatusServiceUnavailable, ErrorResponse{Error: ErrMsgOAuthNotConfiguredError}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, ErrorResponse{Error: ErrMsgUnavailableError}
	case errors.Is(err, domain.ErrUpstreamParse):
		return http.StatusBadGateway, ErrorResponse{Error: ErrMsgUpstreamParseError}
	case errors.Is(err, domain.ErrInvalidGameMode):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidGameModeError}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequestError}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
}
