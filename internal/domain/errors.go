package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Link errors
	ErrMsgNotLinked     = "platform is not linked to an osu! account"
	ErrMsgLinkConflict  = "platform is already linked to a different osu! account"
	ErrMsgAlreadyLinked = "platform is already linked"

	// Token errors
	ErrMsgTokenExpired      = "token expired, re-authentication required"
	ErrMsgInsufficientScope = "insufficient scope"

	// OAuth2 errors
	ErrMsgExchangeFailed        = "authorization code exchange failed"
	ErrMsgInvalidCallback       = "callback URL does not contain an authorization code"
	ErrMsgStateMismatch         = "authorization state does not match platform"
	ErrMsgAuthorizationExpired  = "authorization attempt expired or was never started"
	ErrMsgOAuthNotConfigured    = "osu! OAuth client is not configured"
	ErrMsgUpstreamRequestFailed = "upstream request failed"
	ErrMsgUpstreamUnavailable   = "upstream service unavailable"
	ErrMsgUpstreamParse         = "failed to parse upstream response"

	// Input errors
	ErrMsgInvalidInput    = "invalid input"
	ErrMsgInvalidGameMode = "invalid game mode"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Link errors
	ErrNotLinked     = errors.New(ErrMsgNotLinked)
	ErrLinkConflict  = errors.New(ErrMsgLinkConflict)
	ErrAlreadyLinked = errors.New(ErrMsgAlreadyLinked)

	// Token errors
	ErrTokenExpired      = errors.New(ErrMsgTokenExpired)
	ErrInsufficientScope = errors.New(ErrMsgInsufficientScope)

	// OAuth2 errors
	ErrExchangeFailed       = errors.New(ErrMsgExchangeFailed)
	ErrInvalidCallback      = errors.New(ErrMsgInvalidCallback)
	ErrStateMismatch        = errors.New(ErrMsgStateMismatch)
	ErrAuthorizationExpired = errors.New(ErrMsgAuthorizationExpired)
	ErrOAuthNotConfigured   = errors.New(ErrMsgOAuthNotConfigured)
	ErrUpstreamRequest      = errors.New(ErrMsgUpstreamRequestFailed)
	ErrUpstreamUnavailable  = errors.New(ErrMsgUpstreamUnavailable)
	ErrUpstreamParse        = errors.New(ErrMsgUpstreamParse)

	// Input errors
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
	ErrInvalidGameMode = errors.New(ErrMsgInvalidGameMode)
)

// LinkConflictError reports an attempt to link a platform that already
// points at another external account.
type LinkConflictError struct {
	PlatformID string
	Existing   string
	Requested  string
}

func (e *LinkConflictError) Error() string {
	return fmt.Sprintf("%s: platform %s is linked to %s, requested %s",
		ErrMsgLinkConflict, e.PlatformID, e.Existing, e.Requested)
}

func (e *LinkConflictError) Unwrap() error { return ErrLinkConflict }

// InsufficientScopeError lists every capability the stored grant lacks.
type InsufficientScopeError struct {
	Missing []Scope
}

func (e *InsufficientScopeError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMsgInsufficientScope, JoinScopes(e.Missing, ", "))
}

func (e *InsufficientScopeError) Unwrap() error { return ErrInsufficientScope }

// ExchangeError carries the token endpoint's rejection of an authorization code.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrMsgExchangeFailed, e.Status, strings.TrimSpace(e.Body))
}

func (e *ExchangeError) Unwrap() error { return ErrExchangeFailed }

// UpstreamRequestError is any non-success response from a resource endpoint.
type UpstreamRequestError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamRequestError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s",
		ErrMsgUpstreamRequestFailed, e.Service, e.Status, strings.TrimSpace(e.Body))
}

func (e *UpstreamRequestError) Unwrap() error { return ErrUpstreamRequest }
