package oauth

import "time"

// Provider endpoints
const (
	DefaultAuthURL  = "https://osu.ppy.sh/oauth/authorize"
	DefaultTokenURL = "https://osu.ppy.sh/oauth/token"
)

// DefaultHTTPTimeout bounds each call to the token endpoint
const DefaultHTTPTimeout = 20 * time.Second

// sharedRefreshBudget multiplies HTTPTimeout to bound one coalesced refresh,
// covering the wait for the platform lock plus the token request.
const sharedRefreshBudget = 2

// Token response fields not modelled by oauth2.Token
const (
	ExtraFieldScope = "scope"
)

// Callback query parameters
const (
	QueryParamCode  = "code"
	QueryParamState = "state"
)

// Error messages
const (
	ErrMsgTokenRequestFailed  = "token endpoint request failed"
	ErrMsgMalformedToken      = "malformed token response"
	ErrMsgMalformedCallback   = "malformed callback URL"
	ErrMsgFailedToPersistAuth = "failed to persist refreshed token"
)

// Log messages
const (
	LogMsgExchangeRejected  = "Authorization code rejected by token endpoint"
	LogMsgExchangeSucceeded = "Authorization code exchanged"
	LogMsgRefreshRejected   = "Refresh rejected by token endpoint, keeping stored token"
	LogMsgRefreshSucceeded  = "Token refreshed"
	LogMsgRefreshSkipped    = "No refresh token stored"
	LogMsgRefreshNotNeeded  = "Stored token became valid while waiting, skipping refresh"
)

// Log keys
const (
	LogKeyPlatformID = "platform_id"
	LogKeyStatus     = "status"
	LogKeyExpiresAt  = "expires_at"
	LogKeyScope      = "scope"
	LogKeyError      = "error"
)
