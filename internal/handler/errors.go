package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"

	// Link operation error messages
	ErrMsgBeginLinkFailed    = "Failed to start account linking"
	ErrMsgCompleteLinkFailed = "Failed to complete account linking"
	ErrMsgUnlinkFailed       = "Failed to unlink account"
	ErrMsgLinkStatusFailed   = "Failed to get link status"
	ErrMsgPlatformsFailed    = "Failed to list linked platforms"

	// Token operation error messages
	ErrMsgTokenInfoFailed    = "Failed to get token info"
	ErrMsgTokenRefreshFailed = "Failed to refresh token"
	ErrMsgNoTokenStored      = "No token stored for this platform"
	ErrMsgRefreshNotPossible = "Token could not be refreshed. Please link your account again."

	// Upstream operation error messages
	ErrMsgAuthorizeFailed = "Authorization failed"
	ErrMsgOsuRequest      = "osu! request failed"
	ErrMsgOsuTrackRequest = "osu!track request failed"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgAccountLinked     = "Account linked"
	MsgAccountUnlinked   = "Account unlinked"
	MsgAuthorizeURLReady = "Open the URL to authorize, then paste the redirected URL back"
	MsgTokenRefreshed    = "Token refreshed"
	MsgAuthorized        = "Authorized"
)

// Query parameters and path params
const (
	ParamPlatformID        = "platform_id"
	ParamExternalAccountID = "external_account_id"
	ParamMode              = "mode"
	ParamUser              = "user"
	ParamLimit             = "limit"
	ParamFrom              = "from"
	ParamTo                = "to"
	ParamCode              = "code"
	ParamState             = "state"
	ParamLookupType        = "type"
)
