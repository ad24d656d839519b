package token

// Error messages
const (
	ErrMsgFailedToSaveToken   = "failed to save token"
	ErrMsgFailedToGetToken    = "failed to get token"
	ErrMsgFailedToRemoveToken = "failed to remove token"
)

// Log messages
const (
	LogMsgTokenSaved   = "Token saved"
	LogMsgTokenRemoved = "Token removed"
)

// Log keys
const (
	LogKeyPlatformID = "platform_id"
	LogKeyExpiresAt  = "expires_at"
	LogKeyScope      = "scope"
)
