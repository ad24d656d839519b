package linking

import "time"

// ============================================================================
// Handshake Configuration
// ============================================================================

const (
	// AuthorizationTimeout is how long a user has to finish authorizing
	AuthorizationTimeout = 300 * time.Second

	// RetryGrace is the fresh window granted after a callback without a code
	RetryGrace = 60 * time.Second
)

// ============================================================================
// Error Context Messages (Wrapped Errors)
// ============================================================================

const (
	// ErrContextFailedToCheckLink wraps registry lookup errors
	ErrContextFailedToCheckLink = "failed to check link: %w"

	// ErrContextFailedToStoreAuthorization wraps pending state writes
	ErrContextFailedToStoreAuthorization = "failed to store authorization: %w"

	// ErrContextFailedToLoadAuthorization wraps pending state reads
	ErrContextFailedToLoadAuthorization = "failed to load authorization: %w"

	// ErrContextFailedToSaveToken wraps token persistence errors during completion
	ErrContextFailedToSaveToken = "failed to save token: %w"

	// ErrContextFailedToIdentify wraps the /me lookup after exchange
	ErrContextFailedToIdentify = "failed to identify osu! account: %w"

	// ErrContextFailedToLinkAccounts wraps registry link errors
	ErrContextFailedToLinkAccounts = "failed to link accounts: %w"

	// ErrContextFailedToUnlink wraps unlink operation errors
	ErrContextFailedToUnlink = "failed to unlink: %w"

	// ErrContextFailedToRemoveToken wraps token removal after unlink
	ErrContextFailedToRemoveToken = "failed to remove token: %w"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgAccountLinked          = "Account linked"
	LogMsgAccountUnlinked        = "Account unlinked"
	LogMsgLinkConflict           = "Link rejected, platform bound to another account"
	LogMsgAuthorizationStarted   = "Authorization started"
	LogMsgAuthorizationExtended  = "Callback missing code, authorization extended"
	LogMsgAuthorizationAborted   = "Authorization aborted"
	LogMsgCompensatingCleanup    = "Link failed after token save, removing token"
	LogMsgCompensatingCleanupErr = "Failed to remove token during cleanup"
	LogMsgFailedToDropPending    = "Failed to drop pending authorization"
)

// ============================================================================
// Log Context Keys
// ============================================================================

const (
	LogKeyPlatformID = "platform_id"
	LogKeyAccountID  = "external_account_id"
	LogKeyExisting   = "existing_account_id"
	LogKeyState      = "state"
	LogKeyDeadline   = "deadline"
	LogKeyError      = "error"
)
