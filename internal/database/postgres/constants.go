package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Link Operations
const (
	ErrMsgFailedToGetLink      = "failed to get account link"
	ErrMsgFailedToInsertLink   = "failed to insert account link"
	ErrMsgFailedToDeleteLink   = "failed to delete account link"
	ErrMsgFailedToListLinks    = "failed to list linked platforms"
	ErrMsgFailedToScanLinkRow  = "failed to scan account link row"
	ErrMsgFailedToBeginLinkTx  = "failed to begin link transaction"
	ErrMsgFailedToCommitLinkTx = "failed to commit link transaction"
)

// Error Messages - Token Operations
const (
	ErrMsgFailedToGetToken    = "failed to get oauth token"
	ErrMsgFailedToSaveToken   = "failed to save oauth token"
	ErrMsgFailedToDeleteToken = "failed to delete oauth token"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
