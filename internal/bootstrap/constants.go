package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept beside the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting OsuLink"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

// StartupTimeout bounds connecting to and migrating backends
const StartupTimeout = 30 * time.Second

// Log messages for storage initialization
const (
	LogMsgStorageFile         = "Using file storage"
	LogMsgStoragePostgres     = "Using PostgreSQL storage"
	LogMsgMigrationsApplied   = "Database migrations applied"
	LogMsgPendingStoreMemory  = "Pending authorizations kept in memory"
	LogMsgPendingStoreRedis   = "Pending authorizations kept in Redis"
	LogMsgOAuthNotConfigured  = "osu! OAuth client not configured; linking is disabled"
	ErrMsgConnectDatabase     = "failed to connect to database"
	ErrMsgMigrateDatabase     = "failed to migrate database"
	ErrMsgConnectRedis        = "failed to connect to redis"
	ErrMsgLoadScopePolicy     = "failed to load scope policy"
	ErrMsgUnknownStorage      = "unknown storage backend"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgClosingStorage       = "Closing storage connections..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgRedisCloseFailed     = "Redis client close failed"
)
