package logger

const ContextKeyRequestID = "request_id"

// Log level and format values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

const DefaultServiceName = "osulink"

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)

// RedactedValue replaces secret attribute values
const RedactedValue = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach the log output,
// matched case-insensitively at any group depth.
var sensitiveKeys = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"client_secret": {},
	"code":          {},
	"authorization": {},
	"x-api-key":     {},
	"api_key":       {},
	"password":      {},
}
