package gate

// Built-in operation names
const (
	OperationMe      = "me"
	OperationUser    = "user"
	OperationUsers   = "users"
	OperationFriends = "friends"
)

// Error messages
const (
	ErrMsgUnknownOperation = "unknown operation"
	ErrMsgUnknownScope     = "unknown scope in policy"
	ErrMsgReadPolicy       = "failed to read scope policy"
	ErrMsgParsePolicy      = "failed to parse scope policy"
	ErrMsgInvalidPolicy    = "scope policy does not match schema"
)

// Log messages
const (
	LogMsgPolicyDefaults  = "No scope policy file found, using built-in policy"
	LogMsgPolicyLoaded    = "Scope policy loaded"
	LogMsgAuthorizeDenied = "Authorization denied"
)

// Log keys
const (
	LogKeyPath       = "path"
	LogKeyOperations = "operations"
	LogKeyPlatformID = "platform_id"
	LogKeyReason     = "reason"
	LogKeyMissing    = "missing"
)
