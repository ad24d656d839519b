package file

import "os"

// File names inside the data directory
const (
	LinkTableFileName  = "osu_links.json"
	TokenTableFileName = "osu_tokens.json"
)

// File system permissions
const (
	DirPermission  os.FileMode = 0o755
	FilePermission os.FileMode = 0o600
)

// Log messages
const (
	LogMsgTableReset    = "Backing table unreadable, reinitializing as empty"
	LogMsgTableResetErr = "Failed to reinitialize backing table"
)

// Error messages
const (
	ErrMsgFailedToCreateDir   = "failed to create data directory"
	ErrMsgFailedToEncodeTable = "failed to encode table"
	ErrMsgFailedToWriteTable  = "failed to write table"
)
