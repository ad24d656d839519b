package osutrack

import "time"

// DefaultBaseURL is the osu!track API root
const DefaultBaseURL = "https://osutrack-api.ameo.dev"

// ServiceName labels errors and metrics for this client
const ServiceName = "osutrack"

// DefaultTimeout bounds each osu!track request
const DefaultTimeout = 20 * time.Second

// DateLayout is the YYYY-MM-DD form osu!track expects for ranges
const DateLayout = "2006-01-02"

// Best plays limits
const (
	MinBestPlaysLimit = 1
	MaxBestPlaysLimit = 10000
)

// Endpoint paths
const (
	PathUpdate       = "update"
	PathStatsHistory = "stats_history"
	PathHiScores     = "hiscores"
	PathPeak         = "peak"
	PathBestPlays    = "bestplays"
)

// Query parameters
const (
	ParamUser     = "user"
	ParamMode     = "mode"
	ParamUserMode = "userMode"
	ParamFrom     = "from"
	ParamTo       = "to"
	ParamLimit    = "limit"
)

// UserMode tells hiscores how to interpret the user parameter
type UserMode string

const (
	UserModeID       UserMode = "id"
	UserModeUsername UserMode = "username"
)

// Error messages
const (
	ErrMsgEmptyUser    = "user must not be empty"
	ErrMsgLimitRange   = "limit must be between 1 and 10000"
	ErrMsgBuildRequest = "failed to build request"
)

// Log messages
const (
	LogMsgUserUpdated = "osu!track user updated"
)
