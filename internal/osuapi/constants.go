package osuapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// DefaultBaseURL is the osu! API v2 root
const DefaultBaseURL = "https://osu.ppy.sh/api/v2"

// ServiceName labels errors and metrics for this client
const ServiceName = "osu"

// Request limits
const (
	MaxUsersPerLookup = 50
	DefaultTimeout    = 20 * time.Second
)

// User cache
const (
	DefaultUserCacheSize = 512
	DefaultUserCacheTTL  = 2 * time.Minute
)

// Endpoint paths
const (
	PathMe      = "me"
	PathUsers   = "users"
	PathFriends = "friends"
)

// UsernamePrefix forces a by-name lookup for users/{user}
const UsernamePrefix = "@"

// LookupKind says how users/{user} reads its argument. LookupAuto treats
// digits as an id and anything else as a username.
type LookupKind string

const (
	LookupAuto LookupKind = ""
	LookupID   LookupKind = "id"
	LookupName LookupKind = "name"
)

// ParseLookupKind accepts "", "id" or "name"
func ParseLookupKind(s string) (LookupKind, error) {
	switch kind := LookupKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case LookupAuto, LookupID, LookupName:
		return kind, nil
	}
	return LookupAuto, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgLookupKind, s)
}

// Error messages
const (
	ErrMsgEmptyUser    = "user must not be empty"
	ErrMsgNoUserIDs    = "at least one user id is required"
	ErrMsgTooManyUsers = "at most 50 users can be requested at once"
	ErrMsgBuildRequest = "failed to build request"
	ErrMsgNotAnID      = "user id must be numeric"
	ErrMsgLookupKind   = "lookup type must be id or name, got"
)
