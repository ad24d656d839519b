package domain

import "strings"

// Scope is a named permission granted by the osu! OAuth2 provider.
type Scope string

// osu! API authorization scopes
const (
	ScopePublic          Scope = "public"
	ScopeIdentify        Scope = "identify"
	ScopeFriendsRead     Scope = "friends.read"
	ScopeForumWrite      Scope = "forum.write"
	ScopeDelegate        Scope = "delegate"
	ScopeChatWrite       Scope = "chat.write"
	ScopeChatRead        Scope = "chat.read"
	ScopeChatWriteManage Scope = "chat.write_manage"
)

// DefaultScopes is requested when a caller does not name any scopes.
var DefaultScopes = []Scope{ScopePublic, ScopeIdentify, ScopeFriendsRead}

var knownScopes = map[Scope]struct{}{
	ScopePublic:          {},
	ScopeIdentify:        {},
	ScopeFriendsRead:     {},
	ScopeForumWrite:      {},
	ScopeDelegate:        {},
	ScopeChatWrite:       {},
	ScopeChatRead:        {},
	ScopeChatWriteManage: {},
}

// Valid reports whether s is a scope the provider understands.
func (s Scope) Valid() bool {
	_, ok := knownScopes[s]
	return ok
}

// ParseScopes splits a space-delimited scope string. Empty fields are dropped.
func ParseScopes(raw string) []Scope {
	fields := strings.Fields(raw)
	scopes := make([]Scope, 0, len(fields))
	for _, f := range fields {
		scopes = append(scopes, Scope(f))
	}
	return scopes
}

// JoinScopes renders scopes with the given separator.
func JoinScopes(scopes []Scope, sep string) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, sep)
}

// MissingScopes returns every required scope absent from granted, in the
// order they were required. Duplicates in required are reported once.
func MissingScopes(granted string, required []Scope) []Scope {
	have := make(map[Scope]struct{})
	for _, s := range ParseScopes(granted) {
		have[s] = struct{}{}
	}

	var missing []Scope
	seen := make(map[Scope]struct{})
	for _, s := range required {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}
