package domain

import "time"

// Token lifecycle constants
const (
	// TokenGracePeriod is subtracted from a token's expiry; inside this window
	// the token is treated as expired so it gets refreshed before use.
	TokenGracePeriod = 300 * time.Second

	// DefaultTokenLifetime is assumed when the provider omits expires_in.
	DefaultTokenLifetime = 86400 * time.Second

	// DefaultTokenType is used when the provider omits token_type.
	DefaultTokenType = "Bearer"
)

// TokenRecord is one platform identity's current OAuth2 grant.
type TokenRecord struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
}

// ExpiredAt reports whether the token must be treated as expired at now,
// i.e. now >= expires_at - grace period.
func (t TokenRecord) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt.Add(-TokenGracePeriod))
}

// Scopes returns the granted scopes.
func (t TokenRecord) Scopes() []Scope {
	return ParseScopes(t.Scope)
}

// HasScope reports whether the grant includes s.
func (t TokenRecord) HasScope(s Scope) bool {
	for _, granted := range t.Scopes() {
		if granted == s {
			return true
		}
	}
	return false
}

// TokenInfo is a secret-free summary of a stored grant.
type TokenInfo struct {
	PlatformID       string    `json:"platform_id"`
	TokenType        string    `json:"token_type"`
	Scopes           []Scope   `json:"scopes"`
	ExpiresAt        time.Time `json:"expires_at"`
	SecondsRemaining int64     `json:"seconds_remaining"`
	Expired          bool      `json:"expired"`
	HasRefreshToken  bool      `json:"has_refresh_token"`
}
