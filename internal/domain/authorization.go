package domain

import "time"

// AuthorizationState is a pending authorization attempt. It is never written
// to the link or token tables.
type AuthorizationState struct {
	PlatformID string    `json:"platform_id"`
	State      string    `json:"state"`
	Scopes     []Scope   `json:"scopes"`
	IssuedAt   time.Time `json:"issued_at"`
	Deadline   time.Time `json:"deadline"`
}

// ExpiredAt reports whether the attempt can no longer be completed.
func (a AuthorizationState) ExpiredAt(now time.Time) bool {
	return !now.Before(a.Deadline)
}
