package domain

import "time"

// LinkRecord associates one platform identity with one osu! account.
// A platform id maps to at most one account; an account may list several
// platform ids.
type LinkRecord struct {
	PlatformID        string    `json:"platform_id"`
	ExternalAccountID string    `json:"external_account_id"`
	LinkedAt          time.Time `json:"linked_at"`
}
