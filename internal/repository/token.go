package repository

import (
	"context"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// Token defines data access for the OAuth2 token table, keyed by platform id.
type Token interface {
	// GetToken returns the stored grant, or nil when none exists.
	GetToken(ctx context.Context, platformID string) (*domain.TokenRecord, error)
	SaveToken(ctx context.Context, platformID string, token domain.TokenRecord) error
	// DeleteToken is a no-op when nothing is stored.
	DeleteToken(ctx context.Context, platformID string) error
}
