package repository

import (
	"context"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// Authorization stores pending authorization attempts until their deadline.
// Entries past their deadline behave as absent.
type Authorization interface {
	PutAuthorization(ctx context.Context, state domain.AuthorizationState) error
	// GetAuthorization returns nil when the state is unknown or expired.
	GetAuthorization(ctx context.Context, state string) (*domain.AuthorizationState, error)
	// LatestForPlatform returns the most recent pending attempt for a platform id, or nil.
	LatestForPlatform(ctx context.Context, platformID string) (*domain.AuthorizationState, error)
	DeleteAuthorization(ctx context.Context, state string) error
}
