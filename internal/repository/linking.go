package repository

import (
	"context"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// Linking defines data access for the identity link table.
// Implementations keep the forward (platform -> account) and reverse
// (account -> platforms) indexes consistent with each other.
type Linking interface {
	// GetLink returns the link for a platform id, or nil when none exists.
	GetLink(ctx context.Context, platformID string) (*domain.LinkRecord, error)

	// ListPlatformIDs returns the platform ids linked to an account in link order.
	ListPlatformIDs(ctx context.Context, externalAccountID string) ([]string, error)

	// SaveLink records platform -> account and appends the platform to the
	// account's reverse list if absent. It returns *domain.LinkConflictError
	// when the platform already points at a different account.
	SaveLink(ctx context.Context, link domain.LinkRecord) error

	// DeleteLink removes the forward entry and the platform from the reverse
	// list, dropping the account entry once its list is empty. It returns
	// domain.ErrNotLinked when no forward entry exists.
	DeleteLink(ctx context.Context, platformID string) (*domain.LinkRecord, error)
}
