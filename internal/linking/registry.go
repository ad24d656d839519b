package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/OsuLink_Go/internal/concurrency"
	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/repository"
)

// Registry maps chat platform identities to osu! accounts. One platform id
// maps to at most one account; an account may have many platform ids.
type Registry interface {
	// Link binds platformID to externalAccountID. Re-linking the same pair
	// succeeds without change; a different account yields *domain.LinkConflictError.
	Link(ctx context.Context, externalAccountID, platformID string) error

	// Unlink removes platformID and returns the account it pointed at.
	Unlink(ctx context.Context, platformID string) (string, error)

	ExternalByPlatform(ctx context.Context, platformID string) (string, bool, error)
	PlatformsByExternal(ctx context.Context, externalAccountID string) ([]string, error)
	IsPlatformLinked(ctx context.Context, platformID string) (bool, error)
}

type registry struct {
	repo  repository.Linking
	locks *concurrency.LockManager
}

// NewRegistry creates a registry over repo
func NewRegistry(repo repository.Linking) Registry {
	return &registry{
		repo:  repo,
		locks: concurrency.NewLockManager(),
	}
}

func (r *registry) Link(ctx context.Context, externalAccountID, platformID string) error {
	log := logger.FromContext(ctx)

	unlock := r.locks.Lock(platformID)
	defer unlock()

	existing, err := r.repo.GetLink(ctx, platformID)
	if err != nil {
		return fmt.Errorf(ErrContextFailedToCheckLink, err)
	}
	if existing != nil {
		if existing.ExternalAccountID == externalAccountID {
			return nil
		}
		log.Warn(LogMsgLinkConflict,
			LogKeyPlatformID, platformID,
			LogKeyExisting, existing.ExternalAccountID,
			LogKeyAccountID, externalAccountID)
		return &domain.LinkConflictError{
			PlatformID: platformID,
			Existing:   existing.ExternalAccountID,
			Requested:  externalAccountID,
		}
	}

	err = r.repo.SaveLink(ctx, domain.LinkRecord{
		PlatformID:        platformID,
		ExternalAccountID: externalAccountID,
	})
	if err != nil {
		var conflict *domain.LinkConflictError
		if errors.As(err, &conflict) {
			return err
		}
		return fmt.Errorf(ErrContextFailedToLinkAccounts, err)
	}

	log.Info(LogMsgAccountLinked, LogKeyPlatformID, platformID, LogKeyAccountID, externalAccountID)
	return nil
}

func (r *registry) Unlink(ctx context.Context, platformID string) (string, error) {
	unlock := r.locks.Lock(platformID)
	defer unlock()

	removed, err := r.repo.DeleteLink(ctx, platformID)
	if err != nil {
		if errors.Is(err, domain.ErrNotLinked) {
			return "", err
		}
		return "", fmt.Errorf(ErrContextFailedToUnlink, err)
	}

	logger.FromContext(ctx).Info(LogMsgAccountUnlinked,
		LogKeyPlatformID, platformID,
		LogKeyAccountID, removed.ExternalAccountID)
	return removed.ExternalAccountID, nil
}

func (r *registry) ExternalByPlatform(ctx context.Context, platformID string) (string, bool, error) {
	link, err := r.repo.GetLink(ctx, platformID)
	if err != nil {
		return "", false, fmt.Errorf(ErrContextFailedToCheckLink, err)
	}
	if link == nil {
		return "", false, nil
	}
	return link.ExternalAccountID, true, nil
}

func (r *registry) PlatformsByExternal(ctx context.Context, externalAccountID string) ([]string, error) {
	ids, err := r.repo.ListPlatformIDs(ctx, externalAccountID)
	if err != nil {
		return nil, fmt.Errorf(ErrContextFailedToCheckLink, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *registry) IsPlatformLinked(ctx context.Context, platformID string) (bool, error) {
	_, ok, err := r.ExternalByPlatform(ctx, platformID)
	return ok, err
}
