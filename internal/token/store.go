package token

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/repository"
)

// Store defines the token store interface
type Store interface {
	// Save upserts the grant for a platform id.
	Save(ctx context.Context, platformID string, record domain.TokenRecord) error

	// Get returns the stored grant, or nil when none exists.
	Get(ctx context.Context, platformID string) (*domain.TokenRecord, error)

	// IsExpired is true when no grant exists or it is inside the grace period.
	IsExpired(ctx context.Context, platformID string) (bool, error)

	// Remove deletes the grant. Removing an absent grant is not an error.
	Remove(ctx context.Context, platformID string) error

	// Info summarizes the grant without exposing token strings.
	Info(ctx context.Context, platformID string) (*domain.TokenInfo, error)
}

type store struct {
	repo repository.Token
	now  func() time.Time
}

// NewStore creates a token store over repo. now may be nil.
func NewStore(repo repository.Token, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &store{repo: repo, now: now}
}

func (s *store) Save(ctx context.Context, platformID string, record domain.TokenRecord) error {
	if record.TokenType == "" {
		record.TokenType = domain.DefaultTokenType
	}
	if err := s.repo.SaveToken(ctx, platformID, record); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveToken, err)
	}
	logger.FromContext(ctx).Debug(LogMsgTokenSaved,
		LogKeyPlatformID, platformID,
		LogKeyExpiresAt, record.ExpiresAt,
		LogKeyScope, record.Scope)
	return nil
}

func (s *store) Get(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	record, err := s.repo.GetToken(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetToken, err)
	}
	return record, nil
}

func (s *store) IsExpired(ctx context.Context, platformID string) (bool, error) {
	record, err := s.Get(ctx, platformID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return true, nil
	}
	return record.ExpiredAt(s.now()), nil
}

func (s *store) Remove(ctx context.Context, platformID string) error {
	if err := s.repo.DeleteToken(ctx, platformID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveToken, err)
	}
	logger.FromContext(ctx).Debug(LogMsgTokenRemoved, LogKeyPlatformID, platformID)
	return nil
}

func (s *store) Info(ctx context.Context, platformID string) (*domain.TokenInfo, error) {
	record, err := s.Get(ctx, platformID)
	if err != nil || record == nil {
		return nil, err
	}

	now := s.now()
	remaining := int64(record.ExpiresAt.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	return &domain.TokenInfo{
		PlatformID:       platformID,
		TokenType:        record.TokenType,
		Scopes:           record.Scopes(),
		ExpiresAt:        record.ExpiresAt,
		SecondsRemaining: remaining,
		Expired:          record.ExpiredAt(now),
		HasRefreshToken:  record.RefreshToken != "",
	}, nil
}
