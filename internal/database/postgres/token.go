package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// TokenRepository implements repository.Token on the oauth_tokens table
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetToken returns the stored grant for a platform id, or nil
func (r *TokenRepository) GetToken(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	query := `
		SELECT access_token, refresh_token, expires_at, token_type, scope
		FROM oauth_tokens
		WHERE platform_id = $1
	`
	var tok domain.TokenRecord
	err := r.db.QueryRow(ctx, query, platformID).Scan(
		&tok.AccessToken,
		&tok.RefreshToken,
		&tok.ExpiresAt,
		&tok.TokenType,
		&tok.Scope,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetToken, err)
	}
	if tok.TokenType == "" {
		tok.TokenType = domain.DefaultTokenType
	}
	return &tok, nil
}

// SaveToken upserts the grant for a platform id
func (r *TokenRepository) SaveToken(ctx context.Context, platformID string, token domain.TokenRecord) error {
	query := `
		INSERT INTO oauth_tokens (platform_id, access_token, refresh_token, expires_at, token_type, scope, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (platform_id) DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at    = EXCLUDED.expires_at,
			token_type    = EXCLUDED.token_type,
			scope         = EXCLUDED.scope,
			updated_at    = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		platformID,
		token.AccessToken,
		token.RefreshToken,
		token.ExpiresAt,
		token.TokenType,
		token.Scope,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveToken, err)
	}
	return nil
}

// DeleteToken removes the grant for a platform id if present
func (r *TokenRepository) DeleteToken(ctx context.Context, platformID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM oauth_tokens WHERE platform_id = $1`, platformID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteToken, err)
	}
	return nil
}
