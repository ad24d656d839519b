package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// LinkingRepository implements repository.Linking on the account_links table
type LinkingRepository struct {
	db *pgxpool.Pool
}

// NewLinkingRepository creates a new linking repository
func NewLinkingRepository(db *pgxpool.Pool) *LinkingRepository {
	return &LinkingRepository{db: db}
}

// GetLink returns the link for a platform id, or nil if none exists
func (r *LinkingRepository) GetLink(ctx context.Context, platformID string) (*domain.LinkRecord, error) {
	query := `
		SELECT platform_id, external_account_id, linked_at
		FROM account_links
		WHERE platform_id = $1
	`
	var link domain.LinkRecord
	err := r.db.QueryRow(ctx, query, platformID).Scan(&link.PlatformID, &link.ExternalAccountID, &link.LinkedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLink, err)
	}
	return &link, nil
}

// ListPlatformIDs returns platform ids linked to an account in link order
func (r *LinkingRepository) ListPlatformIDs(ctx context.Context, externalAccountID string) ([]string, error) {
	query := `
		SELECT platform_id
		FROM account_links
		WHERE external_account_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, externalAccountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListLinks, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanLinkRow, err)
	}
	return ids, nil
}

// SaveLink inserts a link; an existing link to the same account is left as is
func (r *LinkingRepository) SaveLink(ctx context.Context, link domain.LinkRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginLinkTx, err)
	}
	defer SafeRollback(ctx, tx)

	insert := `
		INSERT INTO account_links (platform_id, external_account_id, linked_at)
		VALUES ($1, $2, COALESCE($3, NOW()))
		ON CONFLICT (platform_id) DO NOTHING
	`
	var linkedAt any
	if !link.LinkedAt.IsZero() {
		linkedAt = link.LinkedAt
	}
	if _, err := tx.Exec(ctx, insert, link.PlatformID, link.ExternalAccountID, linkedAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertLink, err)
	}

	var existing string
	err = tx.QueryRow(ctx, `SELECT external_account_id FROM account_links WHERE platform_id = $1`, link.PlatformID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToGetLink, err)
	}
	if existing != link.ExternalAccountID {
		return &domain.LinkConflictError{
			PlatformID: link.PlatformID,
			Existing:   existing,
			Requested:  link.ExternalAccountID,
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitLinkTx, err)
	}
	return nil
}

// DeleteLink removes and returns the link for a platform id
func (r *LinkingRepository) DeleteLink(ctx context.Context, platformID string) (*domain.LinkRecord, error) {
	query := `
		DELETE FROM account_links
		WHERE platform_id = $1
		RETURNING platform_id, external_account_id, linked_at
	`
	var link domain.LinkRecord
	err := r.db.QueryRow(ctx, query, platformID).Scan(&link.PlatformID, &link.ExternalAccountID, &link.LinkedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotLinked
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteLink, err)
	}
	return &link, nil
}
