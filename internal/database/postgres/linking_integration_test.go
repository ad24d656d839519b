package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/database"
	"github.com/osse101/OsuLink_Go/internal/domain"
)

func TestPostgresRepositories_Integration(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	links := NewLinkingRepository(pool)
	tokens := NewTokenRepository(pool)

	t.Run("MigrationsReportApplied", func(t *testing.T) {
		statuses, err := database.MigrationStatuses(ctx, pool)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		for _, s := range statuses {
			assert.True(t, s.Applied, "migration %d should be applied", s.Version)
		}

		n, err := database.Migrate(ctx, pool)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("SaveAndGetLink", func(t *testing.T) {
		require.NoError(t, links.SaveLink(ctx, domain.LinkRecord{PlatformID: "d1", ExternalAccountID: "42"}))

		link, err := links.GetLink(ctx, "d1")
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, "42", link.ExternalAccountID)
		assert.False(t, link.LinkedAt.IsZero())

		missing, err := links.GetLink(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("SaveSamePairIsIdempotent", func(t *testing.T) {
		require.NoError(t, links.SaveLink(ctx, domain.LinkRecord{PlatformID: "d1", ExternalAccountID: "42"}))

		ids, err := links.ListPlatformIDs(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, ids)
	})

	t.Run("ConflictLeavesExistingLink", func(t *testing.T) {
		err := links.SaveLink(ctx, domain.LinkRecord{PlatformID: "d1", ExternalAccountID: "43"})

		var conflict *domain.LinkConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "42", conflict.Existing)

		link, err := links.GetLink(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "42", link.ExternalAccountID)
	})

	t.Run("ReverseKeepsLinkOrder", func(t *testing.T) {
		require.NoError(t, links.SaveLink(ctx, domain.LinkRecord{PlatformID: "d3", ExternalAccountID: "42"}))
		require.NoError(t, links.SaveLink(ctx, domain.LinkRecord{PlatformID: "d2", ExternalAccountID: "42"}))

		ids, err := links.ListPlatformIDs(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d3", "d2"}, ids)
	})

	t.Run("DeleteLink", func(t *testing.T) {
		removed, err := links.DeleteLink(ctx, "d3")
		require.NoError(t, err)
		assert.Equal(t, "42", removed.ExternalAccountID)

		ids, err := links.ListPlatformIDs(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, ids)

		_, err = links.DeleteLink(ctx, "d3")
		assert.ErrorIs(t, err, domain.ErrNotLinked)
	})

	t.Run("TokenUpsertAndDelete", func(t *testing.T) {
		first := domain.TokenRecord{
			AccessToken:  "A",
			RefreshToken: "R",
			ExpiresAt:    time.Unix(1_700_086_400, 0),
			TokenType:    "Bearer",
			Scope:        "public identify",
		}
		require.NoError(t, tokens.SaveToken(ctx, "d1", first))

		got, err := tokens.GetToken(ctx, "d1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "A", got.AccessToken)
		assert.True(t, first.ExpiresAt.Equal(got.ExpiresAt))
		assert.Equal(t, "public identify", got.Scope)

		second := first
		second.AccessToken = "A2"
		require.NoError(t, tokens.SaveToken(ctx, "d1", second))

		got, err = tokens.GetToken(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "A2", got.AccessToken)

		require.NoError(t, tokens.DeleteToken(ctx, "d1"))
		require.NoError(t, tokens.DeleteToken(ctx, "d1"))

		got, err = tokens.GetToken(ctx, "d1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
