package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/osse101/OsuLink_Go/internal/config"
	"github.com/osse101/OsuLink_Go/internal/database"
	"github.com/osse101/OsuLink_Go/internal/domain"
)

// errNoRefresh is returned when the provider gave no usable grant back
var errNoRefresh = errors.New("no refreshable token stored for this platform id")

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <platform_id>",
		Short: "Show link, pending authorization and token state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				status, err := a.svcs.Linking.Status(ctx, args[0])
				if err != nil {
					return err
				}

				now := time.Now()
				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(header("FIELD", "VALUE"))
				t.AppendRow([]interface{}{"Platform ID", status.PlatformID})
				t.AppendRow([]interface{}{"Linked", yesNo(status.Linked)})
				if status.Linked {
					t.AppendRow([]interface{}{"osu! account", status.ExternalAccountID})
				}
				if p := status.Pending; p != nil {
					t.AppendRow([]interface{}{"Pending until", formatExpiry(p.Deadline, now)})
				}
				if tok := status.Token; tok != nil {
					t.AppendRow([]interface{}{"Token expires", formatExpiry(tok.ExpiresAt, now)})
					t.AppendRow([]interface{}{"Scopes", domain.JoinScopes(tok.Scopes, " ")})
					t.AppendRow([]interface{}{"Refreshable", yesNo(tok.HasRefreshToken)})
				} else {
					t.AppendRow([]interface{}{"Token", "none"})
				}
				t.Render()
				return nil
			})
		},
	}
}

func newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <platform_id>",
		Short: "Remove a link and discard its stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				external, err := a.svcs.Linking.Unlink(ctx, args[0])
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Unlinked %s from osu! account %s", args[0], external)
				return nil
			})
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <platform_id>",
		Short: "Exchange the stored refresh token for a new grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if !a.svcs.Flow.Configured() {
					return domain.ErrOAuthNotConfigured
				}
				record, err := a.svcs.Flow.Refresh(ctx, args[0])
				if err != nil {
					return err
				}
				if record == nil {
					return errNoRefresh
				}
				success(cmd.OutOrStdout(), "Refreshed %s, expires %s", args[0], formatExpiry(record.ExpiresAt, time.Now()))
				return nil
			})
		},
	}
}

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms <external_account_id>",
		Short: "List platform identities linked to an osu! account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				ids, err := a.svcs.Registry.PlatformsByExternal(ctx, args[0])
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No platform ids linked to %s\n", args[0])
					return nil
				}
				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(header("#", "PLATFORM ID"))
				for i, id := range ids {
					t.AppendRow([]interface{}{i + 1, id})
				}
				t.Render()
				return nil
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				applied, err := database.Migrate(ctx, pool)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Applied %d migration(s)", applied)
				return nil
			})
		},
	})
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				statuses, err := database.MigrationStatuses(ctx, pool)
				if err != nil {
					return err
				}
				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(header("VERSION", "FILE", "APPLIED"))
				for _, s := range statuses {
					t.AppendRow([]interface{}{s.Version, s.Source, yesNo(s.Applied)})
				}
				t.Render()
				return nil
			})
		},
	})
	return migrate
}

// withPool opens the configured PostgreSQL database without migrating it
func withPool(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !strings.EqualFold(cfg.StorageBackend, config.StorageBackendPostgres) {
		return fmt.Errorf("migrations need STORAGE_BACKEND=%s, got %q", config.StorageBackendPostgres, cfg.StorageBackend)
	}
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, pool)
}
