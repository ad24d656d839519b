package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/OsuLink_Go/internal/bootstrap"
	"github.com/osse101/OsuLink_Go/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "linkctl",
	Short: "Administer OsuLink account links",
	Long: `linkctl reads the same environment as the API server and works on its
storage directly. Use it to inspect a platform identity, drop a broken link,
force a token refresh or run database migrations.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newUnlinkCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newPlatformsCmd())
	rootCmd.AddCommand(newMigrateCmd())
}

// app is the wired storage and services a command works with
type app struct {
	cfg   *config.Config
	repos *bootstrap.Repositories
	svcs  *bootstrap.Services
}

func (a *app) Close() {
	if a.repos != nil {
		a.repos.Close()
	}
}

// loadApp is replaced in tests
var loadApp = func(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	repos, err := bootstrap.InitializeRepositories(ctx, cfg, time.Now)
	if err != nil {
		return nil, err
	}
	svcs, err := bootstrap.InitializeServices(cfg, repos, time.Now)
	if err != nil {
		repos.Close()
		return nil, err
	}
	return &app{cfg: cfg, repos: repos, svcs: svcs}, nil
}

var loadConfig = func() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withApp runs fn with a loaded app and releases it afterwards
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := loadApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()
	return fn(ctx, a)
}
