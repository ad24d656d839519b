package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/bootstrap"
	"github.com/osse101/OsuLink_Go/internal/config"
	"github.com/osse101/OsuLink_Go/internal/domain"
)

// useFileBackend points every command at a fresh file store
func useFileBackend(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		StorageBackend:      config.StorageBackendFile,
		DataDir:             t.TempDir(),
		AuthCallbackTimeout: config.DefaultAuthTimeout,
		AuthRetryGrace:      config.DefaultAuthRetryGrace,
		OsuHTTPTimeout:      config.DefaultOsuHTTPTimeout,
		ScopePolicyPath:     filepath.Join(t.TempDir(), "missing.yaml"),
	}

	oldApp, oldConfig := loadApp, loadConfig
	t.Cleanup(func() { loadApp, loadConfig = oldApp, oldConfig })

	loadConfig = func() (*config.Config, error) { return cfg, nil }
	loadApp = func(ctx context.Context) (*app, error) {
		repos, err := bootstrap.InitializeRepositories(ctx, cfg, time.Now)
		if err != nil {
			return nil, err
		}
		svcs, err := bootstrap.InitializeServices(cfg, repos, time.Now)
		if err != nil {
			return nil, err
		}
		return &app{cfg: cfg, repos: repos, svcs: svcs}, nil
	}
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, external, platformID string, token *domain.TokenRecord) {
	t.Helper()
	ctx := context.Background()
	a, err := loadApp(ctx)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.svcs.Registry.Link(ctx, external, platformID))
	if token != nil {
		require.NoError(t, a.svcs.Tokens.Save(ctx, platformID, *token))
	}
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "linkctl", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"status", "unlink", "refresh", "platforms", "migrate"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestStatusCommand(t *testing.T) {
	useFileBackend(t)

	t.Run("unlinked identity", func(t *testing.T) {
		out, err := run(t, "status", "d-unknown")
		require.NoError(t, err)
		assert.Contains(t, out, "d-unknown")
		assert.Contains(t, out, "none")
	})

	t.Run("linked identity with token", func(t *testing.T) {
		seed(t, "2", "d1", &domain.TokenRecord{
			AccessToken:  "A",
			RefreshToken: "R",
			ExpiresAt:    time.Now().Add(time.Hour),
			Scope:        "public identify",
		})

		out, err := run(t, "status", "d1")
		require.NoError(t, err)
		assert.Contains(t, out, "osu! account")
		assert.Contains(t, out, "public identify")
	})

	t.Run("requires an argument", func(t *testing.T) {
		_, err := run(t, "status")
		assert.Error(t, err)
	})
}

func TestPlatformsCommand(t *testing.T) {
	useFileBackend(t)
	seed(t, "2", "d1", nil)
	seed(t, "2", "t1", nil)

	out, err := run(t, "platforms", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "d1")
	assert.Contains(t, out, "t1")

	out, err = run(t, "platforms", "999")
	require.NoError(t, err)
	assert.Contains(t, out, "No platform ids linked to 999")
}

func TestUnlinkCommand(t *testing.T) {
	useFileBackend(t)
	seed(t, "2", "d1", &domain.TokenRecord{AccessToken: "A", ExpiresAt: time.Now().Add(time.Hour)})

	out, err := run(t, "unlink", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlinked d1 from osu! account 2")

	_, err = run(t, "unlink", "d1")
	assert.ErrorIs(t, err, domain.ErrNotLinked)
}

func TestRefreshCommand_NoOAuthClient(t *testing.T) {
	useFileBackend(t)

	_, err := run(t, "refresh", "d1")
	assert.ErrorIs(t, err, domain.ErrOAuthNotConfigured)
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	useFileBackend(t)

	_, err := run(t, "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND=postgres")
}
