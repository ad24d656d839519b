package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	var container testcontainers.Container
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("docker unavailable: %v", r)
			}
		}()
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
	}()
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return "redis://" + endpoint + "/0"
}

func TestAuthorizationStore_Integration(t *testing.T) {
	url := setupRedis(t)
	ctx := context.Background()

	client, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	now := time.Now()
	clock := func() time.Time { return now }
	store := NewAuthorizationStore(client, clock)

	first := domain.AuthorizationState{
		PlatformID: "d1",
		State:      "d1_1",
		Scopes:     domain.DefaultScopes,
		IssuedAt:   now,
		Deadline:   now.Add(5 * time.Minute),
	}

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.PutAuthorization(ctx, first))

		got, err := store.GetAuthorization(ctx, "d1_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "d1", got.PlatformID)
		assert.Equal(t, domain.DefaultScopes, got.Scopes)

		ttl, err := client.TTL(ctx, stateKey("d1_1")).Result()
		require.NoError(t, err)
		assert.InDelta(t, (5 * time.Minute).Seconds(), ttl.Seconds(), 5)
	})

	t.Run("newer attempt supersedes", func(t *testing.T) {
		second := first
		second.State = "d1_2"
		require.NoError(t, store.PutAuthorization(ctx, second))

		old, err := store.GetAuthorization(ctx, "d1_1")
		require.NoError(t, err)
		assert.Nil(t, old)

		latest, err := store.LatestForPlatform(ctx, "d1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "d1_2", latest.State)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteAuthorization(ctx, "d1_2"))

		latest, err := store.LatestForPlatform(ctx, "d1")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("past deadline is never stored", func(t *testing.T) {
		stale := first
		stale.State = "d1_3"
		stale.Deadline = now.Add(-time.Second)
		require.NoError(t, store.PutAuthorization(ctx, stale))

		got, err := store.GetAuthorization(ctx, "d1_3")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
