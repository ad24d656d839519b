package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

const (
	keyPrefixState    = "osulink:auth:"
	keyPrefixPlatform = "osulink:auth:platform:"
)

// AuthorizationStore keeps pending authorization attempts in Redis so that
// several API replicas can complete each other's handshakes.
type AuthorizationStore struct {
	client *redis.Client
	now    func() time.Time
}

// Connect parses a redis:// URL and verifies connectivity
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewAuthorizationStore wraps a connected client
func NewAuthorizationStore(client *redis.Client, now func() time.Time) *AuthorizationStore {
	if now == nil {
		now = time.Now
	}
	return &AuthorizationStore{client: client, now: now}
}

func stateKey(state string) string         { return keyPrefixState + state }
func platformKey(platformID string) string { return keyPrefixPlatform + platformID }

// PutAuthorization writes the attempt with a ttl equal to its remaining window
func (s *AuthorizationStore) PutAuthorization(ctx context.Context, state domain.AuthorizationState) error {
	ttl := state.Deadline.Sub(s.now())
	if ttl <= 0 {
		return s.DeleteAuthorization(ctx, state.State)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode authorization: %w", err)
	}

	prev, err := s.client.Get(ctx, platformKey(state.PlatformID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read platform index: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != "" && prev != state.State {
			pipe.Del(ctx, stateKey(prev))
		}
		pipe.Set(ctx, stateKey(state.State), payload, ttl)
		pipe.Set(ctx, platformKey(state.PlatformID), state.State, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store authorization: %w", err)
	}
	return nil
}

// GetAuthorization returns the attempt or nil when unknown or past deadline
func (s *AuthorizationStore) GetAuthorization(ctx context.Context, state string) (*domain.AuthorizationState, error) {
	val, err := s.client.Get(ctx, stateKey(state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load authorization: %w", err)
	}

	var auth domain.AuthorizationState
	if err := json.Unmarshal(val, &auth); err != nil {
		return nil, fmt.Errorf("failed to decode authorization: %w", err)
	}
	if auth.ExpiredAt(s.now()) {
		return nil, nil
	}
	return &auth, nil
}

// LatestForPlatform resolves the platform index then the attempt
func (s *AuthorizationStore) LatestForPlatform(ctx context.Context, platformID string) (*domain.AuthorizationState, error) {
	state, err := s.client.Get(ctx, platformKey(platformID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read platform index: %w", err)
	}
	return s.GetAuthorization(ctx, state)
}

// DeleteAuthorization removes the attempt and, if it is current, the index entry
func (s *AuthorizationStore) DeleteAuthorization(ctx context.Context, state string) error {
	auth, err := s.GetAuthorization(ctx, state)
	if err != nil {
		return err
	}

	keys := []string{stateKey(state)}
	if auth != nil {
		current, err := s.client.Get(ctx, platformKey(auth.PlatformID)).Result()
		if err == nil && current == state {
			keys = append(keys, platformKey(auth.PlatformID))
		}
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete authorization: %w", err)
	}
	return nil
}
