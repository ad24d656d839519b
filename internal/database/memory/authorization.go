package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// DefaultAuthorizationCapacity bounds pending attempts held in memory.
const DefaultAuthorizationCapacity = 4096

// AuthorizationStore keeps pending authorization attempts in an expiring LRU.
// The LRU ttl is an upper bound for eviction; the attempt's own deadline
// decides visibility.
type AuthorizationStore struct {
	mu         sync.Mutex
	byState    *expirable.LRU[string, domain.AuthorizationState]
	byPlatform *expirable.LRU[string, string]
	now        func() time.Time
}

// NewAuthorizationStore creates a store whose entries are evicted after ttl.
// ttl should cover the longest deadline ever issued.
func NewAuthorizationStore(capacity int, ttl time.Duration, now func() time.Time) *AuthorizationStore {
	if capacity <= 0 {
		capacity = DefaultAuthorizationCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &AuthorizationStore{
		byState:    expirable.NewLRU[string, domain.AuthorizationState](capacity, nil, ttl),
		byPlatform: expirable.NewLRU[string, string](capacity, nil, ttl),
		now:        now,
	}
}

// PutAuthorization stores or replaces an attempt. A newer attempt for the
// same platform supersedes the older one.
func (s *AuthorizationStore) PutAuthorization(_ context.Context, state domain.AuthorizationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byPlatform.Get(state.PlatformID); ok && prev != state.State {
		s.byState.Remove(prev)
	}
	s.byState.Add(state.State, state)
	s.byPlatform.Add(state.PlatformID, state.State)
	return nil
}

// GetAuthorization returns the attempt for a state string if still open
func (s *AuthorizationStore) GetAuthorization(_ context.Context, state string) (*domain.AuthorizationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(state), nil
}

// LatestForPlatform returns the open attempt for a platform id
func (s *AuthorizationStore) LatestForPlatform(_ context.Context, platformID string) (*domain.AuthorizationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.byPlatform.Get(platformID)
	if !ok {
		return nil, nil
	}
	return s.lookup(state), nil
}

// DeleteAuthorization drops an attempt and its platform index entry
func (s *AuthorizationStore) DeleteAuthorization(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if auth, ok := s.byState.Peek(state); ok {
		if current, ok := s.byPlatform.Peek(auth.PlatformID); ok && current == state {
			s.byPlatform.Remove(auth.PlatformID)
		}
	}
	s.byState.Remove(state)
	return nil
}

// lookup must be called with mu held.
func (s *AuthorizationStore) lookup(state string) *domain.AuthorizationState {
	auth, ok := s.byState.Get(state)
	if !ok || auth.ExpiredAt(s.now()) {
		return nil
	}
	return &auth
}
