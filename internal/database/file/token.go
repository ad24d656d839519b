package file

import (
	"context"
	"math"
	"path/filepath"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// tokenEntry is the on-disk layout of one grant. expires_at is unix seconds
// as a JSON number, fractional part in milliseconds.
type tokenEntry struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresAt    float64 `json:"expires_at"`
	TokenType    string  `json:"token_type"`
	Scope        string  `json:"scope"`
}

func toUnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond()/int(time.Millisecond))/1e3
}

func fromUnixSeconds(f float64) time.Time {
	sec := math.Floor(f)
	ms := math.Round((f - sec) * 1e3)
	return time.Unix(int64(sec), int64(ms)*int64(time.Millisecond))
}

// TokenRepository implements repository.Token on a JSON file
type TokenRepository struct {
	table *jsonTable[map[string]tokenEntry]
}

// NewTokenRepository stores the token table in dataDir
func NewTokenRepository(dataDir string) *TokenRepository {
	return &TokenRepository{
		table: &jsonTable[map[string]tokenEntry]{
			path:  filepath.Join(dataDir, TokenTableFileName),
			empty: func() map[string]tokenEntry { return make(map[string]tokenEntry) },
			normalize: func(m *map[string]tokenEntry) {
				if *m == nil {
					*m = make(map[string]tokenEntry)
				}
			},
		},
	}
}

// GetToken returns the stored grant or nil
func (r *TokenRepository) GetToken(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	entry, ok := r.table.load(ctx)[platformID]
	if !ok {
		return nil, nil
	}

	tokenType := entry.TokenType
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}
	return &domain.TokenRecord{
		AccessToken:  entry.AccessToken,
		RefreshToken: entry.RefreshToken,
		ExpiresAt:    fromUnixSeconds(entry.ExpiresAt),
		TokenType:    tokenType,
		Scope:        entry.Scope,
	}, nil
}

// SaveToken upserts a grant and persists the whole table
func (r *TokenRepository) SaveToken(ctx context.Context, platformID string, token domain.TokenRecord) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	tokens := r.table.load(ctx)
	tokens[platformID] = tokenEntry{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    toUnixSeconds(token.ExpiresAt),
		TokenType:    token.TokenType,
		Scope:        token.Scope,
	}
	return r.table.save(tokens)
}

// DeleteToken removes a grant if present
func (r *TokenRepository) DeleteToken(ctx context.Context, platformID string) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	tokens := r.table.load(ctx)
	if _, ok := tokens[platformID]; !ok {
		return nil
	}
	delete(tokens, platformID)
	return r.table.save(tokens)
}
