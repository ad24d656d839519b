package gate

import (
	"context"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/metrics"
)

// LinkLookup resolves a platform id to its osu! account
type LinkLookup interface {
	ExternalByPlatform(ctx context.Context, platformID string) (string, bool, error)
}

// TokenReader reads the stored grant without side effects
type TokenReader interface {
	Get(ctx context.Context, platformID string) (*domain.TokenRecord, error)
}

// TokenProvider yields a usable grant, refreshing if needed
type TokenProvider interface {
	ValidToken(ctx context.Context, platformID string) (*domain.TokenRecord, error)
}

// Gate decides whether a platform identity may call an osu! endpoint
type Gate interface {
	// HasValidUnexpiredToken never refreshes.
	HasValidUnexpiredToken(ctx context.Context, platformID string) (bool, error)

	// CheckScope is false when no grant is stored.
	CheckScope(ctx context.Context, platformID string, capability domain.Scope) (bool, error)

	// Authorize returns a usable grant holding every capability, or
	// ErrNotLinked, ErrTokenExpired or *domain.InsufficientScopeError.
	Authorize(ctx context.Context, platformID string, capabilities ...domain.Scope) (*domain.TokenRecord, error)

	// AuthorizeOperation resolves capabilities from the scope policy.
	AuthorizeOperation(ctx context.Context, platformID, operation string) (*domain.TokenRecord, error)
}

type gate struct {
	links  LinkLookup
	tokens TokenReader
	flow   TokenProvider
	policy *Policy
	now    func() time.Time
}

// New creates a gate. A nil policy means DefaultPolicy.
func New(links LinkLookup, tokens TokenReader, flow TokenProvider, policy *Policy, now func() time.Time) Gate {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if now == nil {
		now = time.Now
	}
	return &gate{links: links, tokens: tokens, flow: flow, policy: policy, now: now}
}

func (g *gate) HasValidUnexpiredToken(ctx context.Context, platformID string) (bool, error) {
	record, err := g.tokens.Get(ctx, platformID)
	if err != nil || record == nil {
		return false, err
	}
	return !record.ExpiredAt(g.now()), nil
}

func (g *gate) CheckScope(ctx context.Context, platformID string, capability domain.Scope) (bool, error) {
	record, err := g.tokens.Get(ctx, platformID)
	if err != nil || record == nil {
		return false, err
	}
	return record.HasScope(capability), nil
}

func (g *gate) Authorize(ctx context.Context, platformID string, capabilities ...domain.Scope) (*domain.TokenRecord, error) {
	log := logger.FromContext(ctx)

	if _, linked, err := g.links.ExternalByPlatform(ctx, platformID); err != nil {
		return nil, err
	} else if !linked {
		metrics.RecordAuthorization(metrics.ResultNotLinked)
		log.Debug(LogMsgAuthorizeDenied, LogKeyPlatformID, platformID, LogKeyReason, metrics.ResultNotLinked)
		return nil, domain.ErrNotLinked
	}

	record, err := g.flow.ValidToken(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		metrics.RecordAuthorization(metrics.ResultExpired)
		log.Debug(LogMsgAuthorizeDenied, LogKeyPlatformID, platformID, LogKeyReason, metrics.ResultExpired)
		return nil, domain.ErrTokenExpired
	}

	if missing := domain.MissingScopes(record.Scope, capabilities); len(missing) > 0 {
		metrics.RecordAuthorization(metrics.ResultMissingScope)
		log.Debug(LogMsgAuthorizeDenied, LogKeyPlatformID, platformID, LogKeyMissing, missing)
		return nil, &domain.InsufficientScopeError{Missing: missing}
	}

	metrics.RecordAuthorization(metrics.ResultSuccess)
	return record, nil
}

func (g *gate) AuthorizeOperation(ctx context.Context, platformID, operation string) (*domain.TokenRecord, error) {
	required, err := g.policy.Required(operation)
	if err != nil {
		return nil, err
	}
	return g.Authorize(ctx, platformID, required...)
}
