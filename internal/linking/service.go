package linking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/osse101/OsuLink_Go/internal/concurrency"
	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/metrics"
	"github.com/osse101/OsuLink_Go/internal/oauth"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/repository"
	"github.com/osse101/OsuLink_Go/internal/token"
)

// Identity resolves the osu! account that owns an access token
type Identity interface {
	Me(ctx context.Context, token *domain.TokenRecord, mode domain.GameMode) (*osuapi.UserExtended, error)
}

// LinkResult describes a completed link
type LinkResult struct {
	PlatformID        string         `json:"platform_id"`
	ExternalAccountID string         `json:"external_account_id"`
	Username          string         `json:"username,omitempty"`
	Scopes            []domain.Scope `json:"scopes"`
	ExpiresAt         time.Time      `json:"expires_at"`
}

// LinkStatus represents current linking status
type LinkStatus struct {
	PlatformID        string                     `json:"platform_id"`
	Linked            bool                       `json:"linked"`
	ExternalAccountID string                     `json:"external_account_id,omitempty"`
	Pending           *domain.AuthorizationState `json:"pending,omitempty"`
	Token             *domain.TokenInfo          `json:"token,omitempty"`
}

// Service defines the account linking handshake
type Service interface {
	// Begin opens an authorization attempt and returns the consent URL
	Begin(ctx context.Context, platformID string, scopes []domain.Scope) (*domain.AuthorizationState, string, error)

	// Complete finishes the attempt from a pasted redirect URL
	Complete(ctx context.Context, platformID, callbackURL string) (*LinkResult, error)

	// CompleteByState finishes the attempt from the provider's browser redirect
	CompleteByState(ctx context.Context, state, code string) (*LinkResult, error)

	// Unlink removes the link and its stored grant
	Unlink(ctx context.Context, platformID string) (string, error)

	// Status returns current link status
	Status(ctx context.Context, platformID string) (*LinkStatus, error)
}

// Dependencies are the collaborators of the handshake service
type Dependencies struct {
	Registry Registry
	Tokens   token.Store
	Flow     oauth.Flow
	Identity Identity
	Pending  repository.Authorization
	// Sessions is the per-platform lock shared with token refresh
	Sessions *concurrency.LockManager
	Now      func() time.Time
}

// Timeouts control how long an attempt stays open
type Timeouts struct {
	Authorization time.Duration
	RetryGrace    time.Duration
}

type service struct {
	Dependencies
	timeouts Timeouts
}

// NewService creates a new linking service. Zero timeouts use the defaults.
func NewService(deps Dependencies, timeouts Timeouts) Service {
	if deps.Sessions == nil {
		deps.Sessions = concurrency.NewLockManager()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if timeouts.Authorization <= 0 {
		timeouts.Authorization = AuthorizationTimeout
	}
	if timeouts.RetryGrace <= 0 {
		timeouts.RetryGrace = RetryGrace
	}
	return &service{Dependencies: deps, timeouts: timeouts}
}

// withIdentify falls back to the default scopes and otherwise adds identify,
// which completing a link needs to resolve the account.
func withIdentify(scopes []domain.Scope) []domain.Scope {
	if len(scopes) == 0 {
		return domain.DefaultScopes
	}
	if slices.Contains(scopes, domain.ScopeIdentify) {
		return scopes
	}
	return append(slices.Clone(scopes), domain.ScopeIdentify)
}

func (s *service) Begin(ctx context.Context, platformID string, scopes []domain.Scope) (*domain.AuthorizationState, string, error) {
	if !s.Flow.Configured() {
		return nil, "", domain.ErrOAuthNotConfigured
	}
	linked, err := s.Registry.IsPlatformLinked(ctx, platformID)
	if err != nil {
		return nil, "", err
	}
	if linked {
		metrics.RecordLinkAction(metrics.ActionBegin, metrics.ResultRejected)
		return nil, "", domain.ErrAlreadyLinked
	}
	scopes = withIdentify(scopes)

	now := s.Now()
	auth := domain.AuthorizationState{
		PlatformID: platformID,
		State:      oauth.BuildState(platformID, now),
		Scopes:     scopes,
		IssuedAt:   now,
		Deadline:   now.Add(s.timeouts.Authorization),
	}
	if err := s.Pending.PutAuthorization(ctx, auth); err != nil {
		return nil, "", fmt.Errorf(ErrContextFailedToStoreAuthorization, err)
	}

	metrics.RecordLinkAction(metrics.ActionBegin, metrics.ResultSuccess)
	logger.FromContext(ctx).Info(LogMsgAuthorizationStarted,
		LogKeyPlatformID, platformID,
		LogKeyDeadline, auth.Deadline)
	return &auth, s.Flow.AuthorizationURL(scopes, auth.State), nil
}

func (s *service) Complete(ctx context.Context, platformID, callbackURL string) (*LinkResult, error) {
	pending, err := s.Pending.LatestForPlatform(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf(ErrContextFailedToLoadAuthorization, err)
	}
	if pending == nil || pending.ExpiredAt(s.Now()) {
		metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultExpired)
		return nil, domain.ErrAuthorizationExpired
	}

	cb, err := oauth.ParseCallback(callbackURL)
	if err != nil {
		return nil, s.extend(ctx, *pending, err)
	}

	// A callback without state is accepted; a foreign one is not.
	if cb.State != "" && !oauth.StateBelongsTo(cb.State, platformID) {
		s.drop(ctx, pending.State)
		metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultRejected)
		logger.FromContext(ctx).Warn(LogMsgAuthorizationAborted,
			LogKeyPlatformID, platformID,
			LogKeyState, cb.State)
		return nil, domain.ErrStateMismatch
	}

	return s.finish(ctx, *pending, cb.Code)
}

func (s *service) CompleteByState(ctx context.Context, state, code string) (*LinkResult, error) {
	pending, err := s.Pending.GetAuthorization(ctx, state)
	if err != nil {
		return nil, fmt.Errorf(ErrContextFailedToLoadAuthorization, err)
	}
	if pending == nil || pending.ExpiredAt(s.Now()) {
		metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultExpired)
		return nil, domain.ErrAuthorizationExpired
	}
	if code == "" {
		return nil, s.extend(ctx, *pending, domain.ErrInvalidCallback)
	}
	return s.finish(ctx, *pending, code)
}

// extend keeps the attempt open for a corrected retry and returns cause.
func (s *service) extend(ctx context.Context, pending domain.AuthorizationState, cause error) error {
	pending.Deadline = s.Now().Add(s.timeouts.RetryGrace)
	if err := s.Pending.PutAuthorization(ctx, pending); err != nil {
		return fmt.Errorf(ErrContextFailedToStoreAuthorization, err)
	}
	logger.FromContext(ctx).Info(LogMsgAuthorizationExtended,
		LogKeyPlatformID, pending.PlatformID,
		LogKeyDeadline, pending.Deadline)
	return cause
}

func (s *service) drop(ctx context.Context, state string) {
	if err := s.Pending.DeleteAuthorization(ctx, state); err != nil {
		logger.FromContext(ctx).Warn(LogMsgFailedToDropPending, LogKeyState, state, LogKeyError, err)
	}
}

// finish is the terminal path of an attempt: the pending state is dropped
// whatever the outcome.
func (s *service) finish(ctx context.Context, pending domain.AuthorizationState, code string) (*LinkResult, error) {
	defer s.drop(ctx, pending.State)
	platformID := pending.PlatformID

	record, err := s.Flow.Exchange(ctx, code, pending.Scopes...)
	if err != nil {
		metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultFailure)
		return nil, err
	}

	unlock := s.Sessions.Lock(platformID)
	defer unlock()

	if err := s.Tokens.Save(ctx, platformID, *record); err != nil {
		metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultFailure)
		return nil, fmt.Errorf(ErrContextFailedToSaveToken, err)
	}

	result, err := s.bind(ctx, platformID, record)
	if err != nil {
		s.cleanup(ctx, platformID)
		outcome := metrics.ResultFailure
		if errors.Is(err, domain.ErrLinkConflict) {
			outcome = metrics.ResultConflict
		}
		metrics.RecordLinkAction(metrics.ActionComplete, outcome)
		return nil, err
	}

	metrics.RecordLinkAction(metrics.ActionComplete, metrics.ResultSuccess)
	return result, nil
}

// bind identifies the token owner and records the link
func (s *service) bind(ctx context.Context, platformID string, record *domain.TokenRecord) (*LinkResult, error) {
	me, err := s.Identity.Me(ctx, record, domain.ModeDefault)
	if err != nil {
		return nil, fmt.Errorf(ErrContextFailedToIdentify, err)
	}
	if me.ID == nil {
		return nil, fmt.Errorf(ErrContextFailedToIdentify, domain.ErrUpstreamParse)
	}
	accountID := strconv.FormatInt(*me.ID, 10)

	if err := s.Registry.Link(ctx, accountID, platformID); err != nil {
		return nil, err
	}

	return &LinkResult{
		PlatformID:        platformID,
		ExternalAccountID: accountID,
		Username:          osuapi.Value(me.Username),
		Scopes:            record.Scopes(),
		ExpiresAt:         record.ExpiresAt,
	}, nil
}

// cleanup removes a token saved by an attempt that did not produce a link
func (s *service) cleanup(ctx context.Context, platformID string) {
	log := logger.FromContext(ctx)
	log.Warn(LogMsgCompensatingCleanup, LogKeyPlatformID, platformID)
	if err := s.Tokens.Remove(ctx, platformID); err != nil {
		log.Error(LogMsgCompensatingCleanupErr, LogKeyPlatformID, platformID, LogKeyError, err)
	}
}

func (s *service) Unlink(ctx context.Context, platformID string) (string, error) {
	unlock := s.Sessions.Lock(platformID)
	defer unlock()

	accountID, err := s.Registry.Unlink(ctx, platformID)
	if err != nil {
		outcome := metrics.ResultFailure
		if errors.Is(err, domain.ErrNotLinked) {
			outcome = metrics.ResultNotLinked
		}
		metrics.RecordLinkAction(metrics.ActionUnlink, outcome)
		return "", err
	}

	if err := s.Tokens.Remove(ctx, platformID); err != nil {
		metrics.RecordLinkAction(metrics.ActionUnlink, metrics.ResultFailure)
		return accountID, fmt.Errorf(ErrContextFailedToRemoveToken, err)
	}

	if pending, err := s.Pending.LatestForPlatform(ctx, platformID); err == nil && pending != nil {
		s.drop(ctx, pending.State)
	}

	metrics.RecordLinkAction(metrics.ActionUnlink, metrics.ResultSuccess)
	return accountID, nil
}

func (s *service) Status(ctx context.Context, platformID string) (*LinkStatus, error) {
	accountID, linked, err := s.Registry.ExternalByPlatform(ctx, platformID)
	if err != nil {
		return nil, err
	}

	status := &LinkStatus{
		PlatformID:        platformID,
		Linked:            linked,
		ExternalAccountID: accountID,
	}

	pending, err := s.Pending.LatestForPlatform(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf(ErrContextFailedToLoadAuthorization, err)
	}
	status.Pending = pending

	info, err := s.Tokens.Info(ctx, platformID)
	if err != nil {
		return nil, err
	}
	status.Token = info

	return status, nil
}
