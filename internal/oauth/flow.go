package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/OsuLink_Go/internal/concurrency"
	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/metrics"
	"github.com/osse101/OsuLink_Go/internal/token"
)

// Config holds the registered osu! OAuth client
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	HTTPTimeout  time.Duration
}

// Flow drives the authorization code grant against the osu! provider
type Flow interface {
	// AuthorizationURL builds the consent URL. Empty scopes request the default bundle.
	AuthorizationURL(scopes []domain.Scope, state string) string

	// Exchange trades a code for a grant. The result is not persisted.
	Exchange(ctx context.Context, code string, requested ...domain.Scope) (*domain.TokenRecord, error)

	// Refresh replaces the stored grant using its refresh token. It returns
	// nil without error when nothing can be refreshed or the provider refuses.
	Refresh(ctx context.Context, platformID string) (*domain.TokenRecord, error)

	// ValidToken returns a usable grant, refreshing first if it is expired.
	ValidToken(ctx context.Context, platformID string) (*domain.TokenRecord, error)

	// Configured is false when no OAuth client is registered.
	Configured() bool
}

type flow struct {
	cfg      Config
	tokens   token.Store
	sessions *concurrency.LockManager
	client   *http.Client
	now      func() time.Time
	group    singleflight.Group
}

// NewFlow creates a flow. sessions is the per-platform lock shared with
// linking and unlinking; now may be nil.
func NewFlow(cfg Config, tokens token.Store, sessions *concurrency.LockManager, now func() time.Time) Flow {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if sessions == nil {
		sessions = concurrency.NewLockManager()
	}
	if now == nil {
		now = time.Now
	}
	return &flow{
		cfg:      cfg,
		tokens:   tokens,
		sessions: sessions,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		now:      now,
	}
}

func (f *flow) oauthConfig(scopes []domain.Scope) *oauth2.Config {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = string(s)
	}
	return &oauth2.Config{
		ClientID:     f.cfg.ClientID,
		ClientSecret: f.cfg.ClientSecret,
		RedirectURL:  f.cfg.RedirectURI,
		Scopes:       names,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.cfg.AuthURL,
			TokenURL:  f.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (f *flow) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.client)
}

func orDefault(scopes []domain.Scope) []domain.Scope {
	if len(scopes) == 0 {
		return domain.DefaultScopes
	}
	return scopes
}

func (f *flow) Configured() bool {
	return f.cfg.ClientID != ""
}

func (f *flow) AuthorizationURL(scopes []domain.Scope, state string) string {
	return f.oauthConfig(orDefault(scopes)).AuthCodeURL(state)
}

func (f *flow) Exchange(ctx context.Context, code string, requested ...domain.Scope) (*domain.TokenRecord, error) {
	if !f.Configured() {
		return nil, domain.ErrOAuthNotConfigured
	}
	log := logger.FromContext(ctx)
	requested = orDefault(requested)

	tok, err := f.oauthConfig(requested).Exchange(f.httpContext(ctx), code)
	if err != nil {
		if status, body, ok := providerRejection(err); ok {
			log.Warn(LogMsgExchangeRejected, LogKeyStatus, status)
			metrics.RecordExchange(metrics.ResultRejected)
			return nil, &domain.ExchangeError{Status: status, Body: body}
		}
		metrics.RecordExchange(metrics.ResultFailure)
		return nil, classifyTransportError(err)
	}

	record := f.toRecord(tok, domain.JoinScopes(requested, " "))
	metrics.RecordExchange(metrics.ResultSuccess)
	log.Info(LogMsgExchangeSucceeded, LogKeyExpiresAt, record.ExpiresAt, LogKeyScope, record.Scope)
	return record, nil
}

func (f *flow) Refresh(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	return f.refresh(ctx, platformID, false)
}

func (f *flow) ValidToken(ctx context.Context, platformID string) (*domain.TokenRecord, error) {
	record, err := f.tokens.Get(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if !record.ExpiredAt(f.now()) {
		return record, nil
	}
	return f.refresh(ctx, platformID, true)
}

type refreshResult struct {
	record *domain.TokenRecord
}

// refresh coalesces concurrent callers per platform and serializes against
// link completion and unlink. With onlyIfExpired a record that another caller
// already renewed is returned as is.
//
// The shared refresh is detached from any one caller's cancellation and
// bounded by its own timeout; each caller only stops waiting on its own ctx.
func (f *flow) refresh(ctx context.Context, platformID string, onlyIfExpired bool) (*domain.TokenRecord, error) {
	key := platformID
	if onlyIfExpired {
		key += "|valid"
	}

	ch := f.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedRefreshBudget*f.cfg.HTTPTimeout)
		defer cancel()

		unlock, err := f.sessions.LockContext(shared, platformID)
		if err != nil {
			return nil, classifyTransportError(err)
		}
		defer unlock()

		record, err := f.refreshLocked(shared, platformID, onlyIfExpired)
		return refreshResult{record: record}, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(refreshResult).record, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *flow) refreshLocked(ctx context.Context, platformID string, onlyIfExpired bool) (*domain.TokenRecord, error) {
	log := logger.FromContext(ctx).With(LogKeyPlatformID, platformID)

	stored, err := f.tokens.Get(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.RefreshToken == "" {
		log.Debug(LogMsgRefreshSkipped)
		metrics.RecordRefresh(metrics.ResultSkipped)
		return nil, nil
	}
	if onlyIfExpired && !stored.ExpiredAt(f.now()) {
		log.Debug(LogMsgRefreshNotNeeded)
		return stored, nil
	}
	if !f.Configured() {
		return nil, domain.ErrOAuthNotConfigured
	}

	// An empty access token forces the source to hit the refresh grant.
	src := f.oauthConfig(stored.Scopes()).TokenSource(f.httpContext(ctx), &oauth2.Token{
		RefreshToken: stored.RefreshToken,
	})
	tok, err := src.Token()
	if err != nil {
		if status, _, ok := providerRejection(err); ok {
			log.Warn(LogMsgRefreshRejected, LogKeyStatus, status)
			metrics.RecordRefresh(metrics.ResultRejected)
			return nil, nil
		}
		metrics.RecordRefresh(metrics.ResultFailure)
		return nil, classifyTransportError(err)
	}

	record := f.toRecord(tok, stored.Scope)
	if record.RefreshToken == "" {
		record.RefreshToken = stored.RefreshToken
	}

	if err := f.tokens.Save(ctx, platformID, *record); err != nil {
		metrics.RecordRefresh(metrics.ResultFailure)
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPersistAuth, err)
	}

	metrics.RecordRefresh(metrics.ResultSuccess)
	log.Info(LogMsgRefreshSucceeded, LogKeyExpiresAt, record.ExpiresAt)
	return record, nil
}

// toRecord converts a token response. fallbackScope is used when the
// response carries no scope field.
func (f *flow) toRecord(tok *oauth2.Token, fallbackScope string) *domain.TokenRecord {
	now := f.now()

	var expiresAt time.Time
	switch {
	case tok.ExpiresIn > 0:
		expiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	case !tok.Expiry.IsZero():
		expiresAt = tok.Expiry
	default:
		expiresAt = now.Add(domain.DefaultTokenLifetime)
	}

	// Whole seconds, matching what every token table persists
	expiresAt = time.Unix(expiresAt.Unix(), 0)

	scope, _ := tok.Extra(ExtraFieldScope).(string)
	if scope == "" {
		scope = fallbackScope
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}

	return &domain.TokenRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		TokenType:    tokenType,
		Scope:        scope,
	}
}

// providerRejection reports whether err means the provider answered but did
// not issue a usable grant: a non-2xx status, an error body on a 2xx, or a
// 2xx body without an access token. Failed round trips return ok false.
func providerRejection(err error) (status int, body string, ok bool) {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil {
		return rerr.Response.StatusCode, string(rerr.Body), true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, "", false
	}
	// body read failures are reported by x/oauth2 as unwrapped strings
	if strings.Contains(err.Error(), "cannot fetch token") {
		return 0, "", false
	}
	return http.StatusOK, err.Error(), true
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, ErrMsgTokenRequestFailed, err)
}
