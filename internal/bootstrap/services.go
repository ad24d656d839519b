package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/OsuLink_Go/internal/concurrency"
	"github.com/osse101/OsuLink_Go/internal/config"
	"github.com/osse101/OsuLink_Go/internal/gate"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/linking"
	"github.com/osse101/OsuLink_Go/internal/oauth"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
	"github.com/osse101/OsuLink_Go/internal/server"
	"github.com/osse101/OsuLink_Go/internal/token"
)

// Services holds the wired application services.
type Services struct {
	Registry linking.Registry
	Tokens   token.Store
	Flow     oauth.Flow
	Gate     gate.Gate
	Linking  linking.Service
	Osu      *osuapi.Client
	OsuTrack *osutrack.Client
}

// InitializeServices builds every service over repos. Refresh, link
// completion and unlink share one per-platform session lock.
func InitializeServices(cfg *config.Config, repos *Repositories, now func() time.Time) (*Services, error) {
	if now == nil {
		now = time.Now
	}

	policy, err := gate.LoadPolicy(cfg.ScopePolicyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadScopePolicy, err)
	}
	if !cfg.OAuthConfigured() {
		slog.Warn(LogMsgOAuthNotConfigured)
	}

	sessions := concurrency.NewLockManager()
	registry := linking.NewRegistry(repos.Linking)
	tokens := token.NewStore(repos.Token, now)
	flow := oauth.NewFlow(oauth.Config{
		ClientID:     cfg.OsuClientID,
		ClientSecret: cfg.OsuClientSecret,
		RedirectURI:  cfg.OsuRedirectURI,
		AuthURL:      cfg.OsuAuthURL,
		TokenURL:     cfg.OsuTokenURL,
		HTTPTimeout:  cfg.OsuHTTPTimeout,
	}, tokens, sessions, now)

	httpClient := &http.Client{Timeout: cfg.OsuHTTPTimeout}
	osu := osuapi.NewClient(cfg.OsuAPIBaseURL, httpClient)
	track := osutrack.NewClient(cfg.OsuTrackBaseURL, httpClient)

	svc := linking.NewService(linking.Dependencies{
		Registry: registry,
		Tokens:   tokens,
		Flow:     flow,
		Identity: osu,
		Pending:  repos.Authorization,
		Sessions: sessions,
		Now:      now,
	}, linking.Timeouts{
		Authorization: cfg.AuthCallbackTimeout,
		RetryGrace:    cfg.AuthRetryGrace,
	})

	return &Services{
		Registry: registry,
		Tokens:   tokens,
		Flow:     flow,
		Gate:     gate.New(registry, tokens, flow, policy, now),
		Linking:  svc,
		Osu:      osu,
		OsuTrack: track,
	}, nil
}

// ServerDependencies exposes the services to the HTTP layer
func (s *Services) ServerDependencies(readiness []handler.ReadinessCheck) server.Dependencies {
	return server.Dependencies{
		Linking:   s.Linking,
		Registry:  s.Registry,
		Accounts:  s.Registry,
		Tokens:    s.Tokens,
		Refresher: s.Flow,
		Gate:      s.Gate,
		Osu:       s.Osu,
		OsuTrack:  s.OsuTrack,
		Readiness: readiness,
	}
}
