package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/OsuLink_Go/internal/gate"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/linking"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/metrics"
)

// Dependencies are the services behind the HTTP surface
type Dependencies struct {
	Linking   linking.Service
	Registry  handler.PlatformLister
	Accounts  handler.AccountResolver
	Tokens    handler.TokenInspector
	Refresher handler.TokenRefresher
	Gate      gate.Gate
	Osu       handler.OsuAPI
	OsuTrack  handler.OsuTrack
	Readiness []handler.ReadinessCheck
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(apiKey, trustedProxies, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routed handler with the full middleware stack
func NewRouter(apiKey string, trustedProxies []string, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewActivityDetector()
	ips := NewIPResolver(trustedProxies)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, ips, detector))
	r.Use(RateLimitMiddleware(ips, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Readiness...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	linkingHandlers := handler.NewLinkingHandlers(deps.Linking, deps.Registry)
	tokenHandlers := handler.NewTokenHandlers(deps.Tokens, deps.Refresher)
	gateHandlers := handler.NewGateHandlers(deps.Gate)
	osuHandlers := handler.NewOsuHandlers(deps.Gate, deps.Osu, deps.OsuTrack, deps.Accounts)

	// Browser redirect from the osu! consent page
	r.Get(PathOAuthCallback, linkingHandlers.HandleCallback())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/link", func(r chi.Router) {
			r.Post("/begin", linkingHandlers.HandleBegin())
			r.Post("/complete", linkingHandlers.HandleComplete())
			r.Post("/unlink", linkingHandlers.HandleUnlink())
			r.Get("/status", linkingHandlers.HandleStatus())
			r.Get("/platforms", linkingHandlers.HandlePlatforms())
		})

		r.Route("/token", func(r chi.Router) {
			r.Get("/info", tokenHandlers.HandleInfo())
			r.Post("/refresh", tokenHandlers.HandleRefresh())
		})

		r.Post("/gate/authorize", gateHandlers.HandleAuthorize())

		r.Route("/osu", func(r chi.Router) {
			r.Get("/me", osuHandlers.HandleMe())
			r.Get("/friends", osuHandlers.HandleFriends())
			r.Post("/users/lookup", osuHandlers.HandleLookup())
			r.Get("/users/{user}", osuHandlers.HandleUser())
		})

		r.Route("/osutrack", func(r chi.Router) {
			r.Post("/update", osuHandlers.HandleTrackUpdate())
			r.Get("/history", osuHandlers.HandleStatsHistory())
			r.Get("/hiscores", osuHandlers.HandleHiScores())
			r.Get("/bestplays", osuHandlers.HandleBestPlays())
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// sensitiveQueryParams never reach the logs; the callback carries a live
// authorization code.
var sensitiveQueryParams = []string{"code", "state"}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"query", redactQuery(r),
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{logger.RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", metrics.StatusOf(ww),
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

func redactQuery(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return ""
	}
	q := r.URL.Query()
	for _, key := range sensitiveQueryParams {
		if q.Has(key) {
			q.Set(key, logger.RedactedValue)
		}
	}
	return q.Encode()
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
