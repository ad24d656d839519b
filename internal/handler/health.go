package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/OsuLink_Go/internal/database"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"

	// ReadinessTimeout bounds all probes of one /readyz call
	ReadinessTimeout = 2 * time.Second
)

// HealthResponse is the body of /healthz and /readyz. Checks maps each probed
// backend to "ok" or its failure.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ReadinessCheck is one backend probed by /readyz
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// PoolCheck probes a database pool
func PoolCheck(pool database.Pool) ReadinessCheck {
	return ReadinessCheck{Name: "database", Check: pool.Ping}
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	}
}

// HandleReadyz probes every backend concurrently and reports each result.
// With no checks (file storage, in-memory pending store) it is always ready.
// @Summary Readiness check
// @Description Returns ok if every storage backend is reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		var mu sync.Mutex
		results := make(map[string]string, len(checks))
		healthy := true

		// Probes never return an error to the group so a slow backend
		// still gets its full budget after another one fails.
		var g errgroup.Group
		for _, c := range checks {
			g.Go(func() error {
				err := c.Check(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					slog.Error("Readiness check failed", "check", c.Name, "error", err)
					results[c.Name] = c.Name + " connection failed"
					healthy = false
					return nil
				}
				results[c.Name] = healthStatusOK
				return nil
			})
		}
		_ = g.Wait()

		resp := HealthResponse{Status: healthStatusOK}
		if len(results) > 0 {
			resp.Checks = results
		}
		if !healthy {
			resp.Status = healthStatusUnavailable
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
