package discord

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthStatus is the body of the bot's /health endpoint
type HealthStatus struct {
	Status           string     `json:"status"`
	Uptime           string     `json:"uptime"`
	Connected        bool       `json:"connected"`
	APIReachable     bool       `json:"api_reachable"`
	CommandsReceived int64      `json:"commands_received"`
	LastCommandTime  *time.Time `json:"last_command_time,omitempty"`
}

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthProbeTimeout   = 2 * time.Second
)

// Healthy means a live gateway session and a reachable link server
func (h HealthStatus) Healthy() bool {
	return h.Connected && h.APIReachable
}

func (s *HTTPServer) health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	status := HealthStatus{
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		Connected:    s.bot.Connected(),
		APIReachable: s.bot.Client != nil && s.bot.Client.Healthy(ctx),
	}
	if s.bot.Registry != nil {
		count, last := s.bot.Registry.Handled()
		status.CommandsReceived = count
		if !last.IsZero() {
			status.LastCommandTime = &last
		}
	}

	status.Status = healthStatusDegraded
	if status.Healthy() {
		status.Status = healthStatusHealthy
	}
	return status
}

// HandleHealth reports gateway and link server connectivity, 503 when
// either is down.
func (s *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.Debug("Failed to write health response", "error", err)
	}
}
