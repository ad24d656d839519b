// Package upstream holds the request plumbing shared by the osu! and
// osu!track clients.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/metrics"
)

// MaxErrorBodyBytes caps how much of a failed response is kept for errors
const MaxErrorBodyBytes = 4096

// DoRequestAndParse sends req and decodes a success body into out. Any
// status outside okStatuses becomes *domain.UpstreamRequestError; a
// transport failure wraps domain.ErrUpstreamUnavailable and a decode
// failure wraps domain.ErrUpstreamParse. out may be nil.
func DoRequestAndParse(ctx context.Context, client *http.Client, service string, req *http.Request, out any, okStatuses ...int) error {
	if len(okStatuses) == 0 {
		okStatuses = []int{http.StatusOK}
	}
	log := logger.FromContext(ctx)

	start := time.Now()
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		metrics.RecordUpstream(service, 0, time.Since(start))
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstreamUnavailable, service, req.URL.Path, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(service, resp.StatusCode, time.Since(start))

	if !statusIn(resp.StatusCode, okStatuses) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodyBytes))
		log.Warn("Upstream request failed",
			"service", service,
			"path", req.URL.Path,
			"status", resp.StatusCode)
		return &domain.UpstreamRequestError{Service: service, Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstreamParse, service, req.URL.Path, err)
	}
	return nil
}

func statusIn(status int, allowed []int) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
