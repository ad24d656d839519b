package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/linking"
	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

// Client defaults
const (
	DefaultClientTimeout = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// APIError is a non-2xx answer from the OsuLink API
type APIError struct {
	Status         int
	Message        string
	Missing        []domain.Scope
	UpstreamStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// APIClient handles communication with the OsuLink API
type APIClient struct {
	BaseURL    string
	Client     *http.Client
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		Client:     &http.Client{Timeout: DefaultClientTimeout},
		APIKey:     apiKey,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

func retryable(status int) bool {
	return status == http.StatusInternalServerError || status == http.StatusGatewayTimeout
}

// doRequest performs an HTTP request, retrying transport failures and
// transient server errors with exponential backoff.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody []byte
	if body != nil {
		var err error
		if reqBody, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.RetryDelay * time.Duration(1<<uint(attempt-1))
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}
		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// call sends a request and decodes a 2xx body into out
func (c *APIClient) call(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body handler.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Missing = body.Missing
		apiErr.UpstreamStatus = body.UpstreamStatus
	}
	return apiErr
}

// IsStatus reports whether err is an APIError carrying status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Healthy pings the API liveness endpoint
func (c *APIClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// BeginLink opens an authorization attempt for a Discord user
func (c *APIClient) BeginLink(ctx context.Context, platformID string, scopes []domain.Scope) (*handler.BeginLinkResponse, error) {
	var out handler.BeginLinkResponse
	req := handler.BeginLinkRequest{PlatformID: platformID, Scopes: scopes}
	if err := c.call(ctx, http.MethodPost, "/api/v1/link/begin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteLink submits the redirect URL the user pasted back
func (c *APIClient) CompleteLink(ctx context.Context, platformID, callbackURL string) (*linking.LinkResult, error) {
	var out linking.LinkResult
	req := handler.CompleteLinkRequest{PlatformID: platformID, CallbackURL: callbackURL}
	if err := c.call(ctx, http.MethodPost, "/api/v1/link/complete", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unlink removes a user's link and stored token
func (c *APIClient) Unlink(ctx context.Context, platformID string) (string, error) {
	var out handler.UnlinkResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/link/unlink", handler.UnlinkRequest{PlatformID: platformID}, &out); err != nil {
		return "", err
	}
	return out.ExternalAccountID, nil
}

// LinkStatus reports whether a user is linked or has an attempt open
func (c *APIClient) LinkStatus(ctx context.Context, platformID string) (*linking.LinkStatus, error) {
	params := url.Values{}
	params.Set(handler.ParamPlatformID, platformID)

	var out linking.LinkStatus
	if err := c.call(ctx, http.MethodGet, "/api/v1/link/status?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the linked user's own osu! profile
func (c *APIClient) Me(ctx context.Context, platformID string, mode domain.GameMode) (*osuapi.UserExtended, error) {
	params := modeParams(platformID, mode)

	var out osuapi.UserExtended
	if err := c.call(ctx, http.MethodGet, "/api/v1/osu/me?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// User looks up any osu! user with the caller's token
func (c *APIClient) User(ctx context.Context, platformID, user string, kind osuapi.LookupKind, mode domain.GameMode) (*handler.UserView, error) {
	params := modeParams(platformID, mode)
	if kind != osuapi.LookupAuto {
		params.Set(handler.ParamLookupType, string(kind))
	}
	path := "/api/v1/osu/users/" + url.PathEscape(user) + "?" + params.Encode()

	var out handler.UserView
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users resolves up to 50 osu! ids in one request
func (c *APIClient) Users(ctx context.Context, platformID string, ids []string) ([]osuapi.UserExtended, error) {
	req := handler.LookupRequest{PlatformID: platformID, IDs: ids}

	var out []osuapi.UserExtended
	if err := c.call(ctx, http.MethodPost, "/api/v1/osu/users/lookup", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrackUpdate asks osu!track to record a fresh snapshot of the user's stats.
// An empty user resolves to the caller's linked account.
func (c *APIClient) TrackUpdate(ctx context.Context, platformID, user string, mode domain.GameMode) (*osutrack.UpdateResponse, error) {
	req := handler.TrackUpdateRequest{PlatformID: platformID, User: user, Mode: mode.String()}

	var out osutrack.UpdateResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/osutrack/update", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func modeParams(platformID string, mode domain.GameMode) url.Values {
	params := url.Values{}
	params.Set(handler.ParamPlatformID, platformID)
	if mode != domain.ModeDefault {
		params.Set(handler.ParamMode, mode.String())
	}
	return params
}
