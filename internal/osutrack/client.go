package osutrack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/upstream"
)

// Client talks to the public osu!track API. No authentication is needed.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// DateRange bounds history queries. Zero times are omitted.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) apply(q url.Values) {
	if !r.From.IsZero() {
		q.Set(ParamFrom, r.From.Format(DateLayout))
	}
	if !r.To.IsZero() {
		q.Set(ParamTo, r.To.Format(DateLayout))
	}
}

// modeValue is osu!track's numeric ruleset. The default ruleset is osu!.
func modeValue(mode domain.GameMode) string {
	if mode == domain.ModeDefault {
		mode = domain.ModeOsu
	}
	return strconv.Itoa(int(mode))
}

func userQuery(user string, mode domain.GameMode) (url.Values, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyUser)
	}
	return url.Values{ParamUser: {user}, ParamMode: {modeValue(mode)}}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any, okStatuses ...int) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/"+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	return upstream.DoRequestAndParse(ctx, c.HTTP, ServiceName, req, out, okStatuses...)
}

// Update asks osu!track to snapshot the user and returns the difference
// since the previous snapshot.
func (c *Client) Update(ctx context.Context, user string, mode domain.GameMode) (*UpdateResponse, error) {
	q, err := userQuery(user, mode)
	if err != nil {
		return nil, err
	}

	var out UpdateResponse
	if err := c.do(ctx, http.MethodPost, PathUpdate, q, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgUserUpdated,
		"username", out.Username,
		"mode", out.Mode,
		"new_hiscores", len(out.NewHS))
	return &out, nil
}

// StatsHistory lists recorded stat snapshots in the range.
func (c *Client) StatsHistory(ctx context.Context, user string, mode domain.GameMode, r DateRange) ([]StatsUpdate, error) {
	q, err := userQuery(user, mode)
	if err != nil {
		return nil, err
	}
	r.apply(q)

	var out []StatsUpdate
	if err := c.do(ctx, http.MethodGet, PathStatsHistory, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []StatsUpdate{}
	}
	return out, nil
}

// HiScores lists every score osu!track has recorded for the user.
func (c *Client) HiScores(ctx context.Context, user string, mode domain.GameMode, userMode UserMode, r DateRange) ([]RecordedScore, error) {
	q, err := userQuery(user, mode)
	if err != nil {
		return nil, err
	}
	if userMode == "" {
		userMode = UserModeID
	}
	q.Set(ParamUserMode, string(userMode))
	r.apply(q)

	var out []RecordedScore
	if err := c.do(ctx, http.MethodGet, PathHiScores, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []RecordedScore{}
	}
	return out, nil
}

// Peak returns the user's best recorded rank and accuracy, or nil when
// osu!track has nothing for them.
func (c *Client) Peak(ctx context.Context, user string, mode domain.GameMode) (*PeakData, error) {
	q, err := userQuery(user, mode)
	if err != nil {
		return nil, err
	}

	var out []PeakData
	if err := c.do(ctx, http.MethodGet, PathPeak, q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// BestPlays lists the top plays across all users, highest pp first.
// A zero limit leaves the server default.
func (c *Client) BestPlays(ctx context.Context, mode domain.GameMode, r DateRange, limit int) ([]BestPlay, error) {
	q := url.Values{ParamMode: {modeValue(mode)}}
	r.apply(q)
	if limit != 0 {
		if limit < MinBestPlaysLimit || limit > MaxBestPlaysLimit {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgLimitRange)
		}
		q.Set(ParamLimit, strconv.Itoa(limit))
	}

	var out []BestPlay
	if err := c.do(ctx, http.MethodGet, PathBestPlays, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []BestPlay{}
	}
	return out, nil
}
