package osuapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/logger"
	"github.com/osse101/OsuLink_Go/internal/upstream"
)

// Client calls the osu! API v2 with a user's bearer token. Callers are
// responsible for gating scopes before calling.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	cache   *userCache
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
		cache:   newUserCache(DefaultUserCacheSize, DefaultUserCacheTTL),
	}
}

func (c *Client) newRequest(ctx context.Context, token *domain.TokenRecord, path string, query url.Values) (*http.Request, error) {
	u := c.BaseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = domain.DefaultTokenType
	}
	req.Header.Set("Authorization", tokenType+" "+token.AccessToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// withMode appends "/<mode>" unless mode is ModeDefault.
func withMode(path string, mode domain.GameMode) string {
	if name := mode.String(); name != "" {
		return path + "/" + name
	}
	return path
}

// normalizeUser applies the lookup kind. A name lookup always carries the
// "@" prefix so digits-only usernames are not read as ids.
func normalizeUser(user string, kind LookupKind) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyUser)
	}
	switch kind {
	case LookupID:
		if !isDigits(user) {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNotAnID)
		}
		return user, nil
	case LookupName:
		if strings.HasPrefix(user, UsernamePrefix) {
			return user, nil
		}
		return UsernamePrefix + user, nil
	}
	if strings.HasPrefix(user, UsernamePrefix) || isDigits(user) {
		return user, nil
	}
	return UsernamePrefix + user, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// User fetches a public profile by id or username. Results are cached briefly.
func (c *Client) User(ctx context.Context, token *domain.TokenRecord, user string, kind LookupKind, mode domain.GameMode) (*UserExtended, error) {
	user, err := normalizeUser(user, kind)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.cache.Get(user, mode); ok {
		return cached, nil
	}

	req, err := c.newRequest(ctx, token, withMode(PathUsers+"/"+url.PathEscape(user), mode), nil)
	if err != nil {
		return nil, err
	}

	var out UserExtended
	if err := upstream.DoRequestAndParse(ctx, c.HTTP, ServiceName, req, &out); err != nil {
		return nil, err
	}
	c.cache.Set(user, mode, &out)
	return &out, nil
}

// Me fetches the token owner's profile. Requires the identify scope.
func (c *Client) Me(ctx context.Context, token *domain.TokenRecord, mode domain.GameMode) (*UserExtended, error) {
	req, err := c.newRequest(ctx, token, withMode(PathMe, mode), nil)
	if err != nil {
		return nil, err
	}

	var out UserExtended
	if err := upstream.DoRequestAndParse(ctx, c.HTTP, ServiceName, req, &out); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Fetched own profile", "osu_user_id", Value(out.ID))
	return &out, nil
}

// Users looks up between 1 and 50 users by id in one request.
func (c *Client) Users(ctx context.Context, token *domain.TokenRecord, ids []string) ([]UserExtended, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoUserIDs)
	}
	if len(ids) > MaxUsersPerLookup {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTooManyUsers)
	}

	query := url.Values{"ids[]": ids}
	req, err := c.newRequest(ctx, token, PathUsers, query)
	if err != nil {
		return nil, err
	}

	var out usersResponse
	if err := upstream.DoRequestAndParse(ctx, c.HTTP, ServiceName, req, &out); err != nil {
		return nil, err
	}
	if out.Users == nil {
		out.Users = []UserExtended{}
	}
	return out.Users, nil
}

// Friends lists the token owner's friends. Requires friends.read.
func (c *Client) Friends(ctx context.Context, token *domain.TokenRecord) ([]UserExtended, error) {
	req, err := c.newRequest(ctx, token, PathFriends, nil)
	if err != nil {
		return nil, err
	}

	var out []UserExtended
	if err := upstream.DoRequestAndParse(ctx, c.HTTP, ServiceName, req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []UserExtended{}
	}
	return out, nil
}
