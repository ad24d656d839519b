package oauth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

const stateSeparator = "_"

// BuildState returns the state token for an attempt: <platform_id>_<unix seconds>.
func BuildState(platformID string, issuedAt time.Time) string {
	return platformID + stateSeparator + strconv.FormatInt(issuedAt.Unix(), 10)
}

// StateBelongsTo reports whether state was issued for platformID.
func StateBelongsTo(state, platformID string) bool {
	return platformID != "" && strings.HasPrefix(state, platformID+stateSeparator)
}

// Callback is what the provider appended to the redirect URI.
type Callback struct {
	Code  string
	State string
}

// ParseCallback extracts code and state from a pasted redirect URL. A bare
// query string is accepted too. A missing or empty code is ErrInvalidCallback.
func ParseCallback(raw string) (Callback, error) {
	raw = strings.TrimSpace(raw)

	query := raw
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query = raw[i+1:]
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: %s", domain.ErrInvalidCallback, ErrMsgMalformedCallback)
	}

	cb := Callback{
		Code:  values.Get(QueryParamCode),
		State: values.Get(QueryParamState),
	}
	if cb.Code == "" {
		return cb, domain.ErrInvalidCallback
	}
	return cb, nil
}
