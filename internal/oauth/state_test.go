package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

func TestBuildState(t *testing.T) {
	state := BuildState("123456789", time.Unix(1_700_000_000, 0))
	assert.Equal(t, "123456789_1700000000", state)
	assert.True(t, StateBelongsTo(state, "123456789"))
	assert.False(t, StateBelongsTo(state, "12345678"))
	assert.False(t, StateBelongsTo(state, "999"))
	assert.False(t, StateBelongsTo(state, ""))
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		code    string
		state   string
		wantErr bool
	}{
		{"full url", "http://localhost:8080/oauth/callback?code=abc&state=d1_1", "abc", "d1_1", false},
		{"bare query", "code=abc&state=d1_1", "abc", "d1_1", false},
		{"whitespace and fragment", "  http://x/cb?code=abc#frag ", "abc", "", false},
		{"no code", "http://x/cb?state=d1_1", "", "d1_1", true},
		{"empty code", "http://x/cb?code=&state=d1_1", "", "d1_1", true},
		{"garbage", "not a url at all", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, err := ParseCallback(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidCallback)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, cb.Code)
			assert.Equal(t, tt.state, cb.State)
		})
	}
}
