package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/handler"
)

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"not linked", &APIError{Status: http.StatusNotFound}, MsgNotLinked},
		{"already linked", &APIError{Status: http.StatusConflict, Message: handler.ErrMsgAlreadyLinkedError}, MsgAlreadyLinked},
		{"link conflict", &APIError{Status: http.StatusConflict, Message: handler.ErrMsgLinkConflictError}, MsgLinkConflict},
		{"token expired", &APIError{Status: http.StatusUnauthorized}, MsgTokenExpired},
		{"expired attempt", &APIError{Status: http.StatusGone}, MsgLinkExpired},
		{"oauth disabled", &APIError{Status: http.StatusServiceUnavailable}, MsgOAuthDisabled},
		{"osu down", &APIError{Status: http.StatusBadGateway, UpstreamStatus: http.StatusInternalServerError}, MsgOsuUnavailable},
		{"osu user missing", &APIError{Status: http.StatusBadGateway, UpstreamStatus: http.StatusNotFound}, MsgOsuNotFound},
		{"unexpected status", &APIError{Status: http.StatusTeapot}, MsgGenericError},
		{"transport failure", errors.New("dial tcp: connection refused"), MsgAPIDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFriendlyError(tt.err))
		})
	}
}

func TestFormatFriendlyError_Details(t *testing.T) {
	t.Run("lists missing scopes", func(t *testing.T) {
		msg := formatFriendlyError(&APIError{
			Status:  http.StatusForbidden,
			Missing: []domain.Scope{domain.ScopeFriendsRead, domain.ScopeChatWrite},
		})
		assert.Contains(t, msg, MsgMissingScopes)
		assert.Contains(t, msg, "friends.read, chat.write")
	})

	t.Run("shows validation message", func(t *testing.T) {
		msg := formatFriendlyError(&APIError{Status: http.StatusBadRequest, Message: "mode is invalid"})
		assert.Contains(t, msg, MsgInvalidInput)
		assert.Contains(t, msg, "mode is invalid")
	})

	t.Run("wrapped api errors are recognised", func(t *testing.T) {
		err := errors.Join(errors.New("context"), &APIError{Status: http.StatusNotFound})
		assert.Equal(t, MsgNotLinked, formatFriendlyError(err))
	})
}

func TestGetInteractionUser(t *testing.T) {
	guild := newInteraction("me", "1", nil)
	assert.Equal(t, "1", getInteractionUser(guild).ID)

	dm := newInteraction("me", "1", nil)
	dm.Member = nil
	dm.User = &discordgo.User{ID: "2"}
	assert.Equal(t, "2", getInteractionUser(dm).ID)
}

func TestOptionMode(t *testing.T) {
	mode, err := optionMode(newInteraction("me", "1", map[string]string{OptionMode: "fruits"}))
	assert.NoError(t, err)
	assert.Equal(t, domain.ModeFruits, mode)

	mode, err = optionMode(newInteraction("me", "1", nil))
	assert.NoError(t, err)
	assert.Equal(t, domain.ModeDefault, mode)

	_, err = optionMode(newInteraction("me", "1", map[string]string{OptionMode: "piano"}))
	assert.Error(t, err)
}
