package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/handler"
)

// respondError replaces the deferred response with a plain message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}

// respondFriendlyError logs err and shows the user what they can do about it
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, command string, err error) {
	slog.Error("Command failed", "command", command, "error", err)
	respondError(s, i, formatFriendlyError(err))
}

// formatFriendlyError turns API failures into something a chat user can act on
func formatFriendlyError(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgAPIDown
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return MsgNotLinked
	case http.StatusConflict:
		if apiErr.Message == handler.ErrMsgLinkConflictError {
			return MsgLinkConflict
		}
		return MsgAlreadyLinked
	case http.StatusUnauthorized:
		return MsgTokenExpired
	case http.StatusForbidden:
		if len(apiErr.Missing) > 0 {
			return fmt.Sprintf("%s **%s**", MsgMissingScopes, domain.JoinScopes(apiErr.Missing, ", "))
		}
		return MsgMissingScopes
	case http.StatusGone:
		return MsgLinkExpired
	case http.StatusBadRequest:
		return fmt.Sprintf("%s\n%s", MsgInvalidInput, apiErr.Message)
	case http.StatusServiceUnavailable:
		return MsgOAuthDisabled
	case http.StatusBadGateway:
		if apiErr.UpstreamStatus == http.StatusNotFound {
			return MsgOsuNotFound
		}
		return MsgOsuUnavailable
	default:
		return MsgGenericError
	}
}

// deferResponse acknowledges an interaction with a deferred message.
// Returns false if deferral failed.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	return respondDeferred(s, i, 0)
}

// deferEphemeral is deferResponse for replies only the caller should see
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	return respondDeferred(s, i, discordgo.MessageFlagsEphemeral)
}

func respondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, flags discordgo.MessageFlags) bool {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if flags != 0 {
		resp.Data = &discordgo.InteractionResponseData{Flags: flags}
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error("Failed to send deferred response", "error", err)
		return false
	}
	return true
}

// getInteractionUser handles both guild and DM interactions
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// optionString returns a named string option or ""
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// optionMode parses the optional mode option
func optionMode(i *discordgo.InteractionCreate) (domain.GameMode, error) {
	return domain.ParseGameMode(optionString(i, OptionMode))
}

// sendEmbed sends an embed into the deferred response
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("Failed to send response", "error", err)
	}
}

// createEmbed creates a standard embed; an empty footer uses FooterOsuLink
func createEmbed(title, description string, color int, footerText string) *discordgo.MessageEmbed {
	if footerText == "" {
		footerText = FooterOsuLink
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}
