package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/handler"
	"github.com/osse101/OsuLink_Go/internal/linking"
)

// Option names shared by several commands
const (
	OptionMode   = "mode"
	OptionUser   = "user"
	OptionURL    = "url"
	OptionScopes = "scopes"
	OptionType   = "type"
	OptionIDs    = "ids"
)

// CommandTimeout bounds a single API round trip made on behalf of a command
const CommandTimeout = 30 * time.Second

// Overridden in tests.
var (
	LinkWaitTimeout  = 300 * time.Second
	LinkPollInterval = 5 * time.Second
)

var errLinkAbandoned = errors.New("authorization attempt closed without a link")

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), CommandTimeout)
}

// LinkCommand starts the OAuth2 handshake and waits for the browser redirect
func LinkCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "link",
		Description: "Link your osu! account",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionScopes,
				Description: "Space separated osu! scopes (default: public identify friends.read)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}
		user := getInteractionUser(i)
		scopes := domain.ParseScopes(strings.ReplaceAll(optionString(i, OptionScopes), ",", " "))

		ctx, cancel := commandContext()
		begin, err := client.BeginLink(ctx, user.ID, scopes)
		cancel()
		if err != nil {
			respondFriendlyError(s, i, "link", err)
			return
		}
		sendEmbed(s, i, linkStartedEmbed(begin))

		deadline := time.Now().Add(LinkWaitTimeout)
		if !begin.ExpiresAt.IsZero() && begin.ExpiresAt.Before(deadline) {
			deadline = begin.ExpiresAt
		}
		waitCtx, waitCancel := context.WithDeadline(context.Background(), deadline)
		defer waitCancel()

		status, err := waitForLink(waitCtx, client, user.ID, begin.State, LinkPollInterval)
		if err != nil {
			slog.Info("Link wait ended without a link", "platform_id", user.ID, "reason", err)
			sendEmbed(s, i, createEmbed("⏰ Link Not Completed", MsgLinkExpired, ColorWarning, ""))
			return
		}
		sendEmbed(s, i, createEmbed("✅ Accounts Linked!",
			fmt.Sprintf("Your Discord account is now linked to osu! user **%s**.", status.ExternalAccountID),
			ColorSuccess, ""))
	}

	return cmd, handler
}

func linkStartedEmbed(begin *handler.BeginLinkResponse) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**1.** [Authorize OsuLink on osu!](%s)\n"+
		"**2.** Approve the request. This message updates once you are linked.\n"+
		"**3.** If nothing happens, copy the address your browser ended on and run `/verify url:<address>`.\n\n"+
		"Requested scopes: `%s`\n"+
		"⏰ Expires <t:%d:R>",
		begin.AuthorizationURL, domain.JoinScopes(begin.Scopes, " "), begin.ExpiresAt.Unix())
	return createEmbed("🔗 Link Started", desc, ColorPending, "Only you can see this message")
}

// waitForLink polls link status until the user is linked, the attempt is
// gone or superseded, or ctx ends. Lookup failures are retried on the next tick.
func waitForLink(ctx context.Context, client *APIClient, platformID, state string, interval time.Duration) (*linking.LinkStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		status, err := client.LinkStatus(ctx, platformID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Link status poll failed", "platform_id", platformID, "error", err)
			continue
		}
		if status.Linked {
			return status, nil
		}
		if status.Pending == nil || status.Pending.State != state {
			return nil, errLinkAbandoned
		}
	}
}

// VerifyCommand completes a link from a pasted redirect URL
func VerifyCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "verify",
		Description: "Finish linking by pasting the address osu! redirected you to",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionURL,
				Description: "The full address from your browser after approving access",
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}
		user := getInteractionUser(i)

		ctx, cancel := commandContext()
		defer cancel()
		result, err := client.CompleteLink(ctx, user.ID, optionString(i, OptionURL))
		if err != nil {
			if IsStatus(err, http.StatusBadRequest) {
				respondError(s, i, MsgBadCallback)
				return
			}
			respondFriendlyError(s, i, "verify", err)
			return
		}

		name := result.Username
		if name == "" {
			name = result.ExternalAccountID
		}
		sendEmbed(s, i, createEmbed("✅ Accounts Linked!",
			fmt.Sprintf("Linked to osu! user **%s**.\nGranted: `%s`", name, domain.JoinScopes(result.Scopes, " ")),
			ColorSuccess, ""))
	}

	return cmd, handler
}

// UnlinkCommand removes the caller's link and stored token
func UnlinkCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "unlink",
		Description: "Unlink your osu! account",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}
		user := getInteractionUser(i)

		ctx, cancel := commandContext()
		defer cancel()
		external, err := client.Unlink(ctx, user.ID)
		if err != nil {
			respondFriendlyError(s, i, "unlink", err)
			return
		}

		sendEmbed(s, i, createEmbed("✅ Account Unlinked",
			fmt.Sprintf("osu! user **%s** is no longer linked and its authorization was discarded.", external),
			ColorSuccess, ""))
	}

	return cmd, handler
}
