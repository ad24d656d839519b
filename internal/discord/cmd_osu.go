package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/OsuLink_Go/internal/osuapi"
)

func modeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        OptionMode,
		Description: "Game mode (default: the player's preferred mode)",
		Required:    false,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "osu!", Value: "osu"},
			{Name: "osu!taiko", Value: "taiko"},
			{Name: "osu!catch", Value: "fruits"},
			{Name: "osu!mania", Value: "mania"},
		},
	}
}

// MeCommand shows the caller's own osu! profile
func MeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "me",
		Description: "Show your linked osu! profile",
		Options:     []*discordgo.ApplicationCommandOption{modeOption()},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		mode, err := optionMode(i)
		if err != nil {
			respondError(s, i, MsgInvalidInput)
			return
		}

		ctx, cancel := commandContext()
		defer cancel()
		me, err := client.Me(ctx, getInteractionUser(i).ID, mode)
		if err != nil {
			respondFriendlyError(s, i, "me", err)
			return
		}
		sendEmbed(s, i, profileEmbed(me, nil))
	}

	return cmd, handler
}

// UserCommand looks up any osu! player using the caller's authorization
func UserCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "user",
		Description: "Look up an osu! player",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionUser,
				Description: "Username or numeric id",
				Required:    true,
			},
			modeOption(),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionType,
				Description: "How to read the user (default: digits are an id)",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "id", Value: string(osuapi.LookupID)},
					{Name: "username", Value: string(osuapi.LookupName)},
				},
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		mode, err := optionMode(i)
		if err != nil {
			respondError(s, i, MsgInvalidInput)
			return
		}
		kind, err := osuapi.ParseLookupKind(optionString(i, OptionType))
		if err != nil {
			respondError(s, i, MsgInvalidInput)
			return
		}

		ctx, cancel := commandContext()
		defer cancel()
		view, err := client.User(ctx, getInteractionUser(i).ID, optionString(i, OptionUser), kind, mode)
		if err != nil {
			respondFriendlyError(s, i, "user", err)
			return
		}
		sendEmbed(s, i, profileEmbed(view.User, view.Peak))
	}

	return cmd, handler
}

// UpdateCommand asks osu!track to record the caller's current stats
func UpdateCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "update",
		Description: "Record your stats on osu!track and show what changed",
		Options: []*discordgo.ApplicationCommandOption{
			modeOption(),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionUser,
				Description: "Update another player instead of yourself",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		mode, err := optionMode(i)
		if err != nil {
			respondError(s, i, MsgInvalidInput)
			return
		}

		ctx, cancel := commandContext()
		defer cancel()
		update, err := client.TrackUpdate(ctx, getInteractionUser(i).ID, optionString(i, OptionUser), mode)
		if err != nil {
			respondFriendlyError(s, i, "update", err)
			return
		}
		sendEmbed(s, i, updateEmbed(update))
	}

	return cmd, handler
}

// UsersCommand resolves several osu! ids at once
func UsersCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "users",
		Description: "Look up several osu! players by id",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionIDs,
				Description: fmt.Sprintf("Up to %d numeric ids, separated by spaces or commas", osuapi.MaxUsersPerLookup),
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}
		ids := splitIDs(optionString(i, OptionIDs))
		if len(ids) == 0 || len(ids) > osuapi.MaxUsersPerLookup {
			respondError(s, i, fmt.Sprintf("%s\nGive between 1 and %d ids.", MsgInvalidInput, osuapi.MaxUsersPerLookup))
			return
		}

		ctx, cancel := commandContext()
		defer cancel()
		users, err := client.Users(ctx, getInteractionUser(i).ID, ids)
		if err != nil {
			respondFriendlyError(s, i, "users", err)
			return
		}
		sendEmbed(s, i, usersEmbed(users, len(ids)))
	}

	return cmd, handler
}

func splitIDs(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
