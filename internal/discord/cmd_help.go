package discord

import (
	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists every command in the registry, itself included
func HelpCommand(registry *CommandRegistry) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "List the bot's commands",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, _ *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}
		sendEmbed(s, i, helpEmbed(registry.Commands))
	}

	return cmd, handler
}
