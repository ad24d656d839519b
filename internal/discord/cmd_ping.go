package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// pingProbeTimeout bounds the API liveness check behind /ping
const pingProbeTimeout = 3 * time.Second

// PingCommand reports gateway latency and whether the link API answers
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check the bot and the link server",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingProbeTimeout)
		defer cancel()
		reachable := client.Healthy(ctx)

		embed := createEmbed("🏓 Pong!", "", ColorSuccess, "")
		api := "✅ Reachable"
		if !reachable {
			embed.Color = ColorWarning
			api = "❌ Unreachable"
		}
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Gateway latency", Value: s.HeartbeatLatency().Round(time.Millisecond).String(), Inline: true},
			{Name: "Link server", Value: api, Inline: true},
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
