// Command discord runs the OsuLink Discord bot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/osse101/OsuLink_Go/internal/discord"
	"github.com/osse101/OsuLink_Go/internal/logger"
)

func main() {
	_ = godotenv.Load()

	env, err := loadEnv()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(env.LogLevel, env.LogFormat, "osulink-discord", env.Version, env.Environment, false))

	if env.APIKey == "" {
		slog.Warn("API_KEY not set, the link server will reject bot requests")
	}

	bot, err := discord.New(env.botConfig())
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	health := discord.NewHTTPServer(env.HealthPort, bot)
	health.Start()
	defer health.Stop()

	for _, cmd := range commands() {
		def, handle := cmd()
		bot.Registry.Register(def, handle)
	}
	bot.Registry.Register(discord.HelpCommand(bot.Registry))

	if err := bot.RegisterCommands(bot.Registry, env.ForceCommandUpdate); err != nil {
		// Commands from the last successful registration stay usable
		slog.Error("Failed to register commands", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting Discord bot", "api_url", env.APIURL, "guild_id", env.GuildID)
	if err := bot.Run(ctx); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

func commands() []func() (*discordgo.ApplicationCommand, discord.CommandHandler) {
	return []func() (*discordgo.ApplicationCommand, discord.CommandHandler){
		discord.PingCommand,
		discord.LinkCommand,
		discord.VerifyCommand,
		discord.UnlinkCommand,
		discord.MeCommand,
		discord.UserCommand,
		discord.UsersCommand,
		discord.UpdateCommand,
	}
}
