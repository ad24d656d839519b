package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the gateway session and dispatches slash commands to handlers
// that talk to the link server through Client.
type Bot struct {
	Session  *discordgo.Session
	Client   *APIClient
	AppID    string
	GuildID  string
	Registry *CommandRegistry

	connected atomic.Bool
}

// Config holds the bot configuration. GuildID scopes command registration
// to one server, which Discord applies immediately; empty means global.
type Config struct {
	Token   string
	AppID   string
	GuildID string
	APIURL  string
	APIKey  string
}

// New creates a bot without connecting it
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	// slash commands arrive without privileged intents
	s.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		Session:  s,
		Client:   NewAPIClient(cfg.APIURL, cfg.APIKey),
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
		Registry: NewCommandRegistry(),
	}, nil
}

// Connected reports whether the gateway session is currently up
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.resumed)
	b.Session.AddHandler(b.disconnect)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	b.connected.Store(false)
	if err := b.Session.Close(); err != nil {
		slog.Warn("Error closing Discord session", "error", err)
	}
}

// Run connects and blocks until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	<-ctx.Done()
	slog.Info("Discord bot shutting down")
	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	slog.Info("Discord bot ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) resumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	b.connected.Store(true)
	slog.Info("Discord gateway session resumed")
}

func (b *Bot) disconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.connected.Store(false)
	slog.Warn("Discord gateway disconnected")
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.Registry.Handle(s, i, b.Client)
}
