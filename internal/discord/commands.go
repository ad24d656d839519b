package discord

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "osulink_discord_commands_total",
	Help: "Slash commands dispatched, by command name",
}, []string{"command"})

// CommandHandler handles a slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler

	handled     atomic.Int64
	lastHandled atomic.Int64
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// Handle dispatches an interaction to its command handler
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	name := i.ApplicationCommandData().Name
	h, ok := r.Handlers[name]
	if !ok {
		slog.Debug("Ignoring unregistered command", "command", name)
		return
	}

	r.handled.Add(1)
	r.lastHandled.Store(time.Now().UnixNano())
	commandsHandled.WithLabelValues(name).Inc()
	h(s, i, client)
}

// Handled returns how many commands were dispatched and when the last one was
func (r *CommandRegistry) Handled() (int64, time.Time) {
	var last time.Time
	if n := r.lastHandled.Load(); n != 0 {
		last = time.Unix(0, n)
	}
	return r.handled.Load(), last
}

// RegisterCommands pushes the registry to Discord. Unless forceUpdate is set
// the bulk overwrite is skipped when Discord already has the same commands.
func (b *Bot) RegisterCommands(registry *CommandRegistry, forceUpdate bool) error {
	desired := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desired = append(desired, cmd)
	}

	if !forceUpdate {
		existing, err := b.Session.ApplicationCommands(b.AppID, b.GuildID)
		if err != nil {
			return fmt.Errorf("failed to fetch existing commands: %w", err)
		}
		if commandsEqual(existing, desired) {
			slog.Info("Commands unchanged, skipping registration", "count", len(existing))
			return nil
		}
		slog.Info("Commands changed, updating", "existing", len(existing), "desired", len(desired))
	}

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, desired); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}
	slog.Info("Commands updated successfully", "count", len(desired), "guild_id", b.GuildID)
	return nil
}

// commandsEqual compares command sets by their canonical signatures
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}
	return strings.Join(signatures(existing), "\n") == strings.Join(signatures(desired), "\n")
}

func signatures(cmds []*discordgo.ApplicationCommand) []string {
	out := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, commandSignature(cmd))
	}
	sort.Strings(out)
	return out
}

// commandSignature renders the fields Discord lets us change
func commandSignature(cmd *discordgo.ApplicationCommand) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s", cmd.Name, cmd.Description)
	if cmd.DefaultMemberPermissions != nil {
		fmt.Fprintf(&sb, "|perm=%d", *cmd.DefaultMemberPermissions)
	}
	for _, opt := range cmd.Options {
		fmt.Fprintf(&sb, "|%d:%s:%s:%t", opt.Type, opt.Name, opt.Description, opt.Required)
		for _, c := range opt.Choices {
			fmt.Fprintf(&sb, ":%s=%v", c.Name, c.Value)
		}
	}
	return sb.String()
}
