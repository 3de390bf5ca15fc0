package commands

import (
	"log/slog"

	"faction-hub/internal/adapters/discord/formatting"
	"faction-hub/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

type CommandHandler func(s DiscordSession, i *discordgo.InteractionCreate)

type Middleware func(CommandHandler) CommandHandler

type Router struct {
	routes map[string]CommandHandler
}

func NewRouter() *Router {
	slog.Info("Router initialized")
	return &Router{
		routes: make(map[string]CommandHandler),
	}
}

func (r *Router) Register(name string, handler CommandHandler, middleware ...Middleware) {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	r.routes[name] = handler
}

func (r *Router) Handle(s DiscordSession, i *discordgo.InteractionCreate) {
	if !isCommandInteraction(i.Type) {
		return
	}

	name := i.ApplicationCommandData().Name
	slog.Info("Router received interaction", "type", i.Type, "name", name)

	handler, ok := r.routes[name]
	if !ok {
		slog.Warn("No handler found for command", "name", name)
		return
	}

	if i.Type == discordgo.InteractionApplicationCommand {
		metrics.DiscordCommands.WithLabelValues(name).Inc()
	}
	handler(s, i)
}

func (r *Router) HandleFunc() func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.Handle(s, i)
	}
}

func isCommandInteraction(t discordgo.InteractionType) bool {
	return t == discordgo.InteractionApplicationCommand ||
		t == discordgo.InteractionApplicationCommandAutocomplete
}

// WithGuild drops interactions that do not come from guildID. An empty
// guildID allows every guild but still rejects direct messages.
func WithGuild(guildID string) Middleware {
	return func(next CommandHandler) CommandHandler {
		return func(s DiscordSession, i *discordgo.InteractionCreate) {
			if i.GuildID == "" || (guildID != "" && i.GuildID != guildID) {
				if i.Type == discordgo.InteractionApplicationCommand {
					respond(s, i, formatting.MsgGuildOnly, true)
				}
				return
			}
			next(s, i)
		}
	}
}
