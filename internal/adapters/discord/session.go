package discord

import (
	"log/slog"

	"faction-hub/internal/config"

	"github.com/bwmarrin/discordgo"
)

func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	discord, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	// Listing guild members requires the privileged members intent.
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	return discord, nil
}
