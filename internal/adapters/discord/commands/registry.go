package commands

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandWarStatus     = "war-status"
	CommandWarScoreboard = "war-scoreboard"
)

func GetApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandWarStatus,
			Description: "Show a war, or list the active wars",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("war", "War slug or enemy faction", false, true),
			},
		},
		{
			Name:        CommandWarScoreboard,
			Description: "Show the kill scoreboard of a war",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("war", "War slug or enemy faction", true, true),
			},
		},
	}
}

func stringOption(name, description string, required, autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         name,
		Description:  description,
		Required:     required,
		Autocomplete: autocomplete,
	}
}

func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) []*discordgo.ApplicationCommand {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		result, err := session.ApplicationCommandCreate(userID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered[i] = result
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(userID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
		}
	}
}
