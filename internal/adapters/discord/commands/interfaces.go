package commands

import (
	"context"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/scoreboard"

	"github.com/bwmarrin/discordgo"
)

type DiscordSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type CommandSession interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

type WarReader interface {
	Get(ctx context.Context, ref string) (*domain.War, error)
	List(ctx context.Context, status domain.WarStatus) ([]domain.War, error)
}

type ScoreboardComputer interface {
	Compute(ctx context.Context, warRef string) (*scoreboard.Board, error)
}

type WarEmbedder interface {
	WarEmbed(ctx context.Context, war *domain.War) (ports.Embed, error)
}
