package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"faction-hub/internal/adapters/discord/formatting"
	"faction-hub/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

// commandTimeout keeps replies inside Discord's interaction deadline.
const commandTimeout = 3 * time.Second

const maxChoices = 25

type BotHandler struct {
	Wars       WarReader
	Scoreboard ScoreboardComputer
	Embeds     WarEmbedder
}

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Faction Hub is online!", "user", ready.User.Username, "guilds", len(ready.Guilds))
}

func (h *BotHandler) WarStatus(s DiscordSession, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.handleWarAutocomplete(s, i)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	ref := getStringOption(i.ApplicationCommandData().Options, "war")
	if ref == "" {
		h.listActiveWars(ctx, s, i)
		return
	}

	war, err := h.Wars.Get(ctx, ref)
	if err != nil {
		h.respondLookupError(s, i, ref, err)
		return
	}

	embed, err := h.Embeds.WarEmbed(ctx, war)
	if err != nil {
		slog.Error("Failed to render war embed", "war_id", war.ID, "error", err)
		respond(s, i, formatting.MsgLookupError, true)
		return
	}

	if err := respondEmbed(s, i, formatting.Embed(embed)); err != nil {
		slog.Error("Failed to send war status", "war_id", war.ID, "error", err)
	}
}

func (h *BotHandler) listActiveWars(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) {
	wars, err := h.Wars.List(ctx, domain.WarActive)
	if err != nil {
		slog.Error("Failed to list active wars", "error", err)
		respond(s, i, formatting.MsgLookupError, true)
		return
	}

	if len(wars) == 0 {
		respond(s, i, formatting.MsgNoActiveWars, false)
		return
	}

	respond(s, i, formatting.MsgActiveWars(wars), false)
}

func (h *BotHandler) WarScoreboard(s DiscordSession, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.handleWarAutocomplete(s, i)
		return
	}

	ref := getStringOption(i.ApplicationCommandData().Options, "war")
	if ref == "" {
		respond(s, i, formatting.MsgWarRequired, true)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	board, err := h.Scoreboard.Compute(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		respond(s, i, formatting.MsgWarNotFound, true)
		return
	}
	if err != nil {
		slog.Error("Failed to compute scoreboard", "war", ref, "error", err)
		respond(s, i, formatting.MsgScoreboardError, true)
		return
	}

	if len(board.Entries) == 0 {
		respond(s, i, formatting.MsgEmptyScoreboard, false)
		return
	}

	embed := formatting.ScoreboardEmbed(board.War, board.Entries, board.EnemyKills, board.FriendDeaths)
	if err := respondEmbed(s, i, embed); err != nil {
		slog.Error("Failed to send scoreboard", "war_id", board.War.ID, "error", err)
	}
}

func (h *BotHandler) respondLookupError(s DiscordSession, i *discordgo.InteractionCreate, ref string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		respond(s, i, formatting.MsgWarNotFound, true)
		return
	}
	slog.Error("Failed to get war", "war", ref, "error", err)
	respond(s, i, formatting.MsgLookupError, true)
}

func (h *BotHandler) handleWarAutocomplete(s DiscordSession, i *discordgo.InteractionCreate) {
	query := getFocusedOption(i.ApplicationCommandData().Options)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	wars, err := h.Wars.List(ctx, "")
	if err != nil {
		slog.Error("Failed to list wars for autocomplete", "error", err)
		return
	}

	if err := respondAutocomplete(s, i, buildWarChoices(wars, query)); err != nil {
		slog.Error("Failed to send autocomplete response", "error", err)
	}
}

// buildWarChoices keeps the input order, which is newest war first.
func buildWarChoices(wars []domain.War, query string) []*discordgo.ApplicationCommandOptionChoice {
	query = strings.ToLower(strings.TrimSpace(query))

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, w := range wars {
		if query != "" &&
			!strings.Contains(strings.ToLower(w.Slug), query) &&
			!strings.Contains(strings.ToLower(w.EnemyFaction), query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", w.EnemyFaction, w.Status),
			Value: w.Slug,
		})
		if len(choices) >= maxChoices {
			break
		}
	}
	return choices
}
