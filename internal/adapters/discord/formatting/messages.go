package formatting

import (
	"fmt"
	"strings"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"github.com/bwmarrin/discordgo"
)

const (
	MsgWarRequired     = "War is required."
	MsgWarNotFound     = "No war matches that name."
	MsgNoActiveWars    = "There are no active wars."
	MsgLookupError     = "Failed to look up the war."
	MsgScoreboardError = "Failed to compute the scoreboard."
	MsgEmptyScoreboard = "No kills have been logged for this war yet."
	MsgGuildOnly       = "This command is only available in the faction server."
)

// scoreboardRows is how many entries per side fit the reply embed.
const scoreboardRows = 10

func MsgActiveWars(wars []domain.War) string {
	var b strings.Builder
	b.WriteString("Active wars:\n")
	for _, w := range wars {
		fmt.Fprintf(&b, "- **%s** (%s, %s) `%s`\n", w.EnemyFaction, w.Type, w.Level, w.Slug)
	}
	return b.String()
}

// Embed converts the transport-neutral embed into discordgo's form.
func Embed(e ports.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.ImageURL != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	if e.ThumbnailURL != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ThumbnailURL}
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}

// ScoreboardEmbed lists the top entries of each side.
func ScoreboardEmbed(war *domain.War, entries []domain.PKEntry, enemyKills, friendDeaths int) *discordgo.MessageEmbed {
	var enemies, friends []string
	for _, e := range entries {
		switch e.Side {
		case domain.SideEnemy:
			if len(enemies) < scoreboardRows {
				enemies = append(enemies, scoreLine(len(enemies)+1, e))
			}
		case domain.SideFriend:
			if len(friends) < scoreboardRows {
				friends = append(friends, scoreLine(len(friends)+1, e))
			}
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "Scoreboard: " + war.EnemyFaction,
		Description: fmt.Sprintf("%d kills, %d losses", enemyKills, friendDeaths),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Enemies killed", Value: orNone(enemies), Inline: true},
			{Name: "Friendly losses", Value: orNone(friends), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: war.Slug},
	}
}

func scoreLine(rank int, e domain.PKEntry) string {
	name := e.Name
	if e.Identity != nil {
		name = fmt.Sprintf("%s <@%s>", e.Name, e.Identity.DiscordID)
	}
	return fmt.Sprintf("%d. %s (%d)", rank, name, e.KillCount)
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}
