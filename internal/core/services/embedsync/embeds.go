package embedsync

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Discord embed limits.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFields      = 25
	maxFooter      = 2048
)

const (
	colorLethal    = 0xE74C3C
	colorNonLethal = 0xF1C40F
	colorPending   = 0x95A5A6
	colorEnded     = 0x2C2F33
	colorDefense   = 0x3498DB
	colorAttack    = 0xE67E22
)

const dateLayout = "2006-01-02 15:04 MST"

// FactionName is the display form of a war's enemy faction.
func FactionName(war *domain.War) string {
	name := strings.TrimSpace(war.EnemyFaction)
	if name == "" {
		return "Unknown Faction"
	}
	return cases.Title(language.English).String(name)
}

func warColor(war *domain.War) int {
	switch {
	case war.Status == domain.WarEnded:
		return colorEnded
	case war.Status == domain.WarPending:
		return colorPending
	case war.Level == domain.Lethal:
		return colorLethal
	default:
		return colorNonLethal
	}
}

func warURL(publicURL string, war *domain.War) string {
	if publicURL == "" {
		return ""
	}
	return publicURL + "/wars/" + war.Slug
}

// KillTotals counts enemy kills and home-faction deaths across logs.
func KillTotals(logs []domain.EncounterLog) (kills, deaths int) {
	for _, l := range logs {
		kills += len(l.PlayersKilled)
		deaths += len(l.FriendsKilled)
	}
	return kills, deaths
}

func buildWarEmbed(war *domain.War, logs []domain.EncounterLog, recent int, publicURL string) ports.Embed {
	kills, deaths := KillTotals(logs)

	fields := []ports.EmbedField{
		{Name: "Status", Value: string(war.Status), Inline: true},
		{Name: "Type", Value: string(war.Type), Inline: true},
		{Name: "Level", Value: string(war.Level), Inline: true},
		{Name: "Kills", Value: fmt.Sprint(kills), Inline: true},
		{Name: "Deaths", Value: fmt.Sprint(deaths), Inline: true},
		{Name: "Encounters", Value: fmt.Sprint(len(logs)), Inline: true},
	}
	if regs := regulationsSummary(war.Regulations); regs != "" {
		fields = append(fields, ports.EmbedField{Name: "Regulations", Value: regs})
	}

	if recent > len(logs) {
		recent = len(logs)
	}
	for _, l := range logs[:recent] {
		if len(fields) >= maxFields {
			break
		}
		fields = append(fields, ports.EmbedField{
			Name:  truncate(fmt.Sprintf("%s · %s", l.Type, l.OccurredAt.UTC().Format(dateLayout)), maxFieldName),
			Value: truncate(logSummary(&l), maxFieldValue),
		})
	}

	return ports.Embed{
		Title:       truncate("War vs "+FactionName(war), maxTitle),
		Description: truncate(fmt.Sprintf("Started %s", war.StartedAt.UTC().Format(dateLayout)), maxDescription),
		URL:         warURL(publicURL, war),
		Color:       warColor(war),
		Fields:      fields,
		Footer:      truncate("Faction Hub · "+war.Slug, maxFooter),
		Timestamp:   war.UpdatedAt,
	}
}

func buildLogEmbed(war *domain.War, log *domain.EncounterLog, first bool, publicURL string) ports.Embed {
	title := fmt.Sprintf("%s vs %s", log.Type, FactionName(war))
	if first {
		title = "First encounter! " + title
	}

	color := colorDefense
	if log.Type == domain.LogAttack {
		color = colorAttack
	}

	fields := []ports.EmbedField{
		{Name: "Participants", Value: truncate(nameList(log.Participants), maxFieldValue)},
		{Name: "Friends killed", Value: truncate(nameList(log.FriendsKilled), maxFieldValue), Inline: true},
		{Name: "Enemies killed", Value: truncate(nameList(log.PlayersKilled), maxFieldValue), Inline: true},
	}
	if len(log.EvidenceURLs) > 0 {
		fields = append(fields, ports.EmbedField{Name: "Evidence", Value: truncate(strings.Join(log.EvidenceURLs, "\n"), maxFieldValue)})
	}

	footer := "Submitted by " + log.SubmittedBy
	if log.EditedBy != "" {
		footer += " · edited by " + log.EditedBy
	}

	embed := ports.Embed{
		Title:       truncate(title, maxTitle),
		Description: truncate(PlainText(log.Notes), maxDescription),
		URL:         warURL(publicURL, war),
		Color:       color,
		Fields:      fields,
		Footer:      truncate(footer, maxFooter),
		Timestamp:   log.OccurredAt,
	}
	if len(log.EvidenceURLs) > 0 && looksLikeImage(log.EvidenceURLs[0]) {
		embed.ImageURL = log.EvidenceURLs[0]
	}
	return embed
}

func buildLethalEmbed(war *domain.War, publicURL string) ports.Embed {
	return ports.Embed{
		Title:       truncate("War vs "+FactionName(war)+" is now LETHAL", maxTitle),
		Description: "A kill has been recorded. Lethal rules apply from now on.",
		URL:         warURL(publicURL, war),
		Color:       colorLethal,
		Footer:      truncate("Faction Hub · "+war.Slug, maxFooter),
		Timestamp:   time.Now(),
	}
}

func regulationsSummary(r domain.Regulations) string {
	var parts []string
	if r.CooldownHours > 0 {
		parts = append(parts, fmt.Sprintf("Cooldown: %dh", r.CooldownHours))
	}
	if r.MaxParticipants > 0 {
		parts = append(parts, fmt.Sprintf("Max participants: %d", r.MaxParticipants))
	}
	for _, weapon := range sortedKeys(r.WeaponCaps) {
		parts = append(parts, fmt.Sprintf("%s: %d", weapon, r.WeaponCaps[weapon]))
	}
	return truncate(strings.Join(parts, "\n"), maxFieldValue)
}

func logSummary(l *domain.EncounterLog) string {
	s := fmt.Sprintf("%d involved · %d killed · %d lost", len(l.Participants), len(l.PlayersKilled), len(l.FriendsKilled))
	if notes := PlainText(l.Notes); notes != "" {
		s += "\n" + notes
	}
	return s
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func looksLikeImage(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
