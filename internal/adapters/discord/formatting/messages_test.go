package formatting

import (
	"strings"
	"testing"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
)

func TestEmbed(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	out := Embed(ports.Embed{
		Title:     "War vs Ballas",
		URL:       "https://hub.example/wars/ballas",
		Color:     0xE74C3C,
		Fields:    []ports.EmbedField{{Name: "Status", Value: "ACTIVE", Inline: true}},
		ImageURL:  "https://cdn.example/a.png",
		Footer:    "Faction Hub",
		Timestamp: ts,
	})

	if out.Title != "War vs Ballas" || out.Color != 0xE74C3C {
		t.Errorf("unexpected embed %+v", out)
	}
	if len(out.Fields) != 1 || !out.Fields[0].Inline {
		t.Errorf("unexpected fields %+v", out.Fields)
	}
	if out.Image == nil || out.Image.URL != "https://cdn.example/a.png" {
		t.Errorf("expected image, got %+v", out.Image)
	}
	if out.Thumbnail != nil {
		t.Error("expected no thumbnail")
	}
	if out.Footer == nil || out.Footer.Text != "Faction Hub" {
		t.Errorf("unexpected footer %+v", out.Footer)
	}
	if out.Timestamp != "2026-03-01T11:00:00Z" {
		t.Errorf("expected UTC RFC3339 timestamp, got %q", out.Timestamp)
	}
}

func TestEmbed_Empty(t *testing.T) {
	out := Embed(ports.Embed{Title: "x"})
	if out.Image != nil || out.Footer != nil || out.Timestamp != "" {
		t.Errorf("expected optional parts omitted, got %+v", out)
	}
}

func TestScoreboardEmbed(t *testing.T) {
	war := &domain.War{EnemyFaction: "Ballas", Slug: "ballas-20260301"}
	entries := []domain.PKEntry{
		{Name: "jonsmith", Side: domain.SideEnemy, KillCount: 3, Identity: &domain.Identity{DiscordID: "1"}},
		{Name: "Jane Doe", Side: domain.SideFriend, KillCount: 1},
		{Name: "Tommy Vercetti", Side: domain.SideEnemy, KillCount: 1},
	}

	out := ScoreboardEmbed(war, entries, 4, 1)

	if out.Description != "4 kills, 1 losses" {
		t.Errorf("unexpected description %q", out.Description)
	}
	enemies := out.Fields[0].Value
	if !strings.HasPrefix(enemies, "1. jonsmith <@1> (3)") || !strings.Contains(enemies, "2. Tommy Vercetti (1)") {
		t.Errorf("unexpected enemy column %q", enemies)
	}
	if out.Fields[1].Value != "1. Jane Doe (1)" {
		t.Errorf("unexpected friend column %q", out.Fields[1].Value)
	}
}

func TestScoreboardEmbed_Empty(t *testing.T) {
	out := ScoreboardEmbed(&domain.War{}, nil, 0, 0)
	for _, f := range out.Fields {
		if f.Value != "None" {
			t.Errorf("expected None, got %q", f.Value)
		}
	}
}

func TestMsgActiveWars(t *testing.T) {
	msg := MsgActiveWars([]domain.War{{EnemyFaction: "Ballas", Type: domain.WarControlled, Level: domain.Lethal, Slug: "ballas-20260301"}})
	if !strings.Contains(msg, "**Ballas** (CONTROLLED, LETHAL) `ballas-20260301`") {
		t.Errorf("unexpected message %q", msg)
	}
}
