package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name      string
		ephemeral bool
		flags     discordgo.MessageFlags
	}{
		{"public", false, 0},
		{"ephemeral", true, discordgo.MessageFlagsEphemeral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &mockSession{}
			respond(session, makeInteraction("x", discordgo.InteractionApplicationCommand), "hello", tt.ephemeral)

			resp := session.responses[0]
			if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
				t.Errorf("unexpected type %v", resp.Type)
			}
			if resp.Data.Content != "hello" || resp.Data.Flags != tt.flags {
				t.Errorf("unexpected data %+v", resp.Data)
			}
		})
	}
}

func TestRespondEmbed(t *testing.T) {
	session := &mockSession{}
	embed := &discordgo.MessageEmbed{Title: "t"}

	if err := respondEmbed(session, makeInteraction("x", discordgo.InteractionApplicationCommand), embed); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := session.responses[0].Data.Embeds; len(got) != 1 || got[0] != embed {
		t.Errorf("unexpected embeds %+v", got)
	}
}

func TestGetOptions(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "other", Type: discordgo.ApplicationCommandOptionString, Value: "a"},
		{Name: "war", Type: discordgo.ApplicationCommandOptionString, Value: "ballas", Focused: true},
	}

	if got := getStringOption(opts, "war"); got != "ballas" {
		t.Errorf("expected ballas, got %q", got)
	}
	if got := getStringOption(opts, "missing"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := getFocusedOption(opts); got != "ballas" {
		t.Errorf("expected focused ballas, got %q", got)
	}
	if got := getFocusedOption(nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
