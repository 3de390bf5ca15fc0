package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"github.com/bwmarrin/discordgo"
)

type mockWebhookSession struct {
	executeFunc func(id, token string, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error)
	editFunc    func(id, token, messageID string, data *discordgo.WebhookEdit) (*discordgo.Message, error)
	deleteFunc  func(id, token, messageID string) error
}

func (m *mockWebhookSession) WebhookExecute(id, token string, wait bool, data *discordgo.WebhookParams, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.executeFunc != nil {
		return m.executeFunc(id, token, wait, data)
	}
	return &discordgo.Message{ID: "m1", ChannelID: "c1"}, nil
}

func (m *mockWebhookSession) WebhookMessageEdit(id, token, messageID string, data *discordgo.WebhookEdit, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.editFunc != nil {
		return m.editFunc(id, token, messageID, data)
	}
	return &discordgo.Message{ID: messageID}, nil
}

func (m *mockWebhookSession) WebhookMessageDelete(id, token, messageID string, opts ...discordgo.RequestOption) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(id, token, messageID)
	}
	return nil
}

const testWebhookURL = "https://discord.com/api/webhooks/123/tok-en"

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		id      string
		token   string
		wantErr bool
	}{
		{"standard", testWebhookURL, "123", "tok-en", false},
		{"versioned api", "https://discord.com/api/v10/webhooks/9/abc/", "9", "abc", false},
		{"missing token", "https://discord.com/api/webhooks/123", "", "", true},
		{"wrong scheme", "ftp://discord.com/api/webhooks/1/a", "", "", true},
		{"garbage", "::", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if id != tt.id || token != tt.token {
				t.Errorf("expected %s/%s, got %s/%s", tt.id, tt.token, id, token)
			}
		})
	}
}

func TestWebhookSynchronizer_Publish(t *testing.T) {
	var got *discordgo.WebhookParams
	session := &mockWebhookSession{
		executeFunc: func(id, token string, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error) {
			if id != "123" || token != "tok-en" || !wait {
				t.Errorf("unexpected call %s/%s wait=%v", id, token, wait)
			}
			got = data
			return &discordgo.Message{ID: "m1", ChannelID: "c1"}, nil
		},
	}

	sync, err := NewWebhookSynchronizer(session, testWebhookURL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ref, err := sync.Publish(context.Background(), ports.Embed{Title: "War vs Ballas"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ref.MessageID != "m1" || ref.ChannelID != "c1" {
		t.Errorf("unexpected ref %+v", ref)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Title != "War vs Ballas" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestWebhookSynchronizer_PublishError(t *testing.T) {
	session := &mockWebhookSession{
		executeFunc: func(id, token string, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error) {
			return nil, errors.New("rate limited")
		},
	}
	sync, _ := NewWebhookSynchronizer(session, testWebhookURL)

	if _, err := sync.Publish(context.Background(), ports.Embed{}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestWebhookSynchronizer_Edit(t *testing.T) {
	session := &mockWebhookSession{
		editFunc: func(id, token, messageID string, data *discordgo.WebhookEdit) (*discordgo.Message, error) {
			if messageID != "m1" {
				t.Errorf("expected m1, got %s", messageID)
			}
			if data.Embeds == nil || len(*data.Embeds) != 1 || (*data.Embeds)[0].Title != "updated" {
				t.Errorf("unexpected payload %+v", data)
			}
			return &discordgo.Message{ID: messageID}, nil
		},
	}
	sync, _ := NewWebhookSynchronizer(session, testWebhookURL)

	if err := sync.Edit(context.Background(), domain.MessageRef{MessageID: "m1"}, ports.Embed{Title: "updated"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestWebhookSynchronizer_Delete(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"deleted", nil, false},
		{"already gone", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}, false},
		{"server error", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusInternalServerError}}, true},
		{"network", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &mockWebhookSession{
				deleteFunc: func(id, token, messageID string) error { return tt.err },
			}
			sync, _ := NewWebhookSynchronizer(session, testWebhookURL)

			err := sync.Delete(context.Background(), domain.MessageRef{MessageID: "m1"})
			if (err != nil) != tt.wantErr {
				t.Errorf("unexpected error state: %v", err)
			}
		})
	}
}
