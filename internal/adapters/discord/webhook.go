package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"faction-hub/internal/adapters/discord/formatting"
	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"github.com/bwmarrin/discordgo"
)

type WebhookSession interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookMessageEdit(webhookID, token, messageID string, data *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookMessageDelete(webhookID, token, messageID string, options ...discordgo.RequestOption) error
}

// WebhookSynchronizer mirrors embeds through a single channel webhook.
type WebhookSynchronizer struct {
	session WebhookSession
	id      string
	token   string
}

func NewWebhookSynchronizer(session WebhookSession, webhookURL string) (*WebhookSynchronizer, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return &WebhookSynchronizer{session: session, id: id, token: token}, nil
}

// ParseWebhookURL extracts the id and token from
// https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("parse webhook url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", "", fmt.Errorf("webhook url must be http(s), got %q", u.Scheme)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook url %q has no id/token", u.Redacted())
}

func (w *WebhookSynchronizer) Publish(ctx context.Context, embed ports.Embed) (*domain.MessageRef, error) {
	msg, err := w.session.WebhookExecute(w.id, w.token, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{formatting.Embed(embed)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("execute webhook: %w", err)
	}
	if msg == nil {
		return nil, errors.New("execute webhook: no message returned")
	}
	return &domain.MessageRef{MessageID: msg.ID, ChannelID: msg.ChannelID}, nil
}

func (w *WebhookSynchronizer) Edit(ctx context.Context, ref domain.MessageRef, embed ports.Embed) error {
	embeds := []*discordgo.MessageEmbed{formatting.Embed(embed)}
	_, err := w.session.WebhookMessageEdit(w.id, w.token, ref.MessageID, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit webhook message %s: %w", ref.MessageID, err)
	}
	return nil
}

// Delete treats a message that is already gone as deleted.
func (w *WebhookSynchronizer) Delete(ctx context.Context, ref domain.MessageRef) error {
	err := w.session.WebhookMessageDelete(w.id, w.token, ref.MessageID, discordgo.WithContext(ctx))
	if isNotFound(err) {
		slog.Debug("Webhook message already deleted", "message_id", ref.MessageID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete webhook message %s: %w", ref.MessageID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

var _ ports.EmbedSynchronizer = (*WebhookSynchronizer)(nil)
