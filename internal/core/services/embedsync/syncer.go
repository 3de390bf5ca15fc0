package embedsync

import (
	"context"
	"log/slog"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/metrics"
)

const syncTimeout = 10 * time.Second

type Dependencies struct {
	Embeds     ports.EmbedSynchronizer
	Store      ports.Store
	RecentLogs int
	PublicURL  string
}

// Syncer mirrors wars and logs into chat. No method returns an error: a
// failed sync is logged and the caller carries on.
type Syncer struct {
	embeds     ports.EmbedSynchronizer
	store      ports.Store
	recentLogs int
	publicURL  string
}

func NewSyncer(deps Dependencies) *Syncer {
	embeds := deps.Embeds
	if embeds == nil {
		embeds = ports.NoopSynchronizer{}
	}
	return &Syncer{
		embeds:     embeds,
		store:      deps.Store,
		recentLogs: deps.RecentLogs,
		publicURL:  deps.PublicURL,
	}
}

// PublishWar posts the war scoreboard message and records its reference on
// the war.
func (s *Syncer) PublishWar(ctx context.Context, war *domain.War) {
	embed, err := s.WarEmbed(ctx, war)
	if err != nil {
		slog.Error("Failed to build war embed", "war_id", war.ID, "error", err)
		return
	}

	ref, ok := s.publish(ctx, "publish_war", embed)
	if !ok || ref == nil {
		return
	}

	if err := s.store.SetWarMessage(ctx, war.ID, ref); err != nil {
		slog.Error("Failed to save war message reference", "war_id", war.ID, "message_id", ref.MessageID, "error", err)
		return
	}
	war.Message = ref
}

// RefreshWar re-renders the war message with current totals. Wars without
// a message are left alone.
func (s *Syncer) RefreshWar(ctx context.Context, war *domain.War) {
	if war.Message == nil || war.Ended() {
		return
	}

	embed, err := s.WarEmbed(ctx, war)
	if err != nil {
		slog.Error("Failed to build war embed", "war_id", war.ID, "error", err)
		return
	}

	s.edit(ctx, "refresh_war", *war.Message, embed)
}

func (s *Syncer) DeleteWar(ctx context.Context, ref domain.MessageRef) {
	s.delete(ctx, "delete_war", ref)
}

// PublishLog posts a message for a new log and records its reference.
func (s *Syncer) PublishLog(ctx context.Context, war *domain.War, log *domain.EncounterLog, first bool) {
	ref, ok := s.publish(ctx, "publish_log", s.logEmbed(war, log, first))
	if !ok || ref == nil {
		return
	}

	if err := s.store.SetLogMessage(ctx, log.ID, ref); err != nil {
		slog.Error("Failed to save log message reference", "log_id", log.ID, "message_id", ref.MessageID, "error", err)
		return
	}
	log.Message = ref
}

func (s *Syncer) EditLog(ctx context.Context, war *domain.War, log *domain.EncounterLog) {
	if log.Message == nil {
		return
	}
	s.edit(ctx, "edit_log", *log.Message, s.logEmbed(war, log, false))
}

func (s *Syncer) DeleteLog(ctx context.Context, ref domain.MessageRef) {
	s.delete(ctx, "delete_log", ref)
}

// AnnounceLethal posts a one-off notice that the war turned lethal. The
// message is not tracked.
func (s *Syncer) AnnounceLethal(ctx context.Context, war *domain.War) {
	s.publish(ctx, "announce_lethal", s.lethalEmbed(war))
}

func (s *Syncer) publish(ctx context.Context, op string, embed ports.Embed) (*domain.MessageRef, bool) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	ref, err := s.embeds.Publish(ctx, embed)
	if err != nil {
		slog.Warn("Failed to publish embed", "op", op, "error", err)
		metrics.EmbedSync.WithLabelValues(op, "failure").Inc()
		return nil, false
	}

	metrics.EmbedSync.WithLabelValues(op, "success").Inc()
	return ref, true
}

func (s *Syncer) edit(ctx context.Context, op string, ref domain.MessageRef, embed ports.Embed) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	if err := s.embeds.Edit(ctx, ref, embed); err != nil {
		slog.Warn("Failed to edit embed", "op", op, "message_id", ref.MessageID, "error", err)
		metrics.EmbedSync.WithLabelValues(op, "failure").Inc()
		return
	}
	metrics.EmbedSync.WithLabelValues(op, "success").Inc()
}

func (s *Syncer) delete(ctx context.Context, op string, ref domain.MessageRef) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	if err := s.embeds.Delete(ctx, ref); err != nil {
		slog.Warn("Failed to delete embed", "op", op, "message_id", ref.MessageID, "error", err)
		metrics.EmbedSync.WithLabelValues(op, "failure").Inc()
		return
	}
	metrics.EmbedSync.WithLabelValues(op, "success").Inc()
}

// WarEmbed renders the current state of war with its recent logs.
func (s *Syncer) WarEmbed(ctx context.Context, war *domain.War) (ports.Embed, error) {
	logs, err := s.store.ListLogs(ctx, war.ID, 0)
	if err != nil {
		return ports.Embed{}, err
	}
	return buildWarEmbed(war, logs, s.recentLogs, s.publicURL), nil
}

func (s *Syncer) logEmbed(war *domain.War, log *domain.EncounterLog, first bool) ports.Embed {
	return buildLogEmbed(war, log, first, s.publicURL)
}

func (s *Syncer) lethalEmbed(war *domain.War) ports.Embed {
	return buildLethalEmbed(war, s.publicURL)
}
