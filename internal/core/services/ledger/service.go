package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"faction-hub/internal/config"
	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/embedsync"
	"faction-hub/internal/core/services/wars"
	"faction-hub/internal/metrics"

	"github.com/google/uuid"
)

type Dependencies struct {
	Config     *config.Config
	Repository ports.Repository
	Wars       *wars.Service
	Embeds     *embedsync.Syncer
	Clock      func() time.Time
}

type Service struct {
	repo   ports.Repository
	wars   *wars.Service
	embeds *embedsync.Syncer
	policy EditPolicy
	now    func() time.Time
}

func NewService(deps Dependencies) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	embeds := deps.Embeds
	if embeds == nil {
		embeds = embedsync.NewSyncer(embedsync.Dependencies{Store: deps.Repository})
	}
	return &Service{
		repo:   deps.Repository,
		wars:   deps.Wars,
		embeds: embeds,
		policy: EditPolicy{AllowOwner: deps.Config.AllowOwnerEdits, Window: deps.Config.OwnerEditWindow},
		now:    clock,
	}
}

type AppendResult struct {
	Log                     *domain.EncounterLog `json:"log"`
	War                     *domain.War          `json:"war"`
	FirstLog                bool                 `json:"firstLog"`
	WarLevelChangedToLethal bool                 `json:"warLevelChangedToLethal"`
}

// ChangeResult is returned by Edit and Delete. For Delete, Log is the row
// as it was before removal.
type ChangeResult struct {
	Log          *domain.EncounterLog `json:"log"`
	War          *domain.War          `json:"war"`
	LevelChanged bool                 `json:"levelChanged"`
}

// Patch holds a partial log edit; nil fields are left unchanged.
type Patch struct {
	Type          *domain.LogType
	OccurredAt    *time.Time
	Participants  *[]string
	FriendsKilled *[]string
	PlayersKilled *[]string
	Notes         *string
	EvidenceURLs  *[]string
}

func (p Patch) empty() bool {
	return p.Type == nil && p.OccurredAt == nil && p.Participants == nil && p.FriendsKilled == nil &&
		p.PlayersKilled == nil && p.Notes == nil && p.EvidenceURLs == nil
}

func (s *Service) Append(ctx context.Context, warRef string, entry Entry, actor domain.Actor) (*AppendResult, error) {
	if !actor.Role.Member() {
		return nil, &domain.ForbiddenError{Action: "submit encounter logs", Role: actor.Role}
	}

	war, err := s.wars.Get(ctx, warRef)
	if err != nil {
		return nil, err
	}
	if err := requireActive(war); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry = entry.normalized()
	if err := validateEntry(entry, war, now); err != nil {
		return nil, err
	}

	log := &domain.EncounterLog{
		ID:            uuid.NewString(),
		WarID:         war.ID,
		Type:          entry.Type,
		OccurredAt:    entry.OccurredAt,
		Participants:  entry.Participants,
		FriendsKilled: entry.FriendsKilled,
		PlayersKilled: entry.PlayersKilled,
		Notes:         entry.Notes,
		EvidenceURLs:  entry.EvidenceURLs,
		SubmittedBy:   actor.DiscordID,
		CreatedAt:     now,
	}

	result := &AppendResult{Log: log}
	var upgraded bool
	err = s.repo.WithinTx(ctx, func(tx ports.Store) error {
		current, err := tx.GetWarForUpdate(ctx, war.ID)
		if err != nil {
			return fmt.Errorf("reload war: %w", err)
		}
		if err := requireActive(current); err != nil {
			return err
		}

		count, err := tx.CountLogs(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("count logs: %w", err)
		}
		hadKills, err := tx.WarHasKills(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("check war kills: %w", err)
		}

		if err := tx.CreateLog(ctx, log); err != nil {
			return fmt.Errorf("create log: %w", err)
		}

		changed, err := s.wars.RecomputeLethality(ctx, tx, current, false)
		if err != nil {
			return err
		}

		result.War = current
		result.FirstLog = count == 0
		// The first kill of the war, even when the level was already forced.
		result.WarLevelChangedToLethal = !hadKills && log.HasKills()
		upgraded = changed && current.Level == domain.Lethal
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EncounterLogs.WithLabelValues("append").Inc()
	slog.Info("Encounter log appended", "war_id", war.ID, "log_id", log.ID, "submitted_by", actor.DiscordID, "first", result.FirstLog)

	s.embeds.PublishLog(ctx, result.War, log, result.FirstLog)
	if upgraded {
		s.embeds.AnnounceLethal(ctx, result.War)
	}
	s.embeds.RefreshWar(ctx, result.War)

	return result, nil
}

func (s *Service) Edit(ctx context.Context, id string, patch Patch, actor domain.Actor) (*ChangeResult, error) {
	if patch.empty() {
		return nil, domain.NewValidationError([]domain.FieldProblem{{Field: "patch", Message: "no changes supplied"}})
	}

	existing, war, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !s.policy.CanEdit(actor, existing, war, now) {
		return nil, &domain.ForbiddenError{Action: "edit encounter logs", Role: actor.Role}
	}
	if war.Ended() {
		return nil, &domain.ConflictError{Reason: "war has ended", War: war}
	}

	entry := applyPatch(entryOf(existing), patch).normalized()
	if err := validateEntry(entry, war, now); err != nil {
		return nil, err
	}

	result := &ChangeResult{}
	err = s.repo.WithinTx(ctx, func(tx ports.Store) error {
		log, current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Ended() {
			return &domain.ConflictError{Reason: "war has ended", War: current}
		}

		log.Type = entry.Type
		log.OccurredAt = entry.OccurredAt
		log.Participants = entry.Participants
		log.FriendsKilled = entry.FriendsKilled
		log.PlayersKilled = entry.PlayersKilled
		log.Notes = entry.Notes
		log.EvidenceURLs = entry.EvidenceURLs
		log.EditedBy = actor.DiscordID
		log.EditedAt = &now

		if err := tx.UpdateLog(ctx, log); err != nil {
			return fmt.Errorf("update log: %w", err)
		}

		changed, err := s.wars.RecomputeLethality(ctx, tx, current, true)
		if err != nil {
			return err
		}

		result.Log = log
		result.War = current
		result.LevelChanged = changed
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EncounterLogs.WithLabelValues("edit").Inc()
	slog.Info("Encounter log edited", "war_id", result.War.ID, "log_id", id, "edited_by", actor.DiscordID)

	s.embeds.EditLog(ctx, result.War, result.Log)
	if result.LevelChanged && result.War.Level == domain.Lethal {
		s.embeds.AnnounceLethal(ctx, result.War)
	}
	s.embeds.RefreshWar(ctx, result.War)

	return result, nil
}

// Delete removes a log. The message reference is captured inside the same
// unit of work as the delete and the lethality recompute.
func (s *Service) Delete(ctx context.Context, id string, actor domain.Actor) (*ChangeResult, error) {
	if !CanDelete(actor) {
		return nil, &domain.ForbiddenError{Action: "delete encounter logs", Role: actor.Role}
	}

	result := &ChangeResult{}
	err := s.repo.WithinTx(ctx, func(tx ports.Store) error {
		log, war, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if war.Ended() {
			return &domain.ConflictError{Reason: "war has ended", War: war}
		}

		if err := tx.DeleteLog(ctx, log.ID); err != nil {
			return fmt.Errorf("delete log: %w", err)
		}

		changed, err := s.wars.RecomputeLethality(ctx, tx, war, true)
		if err != nil {
			return err
		}

		result.Log = log
		result.War = war
		result.LevelChanged = changed
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EncounterLogs.WithLabelValues("delete").Inc()
	slog.Info("Encounter log deleted", "war_id", result.War.ID, "log_id", id, "deleted_by", actor.DiscordID)

	if result.Log.Message != nil {
		s.embeds.DeleteLog(ctx, *result.Log.Message)
	}
	s.embeds.RefreshWar(ctx, result.War)

	return result, nil
}

// HasAnyKills is the probe behind the "set to non-lethal" action. It runs
// the same store query as the check in wars.Service.Update.
func (s *Service) HasAnyKills(ctx context.Context, warRef string) (bool, error) {
	war, err := s.wars.Get(ctx, warRef)
	if err != nil {
		return false, err
	}
	has, err := s.repo.WarHasKills(ctx, war.ID)
	if err != nil {
		return false, fmt.Errorf("check war kills: %w", err)
	}
	return has, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.EncounterLog, error) {
	return getLog(ctx, s.repo, id)
}

// List returns every log of a war, newest first.
func (s *Service) List(ctx context.Context, warRef string) ([]domain.EncounterLog, error) {
	war, err := s.wars.Get(ctx, warRef)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.ListLogs(ctx, war.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

func (s *Service) load(ctx context.Context, store ports.Store, id string) (*domain.EncounterLog, *domain.War, error) {
	log, err := getLog(ctx, store, id)
	if err != nil {
		return nil, nil, err
	}
	war, err := store.GetWar(ctx, log.WarID)
	if err != nil {
		return nil, nil, fmt.Errorf("get war for log: %w", err)
	}
	return log, war, nil
}

// lock is load with the parent war held for the rest of the unit of work.
// The log is read again once the war is held.
func (s *Service) lock(ctx context.Context, tx ports.Store, id string) (*domain.EncounterLog, *domain.War, error) {
	log, err := getLog(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	war, err := tx.GetWarForUpdate(ctx, log.WarID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock war for log: %w", err)
	}
	if log, err = getLog(ctx, tx, id); err != nil {
		return nil, nil, err
	}
	return log, war, nil
}

func getLog(ctx context.Context, store ports.Store, id string) (*domain.EncounterLog, error) {
	log, err := store.GetLog(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("log", id)
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	return log, nil
}

func requireActive(war *domain.War) error {
	switch war.Status {
	case domain.WarActive:
		return nil
	case domain.WarEnded:
		return &domain.ConflictError{Reason: "war has ended", War: war}
	default:
		return &domain.ConflictError{Reason: "war is not active yet", War: war}
	}
}

func entryOf(l *domain.EncounterLog) Entry {
	return Entry{
		Type:          l.Type,
		OccurredAt:    l.OccurredAt,
		Participants:  l.Participants,
		FriendsKilled: l.FriendsKilled,
		PlayersKilled: l.PlayersKilled,
		Notes:         l.Notes,
		EvidenceURLs:  l.EvidenceURLs,
	}
}

func applyPatch(e Entry, p Patch) Entry {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.OccurredAt != nil {
		e.OccurredAt = *p.OccurredAt
	}
	if p.Participants != nil {
		e.Participants = *p.Participants
	}
	if p.FriendsKilled != nil {
		e.FriendsKilled = *p.FriendsKilled
	}
	if p.PlayersKilled != nil {
		e.PlayersKilled = *p.PlayersKilled
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.EvidenceURLs != nil {
		e.EvidenceURLs = *p.EvidenceURLs
	}
	return e
}
