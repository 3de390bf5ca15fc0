package wars

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"faction-hub/internal/config"
	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/embedsync"
	"faction-hub/internal/metrics"

	"github.com/google/uuid"
)

type Dependencies struct {
	Config     *config.Config
	Repository ports.Repository
	Embeds     *embedsync.Syncer
	Clock      func() time.Time
}

type Service struct {
	config *config.Config
	repo   ports.Repository
	embeds *embedsync.Syncer
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
		config: deps.Config,
		repo:   deps.Repository,
		embeds: embeds,
		now:    clock,
	}
}

type CreateWarInput struct {
	EnemyFaction string
	Type         domain.WarType
	Level        domain.WarLevel
	// Regulations is only honoured for CONTROLLED wars created by a
	// privileged actor.
	Regulations *domain.Regulations
}

// WarPatch holds the administrative edits; nil fields are left unchanged.
type WarPatch struct {
	EnemyFaction *string
	Type         *domain.WarType
	Level        *domain.WarLevel
	Regulations  *domain.Regulations
}

func (s *Service) Create(ctx context.Context, in CreateWarInput, actor domain.Actor) (*domain.War, error) {
	if !actor.Role.Member() {
		return nil, &domain.ForbiddenError{Action: "create wars", Role: actor.Role}
	}

	in.EnemyFaction = strings.TrimSpace(in.EnemyFaction)
	if in.Type == "" {
		in.Type = domain.WarUncontrolled
	}
	if in.Level == "" {
		in.Level = domain.NonLethal
	}
	// Member regulations are dropped by memberWarShape, so only a
	// privileged creator's ruleset is validated.
	if !actor.Role.Privileged() {
		if err := validateShape(in.Type, in.Level, nil); err != nil {
			return nil, err
		}
		if err := memberWarShape(s.config.MemberWarPolicy, actor.Role, &in); err != nil {
			return nil, err
		}
	} else if err := validateShape(in.Type, in.Level, in.Regulations); err != nil {
		return nil, err
	}

	regs, err := s.initialRegulations(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	status := domain.WarActive
	if s.config.RequireApproval && !actor.Role.Privileged() {
		status = domain.WarPending
	}

	war := &domain.War{
		ID:           uuid.NewString(),
		EnemyFaction: in.EnemyFaction,
		Slug:         Slug(in.EnemyFaction, now),
		Status:       status,
		Type:         in.Type,
		Level:        in.Level,
		Regulations:  regs,
		StartedAt:    now,
		CreatedBy:    actor.DiscordID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateWar(ctx, war); err != nil {
		return nil, fmt.Errorf("create war: %w", err)
	}

	metrics.WarsCreated.WithLabelValues(string(war.Type), string(war.Level)).Inc()
	slog.Info("War created", "war_id", war.ID, "slug", war.Slug, "status", war.Status, "created_by", actor.DiscordID)

	if war.Status == domain.WarActive {
		s.embeds.PublishWar(ctx, war)
	}

	return war, nil
}

func (s *Service) initialRegulations(ctx context.Context, in CreateWarInput) (domain.Regulations, error) {
	if in.Type == domain.WarControlled && in.Regulations != nil {
		return in.Regulations.Clone(), nil
	}
	return s.GlobalRegulations(ctx)
}

// Get resolves a war by slug, falling back to its raw id. When several wars
// share a slug the most recently started one wins.
func (s *Service) Get(ctx context.Context, ref string) (*domain.War, error) {
	return getWar(ctx, s.repo, ref)
}

func getWar(ctx context.Context, store ports.Store, ref string) (*domain.War, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.NotFound("war", ref)
	}

	matches, err := store.FindWarsBySlug(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("find war by slug: %w", err)
	}
	if len(matches) > 0 {
		return &matches[0], nil
	}

	war, err := store.GetWar(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("war", ref)
		}
		return nil, fmt.Errorf("get war: %w", err)
	}
	return war, nil
}

func (s *Service) List(ctx context.Context, status domain.WarStatus) ([]domain.War, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError([]domain.FieldProblem{{Field: "status", Value: string(status), Message: "must be PENDING, ACTIVE or ENDED"}})
	}
	wars, err := s.repo.ListWars(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list wars: %w", err)
	}
	return wars, nil
}

// Update applies an administrative patch. Renaming the faction regenerates
// the slug; forcing NON_LETHAL is refused while any log records a kill.
func (s *Service) Update(ctx context.Context, ref string, patch WarPatch, actor domain.Actor) (*domain.War, error) {
	if !actor.Role.Privileged() {
		return nil, &domain.ForbiddenError{Action: "update wars", Role: actor.Role}
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	var updated *domain.War
	err = s.repo.WithinTx(ctx, func(tx ports.Store) error {
		war, err := tx.GetWarForUpdate(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("reload war: %w", err)
		}
		if war.Ended() {
			return &domain.ConflictError{Reason: "war has ended", War: war}
		}

		if patch.Level != nil && *patch.Level == domain.NonLethal {
			hasKills, err := tx.WarHasKills(ctx, war.ID)
			if err != nil {
				return fmt.Errorf("check war kills: %w", err)
			}
			if hasKills {
				return &domain.ConflictError{Reason: "war has recorded kills and cannot be set to NON_LETHAL", War: war}
			}
		}

		applyPatch(war, patch)

		if err := tx.UpdateWar(ctx, war); err != nil {
			return fmt.Errorf("update war: %w", err)
		}
		updated = war
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("War updated", "war_id", updated.ID, "slug", updated.Slug, "level", updated.Level, "updated_by", actor.DiscordID)
	s.embeds.RefreshWar(ctx, updated)
	return updated, nil
}

func applyPatch(war *domain.War, patch WarPatch) {
	if patch.EnemyFaction != nil {
		war.EnemyFaction = strings.TrimSpace(*patch.EnemyFaction)
		war.Slug = Slug(war.EnemyFaction, war.StartedAt)
	}
	if patch.Type != nil {
		war.Type = *patch.Type
	}
	if patch.Level != nil {
		war.Level = *patch.Level
	}
	if patch.Regulations != nil {
		war.Regulations = patch.Regulations.Clone()
	}
}

// Activate approves a PENDING war.
func (s *Service) Activate(ctx context.Context, ref string, actor domain.Actor) (*domain.War, error) {
	if !actor.Role.Privileged() {
		return nil, &domain.ForbiddenError{Action: "approve wars", Role: actor.Role}
	}

	current, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	var activated *domain.War
	err = s.repo.WithinTx(ctx, func(tx ports.Store) error {
		war, err := tx.GetWarForUpdate(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("reload war: %w", err)
		}
		if war.Status != domain.WarPending {
			return &domain.ConflictError{Reason: "only PENDING wars can be activated", War: war}
		}

		war.Status = domain.WarActive
		if err := tx.UpdateWar(ctx, war); err != nil {
			return fmt.Errorf("activate war: %w", err)
		}
		activated = war
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("War activated", "war_id", activated.ID, "slug", activated.Slug, "activated_by", actor.DiscordID)
	s.embeds.PublishWar(ctx, activated)
	return activated, nil
}

// End closes a war for good. The message reference is cleared in the same
// write; the chat message itself is removed afterwards on a best-effort basis.
func (s *Service) End(ctx context.Context, ref string, actor domain.Actor) (*domain.War, error) {
	if !actor.Role.Privileged() {
		return nil, &domain.ForbiddenError{Action: "end wars", Role: actor.Role}
	}

	current, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	var (
		ended   *domain.War
		message *domain.MessageRef
	)
	err = s.repo.WithinTx(ctx, func(tx ports.Store) error {
		war, err := tx.GetWarForUpdate(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("reload war: %w", err)
		}
		if war.Ended() {
			return &domain.ConflictError{Reason: "war has already ended", War: war}
		}

		endedAt := s.now().UTC()
		message = war.Message
		war.Status = domain.WarEnded
		war.EndedAt = &endedAt
		war.Message = nil

		if err := tx.UpdateWar(ctx, war); err != nil {
			return fmt.Errorf("end war: %w", err)
		}
		ended = war
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WarsEnded.Inc()
	slog.Info("War ended", "war_id", ended.ID, "slug", ended.Slug, "ended_by", actor.DiscordID)

	if message != nil {
		s.embeds.DeleteWar(ctx, *message)
	}
	return ended, nil
}

// GlobalRegulations returns the default ruleset, or the zero ruleset when
// none has been saved.
func (s *Service) GlobalRegulations(ctx context.Context) (domain.Regulations, error) {
	regs, err := s.repo.LatestRegulations(ctx)
	if err != nil {
		return domain.Regulations{}, fmt.Errorf("load global regulations: %w", err)
	}
	if regs == nil {
		return domain.Regulations{}, nil
	}
	return *regs, nil
}

func (s *Service) SetGlobalRegulations(ctx context.Context, regs domain.Regulations, actor domain.Actor) (domain.Regulations, error) {
	if !actor.Role.Privileged() {
		return domain.Regulations{}, &domain.ForbiddenError{Action: "change global regulations", Role: actor.Role}
	}
	if err := regs.Validate(); err != nil {
		return domain.Regulations{}, err
	}
	if err := s.repo.SaveRegulations(ctx, regs, actor.DiscordID); err != nil {
		return domain.Regulations{}, fmt.Errorf("save global regulations: %w", err)
	}
	slog.Info("Global regulations updated", "updated_by", actor.DiscordID)
	return regs.Clone(), nil
}

// RecomputeLethality re-derives the war level from the logs visible through
// store and persists it when it changed. mayDowngrade is set by edits and
// deletes; appends never lower the level. war.Level is updated in place.
func (s *Service) RecomputeLethality(ctx context.Context, store ports.Store, war *domain.War, mayDowngrade bool) (bool, error) {
	hasKills, err := store.WarHasKills(ctx, war.ID)
	if err != nil {
		return false, fmt.Errorf("check war kills: %w", err)
	}

	next := NextLevel(war.Level, hasKills, mayDowngrade)
	if next == war.Level {
		return false, nil
	}

	if err := store.SetWarLevel(ctx, war.ID, next); err != nil {
		return false, fmt.Errorf("set war level: %w", err)
	}

	slog.Info("War level changed", "war_id", war.ID, "from", war.Level, "to", next)
	metrics.LethalityTransitions.WithLabelValues(string(next)).Inc()
	war.Level = next
	return true, nil
}

func validateShape(t domain.WarType, l domain.WarLevel, regs *domain.Regulations) error {
	var problems []domain.FieldProblem
	if !t.Valid() {
		problems = append(problems, domain.FieldProblem{Field: "warType", Value: string(t), Message: "must be UNCONTROLLED or CONTROLLED"})
	}
	if !l.Valid() {
		problems = append(problems, domain.FieldProblem{Field: "warLevel", Value: string(l), Message: "must be NON_LETHAL or LETHAL"})
	}
	if regs != nil {
		var ve *domain.ValidationError
		if err := regs.Validate(); errors.As(err, &ve) {
			problems = append(problems, ve.Problems...)
		}
	}
	return domain.NewValidationError(problems)
}

func validatePatch(p WarPatch) error {
	var problems []domain.FieldProblem
	if p.Type != nil && !p.Type.Valid() {
		problems = append(problems, domain.FieldProblem{Field: "warType", Value: string(*p.Type), Message: "must be UNCONTROLLED or CONTROLLED"})
	}
	if p.Level != nil && !p.Level.Valid() {
		problems = append(problems, domain.FieldProblem{Field: "warLevel", Value: string(*p.Level), Message: "must be NON_LETHAL or LETHAL"})
	}
	if p.Regulations != nil {
		var ve *domain.ValidationError
		if err := p.Regulations.Validate(); errors.As(err, &ve) {
			problems = append(problems, ve.Problems...)
		}
	}
	if p.EnemyFaction == nil && p.Type == nil && p.Level == nil && p.Regulations == nil {
		problems = append(problems, domain.FieldProblem{Field: "patch", Message: "no changes supplied"})
	}
	return domain.NewValidationError(problems)
}
