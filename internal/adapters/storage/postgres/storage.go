package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"faction-hub/internal/adapters/storage/postgres/db"
	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{
		pool: pool,
		q:    db.New(pool),
	}, nil
}

// Migrate creates missing tables and indexes. It is safe to run on every start.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ports.Store) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{q: s.q.WithTx(tx), now: s.now})
	})
}

func (s *PostgresStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// -- War Methods --

func (s *PostgresStore) CreateWar(ctx context.Context, war *domain.War) error {
	regs, err := json.Marshal(war.Regulations)
	if err != nil {
		return fmt.Errorf("encode regulations: %w", err)
	}

	now := s.clock()
	if war.CreatedAt.IsZero() {
		war.CreatedAt = now
	}
	if war.UpdatedAt.IsZero() {
		war.UpdatedAt = now
	}
	msgID, chanID := refColumns(war.Message)

	err = s.q.CreateWar(ctx, db.CreateWarParams{
		ID:           war.ID,
		EnemyFaction: war.EnemyFaction,
		Slug:         war.Slug,
		Status:       string(war.Status),
		WarType:      string(war.Type),
		WarLevel:     string(war.Level),
		Regulations:  regs,
		StartedAt:    timestamp(war.StartedAt),
		EndedAt:      optionalTimestamp(war.EndedAt),
		CreatedBy:    war.CreatedBy,
		MessageID:    msgID,
		ChannelID:    chanID,
		CreatedAt:    timestamp(war.CreatedAt),
		UpdatedAt:    timestamp(war.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("create war: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetWar(ctx context.Context, id string) (*domain.War, error) {
	row, err := s.q.GetWar(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("war", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get war: %w", err)
	}
	return warFromRow(row)
}

// GetWarForUpdate row-locks the war. Outside WithinTx the lock is released
// as soon as the statement completes.
func (s *PostgresStore) GetWarForUpdate(ctx context.Context, id string) (*domain.War, error) {
	row, err := s.q.GetWarForUpdate(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("war", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock war: %w", err)
	}
	return warFromRow(row)
}

func (s *PostgresStore) FindWarsBySlug(ctx context.Context, slug string) ([]domain.War, error) {
	rows, err := s.q.FindWarsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find wars by slug: %w", err)
	}
	return warsFromRows(rows)
}

func (s *PostgresStore) ListWars(ctx context.Context, status domain.WarStatus) ([]domain.War, error) {
	rows, err := s.q.ListWars(ctx, pgtype.Text{String: string(status), Valid: status != ""})
	if err != nil {
		return nil, fmt.Errorf("list wars: %w", err)
	}
	return warsFromRows(rows)
}

func (s *PostgresStore) UpdateWar(ctx context.Context, war *domain.War) error {
	regs, err := json.Marshal(war.Regulations)
	if err != nil {
		return fmt.Errorf("encode regulations: %w", err)
	}

	war.UpdatedAt = s.clock()
	msgID, chanID := refColumns(war.Message)

	tag, err := s.q.UpdateWar(ctx, db.UpdateWarParams{
		ID:           war.ID,
		EnemyFaction: war.EnemyFaction,
		Slug:         war.Slug,
		Status:       string(war.Status),
		WarType:      string(war.Type),
		WarLevel:     string(war.Level),
		Regulations:  regs,
		EndedAt:      optionalTimestamp(war.EndedAt),
		MessageID:    msgID,
		ChannelID:    chanID,
		UpdatedAt:    timestamp(war.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("update war: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("war", war.ID)
	}
	return nil
}

func (s *PostgresStore) SetWarLevel(ctx context.Context, id string, level domain.WarLevel) error {
	tag, err := s.q.SetWarLevel(ctx, db.SetWarLevelParams{
		ID:        id,
		WarLevel:  string(level),
		UpdatedAt: timestamp(s.clock()),
	})
	if err != nil {
		return fmt.Errorf("set war level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("war", id)
	}
	return nil
}

func (s *PostgresStore) SetWarMessage(ctx context.Context, id string, ref *domain.MessageRef) error {
	msgID, chanID := refColumns(ref)
	tag, err := s.q.SetWarMessage(ctx, db.SetWarMessageParams{
		ID:        id,
		MessageID: msgID,
		ChannelID: chanID,
	})
	if err != nil {
		return fmt.Errorf("set war message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("war", id)
	}
	return nil
}

// -- Encounter Log Methods --

func (s *PostgresStore) CreateLog(ctx context.Context, log *domain.EncounterLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.clock()
	}
	msgID, chanID := refColumns(log.Message)

	err := s.q.CreateLog(ctx, db.CreateLogParams{
		ID:            log.ID,
		WarID:         log.WarID,
		LogType:       string(log.Type),
		OccurredAt:    timestamp(log.OccurredAt),
		Participants:  nonNil(log.Participants),
		FriendsKilled: nonNil(log.FriendsKilled),
		PlayersKilled: nonNil(log.PlayersKilled),
		Notes:         log.Notes,
		EvidenceUrls:  domain.JoinEvidence(log.EvidenceURLs),
		SubmittedBy:   log.SubmittedBy,
		EditedBy:      text(log.EditedBy),
		EditedAt:      optionalTimestamp(log.EditedAt),
		MessageID:     msgID,
		ChannelID:     chanID,
		CreatedAt:     timestamp(log.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLog(ctx context.Context, id string) (*domain.EncounterLog, error) {
	row, err := s.q.GetLog(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("log", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	log := logFromRow(row)
	return &log, nil
}

func (s *PostgresStore) UpdateLog(ctx context.Context, log *domain.EncounterLog) error {
	tag, err := s.q.UpdateLog(ctx, db.UpdateLogParams{
		ID:            log.ID,
		LogType:       string(log.Type),
		OccurredAt:    timestamp(log.OccurredAt),
		Participants:  nonNil(log.Participants),
		FriendsKilled: nonNil(log.FriendsKilled),
		PlayersKilled: nonNil(log.PlayersKilled),
		Notes:         log.Notes,
		EvidenceUrls:  domain.JoinEvidence(log.EvidenceURLs),
		EditedBy:      text(log.EditedBy),
		EditedAt:      optionalTimestamp(log.EditedAt),
	})
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("log", log.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteLog(ctx context.Context, id string) error {
	tag, err := s.q.DeleteLog(ctx, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("log", id)
	}
	return nil
}

func (s *PostgresStore) SetLogMessage(ctx context.Context, id string, ref *domain.MessageRef) error {
	msgID, chanID := refColumns(ref)
	tag, err := s.q.SetLogMessage(ctx, db.SetLogMessageParams{
		ID:        id,
		MessageID: msgID,
		ChannelID: chanID,
	})
	if err != nil {
		return fmt.Errorf("set log message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("log", id)
	}
	return nil
}

func (s *PostgresStore) ListLogs(ctx context.Context, warID string, limit int) ([]domain.EncounterLog, error) {
	rows, err := s.q.ListLogs(ctx, db.ListLogsParams{
		WarID: warID,
		Limit: pgtype.Int4{Int32: int32(limit), Valid: limit > 0},
	})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	result := make([]domain.EncounterLog, 0, len(rows))
	for _, row := range rows {
		result = append(result, logFromRow(row))
	}
	return result, nil
}

func (s *PostgresStore) CountLogs(ctx context.Context, warID string) (int64, error) {
	n, err := s.q.CountLogs(ctx, warID)
	if err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) WarHasKills(ctx context.Context, warID string) (bool, error) {
	has, err := s.q.WarHasKills(ctx, warID)
	if err != nil {
		return false, fmt.Errorf("war has kills: %w", err)
	}
	return has, nil
}

// -- Regulations Methods --

func (s *PostgresStore) LatestRegulations(ctx context.Context) (*domain.Regulations, error) {
	row, err := s.q.LatestRegulations(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest regulations: %w", err)
	}

	var regs domain.Regulations
	if err := json.Unmarshal(row.Regulations, &regs); err != nil {
		return nil, fmt.Errorf("decode regulations %d: %w", row.ID, err)
	}
	return &regs, nil
}

func (s *PostgresStore) SaveRegulations(ctx context.Context, regs domain.Regulations, updatedBy string) error {
	data, err := json.Marshal(regs)
	if err != nil {
		return fmt.Errorf("encode regulations: %w", err)
	}
	err = s.q.InsertRegulations(ctx, db.InsertRegulationsParams{
		Regulations: data,
		UpdatedBy:   updatedBy,
		UpdatedAt:   timestamp(s.clock()),
	})
	if err != nil {
		return fmt.Errorf("save regulations: %w", err)
	}
	return nil
}

// -- Member Methods --

func (s *PostgresStore) GetMemberRole(ctx context.Context, discordID string) (domain.Role, error) {
	role, err := s.q.GetMemberRole(ctx, discordID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RoleGuest, nil
	}
	if err != nil {
		return domain.RoleGuest, fmt.Errorf("get member role: %w", err)
	}
	return domain.ParseRole(role), nil
}

func (s *PostgresStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.q.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	result := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Member{
			DiscordID:  row.DiscordID,
			Username:   row.Username,
			GlobalName: row.GlobalName.String,
			Nickname:   row.Nickname.String,
			AvatarURL:  row.AvatarUrl.String,
			Role:       domain.ParseRole(row.Role),
		})
	}
	return result, nil
}

var _ ports.Repository = (*PostgresStore)(nil)
