package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"faction-hub/internal/adapters/storage/postgres/db"
	"faction-hub/internal/core/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

func warFromRow(row db.War) (*domain.War, error) {
	var regs domain.Regulations
	if len(row.Regulations) > 0 {
		if err := json.Unmarshal(row.Regulations, &regs); err != nil {
			return nil, fmt.Errorf("decode regulations of war %s: %w", row.ID, err)
		}
	}

	return &domain.War{
		ID:           row.ID,
		EnemyFaction: row.EnemyFaction,
		Slug:         row.Slug,
		Status:       domain.WarStatus(row.Status),
		Type:         domain.WarType(row.WarType),
		Level:        domain.WarLevel(row.WarLevel),
		Regulations:  regs,
		StartedAt:    row.StartedAt.Time,
		EndedAt:      timePtr(row.EndedAt),
		CreatedBy:    row.CreatedBy,
		Message:      messageRef(row.MessageID, row.ChannelID),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}, nil
}

func warsFromRows(rows []db.War) ([]domain.War, error) {
	result := make([]domain.War, 0, len(rows))
	for _, row := range rows {
		war, err := warFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *war)
	}
	return result, nil
}

func logFromRow(row db.EncounterLog) domain.EncounterLog {
	return domain.EncounterLog{
		ID:            row.ID,
		WarID:         row.WarID,
		Type:          domain.LogType(row.LogType),
		OccurredAt:    row.OccurredAt.Time,
		Participants:  row.Participants,
		FriendsKilled: row.FriendsKilled,
		PlayersKilled: row.PlayersKilled,
		Notes:         row.Notes,
		EvidenceURLs:  domain.SplitEvidence(row.EvidenceUrls),
		SubmittedBy:   row.SubmittedBy,
		EditedBy:      row.EditedBy.String,
		EditedAt:      timePtr(row.EditedAt),
		Message:       messageRef(row.MessageID, row.ChannelID),
		CreatedAt:     row.CreatedAt.Time,
	}
}

func timestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func optionalTimestamp(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timestamp(*t)
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func refColumns(ref *domain.MessageRef) (pgtype.Text, pgtype.Text) {
	if ref == nil {
		return pgtype.Text{}, pgtype.Text{}
	}
	return text(ref.MessageID), text(ref.ChannelID)
}

func messageRef(msgID, chanID pgtype.Text) *domain.MessageRef {
	if !msgID.Valid || msgID.String == "" {
		return nil
	}
	return &domain.MessageRef{MessageID: msgID.String, ChannelID: chanID.String}
}

// nonNil keeps NOT NULL text[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
