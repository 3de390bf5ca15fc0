package ports

import (
	"context"
	"time"

	"faction-hub/internal/core/domain"
)

type WarStore interface {
	CreateWar(ctx context.Context, war *domain.War) error
	GetWar(ctx context.Context, id string) (*domain.War, error)
	// GetWarForUpdate reads a war and holds it until the surrounding unit
	// of work ends, so mutations of one war's logs run one at a time.
	GetWarForUpdate(ctx context.Context, id string) (*domain.War, error)
	FindWarsBySlug(ctx context.Context, slug string) ([]domain.War, error)
	ListWars(ctx context.Context, status domain.WarStatus) ([]domain.War, error)
	UpdateWar(ctx context.Context, war *domain.War) error
	SetWarLevel(ctx context.Context, id string, level domain.WarLevel) error
	SetWarMessage(ctx context.Context, id string, ref *domain.MessageRef) error
}

type LogStore interface {
	CreateLog(ctx context.Context, log *domain.EncounterLog) error
	GetLog(ctx context.Context, id string) (*domain.EncounterLog, error)
	UpdateLog(ctx context.Context, log *domain.EncounterLog) error
	DeleteLog(ctx context.Context, id string) error
	SetLogMessage(ctx context.Context, id string, ref *domain.MessageRef) error
	// ListLogs returns logs newest first; limit <= 0 means all.
	ListLogs(ctx context.Context, warID string, limit int) ([]domain.EncounterLog, error)
	CountLogs(ctx context.Context, warID string) (int64, error)
	WarHasKills(ctx context.Context, warID string) (bool, error)
}

type RegulationsStore interface {
	// LatestRegulations returns nil when no global ruleset exists.
	LatestRegulations(ctx context.Context) (*domain.Regulations, error)
	SaveRegulations(ctx context.Context, regs domain.Regulations, updatedBy string) error
}

type MemberStore interface {
	// GetMemberRole returns domain.RoleGuest for unknown members.
	GetMemberRole(ctx context.Context, discordID string) (domain.Role, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

type Store interface {
	WarStore
	LogStore
	RegulationsStore
	MemberStore
}

type Repository interface {
	Store
	// WithinTx runs fn against a store bound to one transaction. The
	// transaction commits when fn returns nil.
	WithinTx(ctx context.Context, fn func(Store) error) error
	Close()
}

type MemberDirectory interface {
	ListGuildMembers(ctx context.Context) ([]domain.Member, error)
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the structured payload mirrored to chat.
type Embed struct {
	Title        string
	Description  string
	URL          string
	Color        int
	Fields       []EmbedField
	ImageURL     string
	ThumbnailURL string
	Footer       string
	Timestamp    time.Time
}

// EmbedSynchronizer mirrors state into chat messages. It is never the
// source of truth.
type EmbedSynchronizer interface {
	Publish(ctx context.Context, embed Embed) (*domain.MessageRef, error)
	Edit(ctx context.Context, ref domain.MessageRef, embed Embed) error
	Delete(ctx context.Context, ref domain.MessageRef) error
}

// NoopSynchronizer is used when no chat endpoint is configured.
type NoopSynchronizer struct{}

func (NoopSynchronizer) Publish(context.Context, Embed) (*domain.MessageRef, error) { return nil, nil }
func (NoopSynchronizer) Edit(context.Context, domain.MessageRef, Embed) error        { return nil }
func (NoopSynchronizer) Delete(context.Context, domain.MessageRef) error             { return nil }
