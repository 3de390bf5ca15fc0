// Package memory is an in-process ports.Repository for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
)

type regulationsRecord struct {
	regs      domain.Regulations
	updatedBy string
	updatedAt time.Time
}

type Store struct {
	// tx serializes WithinTx callers; mu guards the maps.
	tx          sync.Mutex
	mu          sync.RWMutex
	wars        map[string]domain.War
	logs        map[string]domain.EncounterLog
	members     map[string]domain.Member
	regulations []regulationsRecord
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		wars:    make(map[string]domain.War),
		logs:    make(map[string]domain.EncounterLog),
		members: make(map[string]domain.Member),
		now:     time.Now,
	}
}

// AddMember seeds the member table.
func (s *Store) AddMember(m domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.DiscordID] = m
}

// WithinTx runs fn against the store itself, one unit of work at a time.
// Changes are not rolled back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(ports.Store) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	return fn(s)
}

func (s *Store) Close() {}

// -- Wars --

func (s *Store) CreateWar(ctx context.Context, war *domain.War) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wars[war.ID] = copyWar(*war)
	return nil
}

func (s *Store) GetWar(ctx context.Context, id string) (*domain.War, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wars[id]
	if !ok {
		return nil, domain.NotFound("war", id)
	}
	out := copyWar(w)
	return &out, nil
}

// GetWarForUpdate is GetWar; WithinTx already runs units of work serially.
func (s *Store) GetWarForUpdate(ctx context.Context, id string) (*domain.War, error) {
	return s.GetWar(ctx, id)
}

func (s *Store) FindWarsBySlug(ctx context.Context, slug string) ([]domain.War, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.War
	for _, w := range s.wars {
		if w.Slug == slug {
			out = append(out, copyWar(w))
		}
	}
	sortWars(out)
	return out, nil
}

func (s *Store) ListWars(ctx context.Context, status domain.WarStatus) ([]domain.War, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.War, 0, len(s.wars))
	for _, w := range s.wars {
		if status == "" || w.Status == status {
			out = append(out, copyWar(w))
		}
	}
	sortWars(out)
	return out, nil
}

func (s *Store) UpdateWar(ctx context.Context, war *domain.War) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wars[war.ID]; !ok {
		return domain.NotFound("war", war.ID)
	}
	war.UpdatedAt = s.now()
	s.wars[war.ID] = copyWar(*war)
	return nil
}

func (s *Store) SetWarLevel(ctx context.Context, id string, level domain.WarLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wars[id]
	if !ok {
		return domain.NotFound("war", id)
	}
	w.Level = level
	w.UpdatedAt = s.now()
	s.wars[id] = w
	return nil
}

func (s *Store) SetWarMessage(ctx context.Context, id string, ref *domain.MessageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wars[id]
	if !ok {
		return domain.NotFound("war", id)
	}
	w.Message = copyRef(ref)
	s.wars[id] = w
	return nil
}

// -- Logs --

func (s *Store) CreateLog(ctx context.Context, log *domain.EncounterLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wars[log.WarID]; !ok {
		return domain.NotFound("war", log.WarID)
	}
	s.logs[log.ID] = copyLog(*log)
	return nil
}

func (s *Store) GetLog(ctx context.Context, id string) (*domain.EncounterLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, domain.NotFound("log", id)
	}
	out := copyLog(l)
	return &out, nil
}

func (s *Store) UpdateLog(ctx context.Context, log *domain.EncounterLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[log.ID]; !ok {
		return domain.NotFound("log", log.ID)
	}
	s.logs[log.ID] = copyLog(*log)
	return nil
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[id]; !ok {
		return domain.NotFound("log", id)
	}
	delete(s.logs, id)
	return nil
}

func (s *Store) SetLogMessage(ctx context.Context, id string, ref *domain.MessageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return domain.NotFound("log", id)
	}
	l.Message = copyRef(ref)
	s.logs[id] = l
	return nil
}

func (s *Store) ListLogs(ctx context.Context, warID string, limit int) ([]domain.EncounterLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.EncounterLog
	for _, l := range s.logs {
		if l.WarID == warID {
			out = append(out, copyLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountLogs(ctx context.Context, warID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.logs {
		if l.WarID == warID {
			n++
		}
	}
	return n, nil
}

func (s *Store) WarHasKills(ctx context.Context, warID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.logs {
		if l.WarID == warID && l.HasKills() {
			return true, nil
		}
	}
	return false, nil
}

// -- Regulations --

func (s *Store) LatestRegulations(ctx context.Context) (*domain.Regulations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.regulations) == 0 {
		return nil, nil
	}
	latest := s.regulations[len(s.regulations)-1].regs.Clone()
	return &latest, nil
}

func (s *Store) SaveRegulations(ctx context.Context, regs domain.Regulations, updatedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regulations = append(s.regulations, regulationsRecord{
		regs:      regs.Clone(),
		updatedBy: updatedBy,
		updatedAt: s.now(),
	})
	return nil
}

// -- Members --

func (s *Store) GetMemberRole(ctx context.Context, discordID string) (domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[discordID]
	if !ok || m.Role == "" {
		return domain.RoleGuest, nil
	}
	return m.Role, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DiscordID < out[j].DiscordID })
	return out, nil
}

func sortWars(wars []domain.War) {
	sort.Slice(wars, func(i, j int) bool {
		if !wars[i].StartedAt.Equal(wars[j].StartedAt) {
			return wars[i].StartedAt.After(wars[j].StartedAt)
		}
		return wars[i].ID > wars[j].ID
	})
}

func copyRef(ref *domain.MessageRef) *domain.MessageRef {
	if ref == nil {
		return nil
	}
	out := *ref
	return &out
}

func copyWar(w domain.War) domain.War {
	w.Regulations = w.Regulations.Clone()
	w.Message = copyRef(w.Message)
	if w.EndedAt != nil {
		t := *w.EndedAt
		w.EndedAt = &t
	}
	return w
}

func copyLog(l domain.EncounterLog) domain.EncounterLog {
	l.Participants = append([]string(nil), l.Participants...)
	l.FriendsKilled = append([]string(nil), l.FriendsKilled...)
	l.PlayersKilled = append([]string(nil), l.PlayersKilled...)
	l.EvidenceURLs = append([]string(nil), l.EvidenceURLs...)
	l.Message = copyRef(l.Message)
	if l.EditedAt != nil {
		t := *l.EditedAt
		l.EditedAt = &t
	}
	return l
}
