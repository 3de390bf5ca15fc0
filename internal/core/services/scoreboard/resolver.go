package scoreboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/wars"
	"faction-hub/internal/metrics"

	"golang.org/x/sync/errgroup"
)

type Dependencies struct {
	Repository ports.Repository
	Directory  ports.MemberDirectory
	Wars       *wars.Service
}

// Service recomputes the leaderboard from the logs on every call. Nothing
// it produces is stored.
type Service struct {
	repo      ports.Repository
	directory ports.MemberDirectory
	wars      *wars.Service
}

func NewService(deps Dependencies) *Service {
	return &Service{
		repo:      deps.Repository,
		directory: deps.Directory,
		wars:      deps.Wars,
	}
}

type Board struct {
	War          *domain.War      `json:"war"`
	Entries      []domain.PKEntry `json:"entries"`
	EnemyKills   int              `json:"enemyKills"`
	FriendDeaths int              `json:"friendDeaths"`
}

func (s *Service) Compute(ctx context.Context, warRef string) (*Board, error) {
	start := time.Now()
	defer func() { metrics.ScoreboardDuration.Observe(time.Since(start).Seconds()) }()

	war, err := s.wars.Get(ctx, warRef)
	if err != nil {
		return nil, err
	}

	var (
		logs    []domain.EncounterLog
		members []domain.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.repo.ListLogs(gctx, war.ID, 0)
		if err != nil {
			return fmt.Errorf("list logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		members = s.roster(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := Compute(logs, NewRoster(members))
	SortByKills(entries)
	kills, deaths := Totals(entries)

	return &Board{
		War:          war,
		Entries:      entries,
		EnemyKills:   kills,
		FriendDeaths: deaths,
	}, nil
}

// roster prefers the live guild directory and falls back to the members
// table. It never fails; an empty roster only means no names resolve.
func (s *Service) roster(ctx context.Context) []domain.Member {
	if s.directory != nil {
		members, err := s.directory.ListGuildMembers(ctx)
		if err == nil {
			return members
		}
		slog.Warn("Failed to fetch guild members, using stored roster", "error", err)
	}

	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		slog.Warn("Failed to load stored roster", "error", err)
		return nil
	}
	return members
}
