package scoreboard

import (
	"sort"
	"strings"
	"time"

	"faction-hub/internal/core/domain"

	"github.com/google/uuid"
)

// entryNamespace seeds the deterministic PK entry ids.
var entryNamespace = uuid.MustParse("3f1c9a52-6f0e-4d7b-9a57-2a8d1c4e7b10")

type tally struct {
	side  domain.Side
	name  string
	count int
	last  time.Time
}

// NormalizeName is the tally key of a raw name: surrounding space and a
// leading @ removed, case preserved.
func NormalizeName(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "@"))
}

// Compute folds logs, newest first, into one entry per side and player.
// Names resolving to the same member on the same side collapse into the
// entry created first. Entries are returned in creation order.
func Compute(logs []domain.EncounterLog, roster *Roster, strategies ...MatchStrategy) []domain.PKEntry {
	tallies := tallyLogs(logs)

	entries := make([]domain.PKEntry, 0, len(tallies))
	index := make(map[string]int, len(tallies))

	for _, t := range tallies {
		identity := ResolveIdentity(t.name, roster, strategies...)

		key := string(t.side) + "|name|" + t.name
		if identity != nil {
			key = string(t.side) + "|discord|" + identity.DiscordID
		}

		if i, ok := index[key]; ok {
			entries[i].KillCount += t.count
			if t.last.After(entries[i].LastKilledAt) {
				entries[i].LastKilledAt = t.last
			}
			continue
		}

		index[key] = len(entries)
		entries = append(entries, domain.PKEntry{
			ID:           uuid.NewSHA1(entryNamespace, []byte(key)).String(),
			Name:         t.name,
			Side:         t.side,
			KillCount:    t.count,
			LastKilledAt: t.last,
			Identity:     identity,
		})
	}
	return entries
}

func tallyLogs(logs []domain.EncounterLog) []*tally {
	var order []*tally
	byKey := make(map[string]*tally)

	add := func(side domain.Side, raw string, at time.Time) {
		name := NormalizeName(raw)
		if name == "" {
			return
		}
		key := string(side) + "|" + name
		t, ok := byKey[key]
		if !ok {
			t = &tally{side: side, name: name}
			byKey[key] = t
			order = append(order, t)
		}
		t.count++
		if at.After(t.last) {
			t.last = at
		}
	}

	for _, l := range logs {
		for _, name := range l.PlayersKilled {
			add(domain.SideEnemy, name, l.OccurredAt)
		}
		for _, name := range l.FriendsKilled {
			add(domain.SideFriend, name, l.OccurredAt)
		}
	}
	return order
}

// SortByKills orders by kill count, then most recent kill, then name.
func SortByKills(entries []domain.PKEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.KillCount != b.KillCount {
			return a.KillCount > b.KillCount
		}
		if !a.LastKilledAt.Equal(b.LastKilledAt) {
			return a.LastKilledAt.After(b.LastKilledAt)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Side < b.Side
	})
}

// Totals returns enemy kills and friendly deaths over entries.
func Totals(entries []domain.PKEntry) (enemyKills, friendDeaths int) {
	for _, e := range entries {
		switch e.Side {
		case domain.SideEnemy:
			enemyKills += e.KillCount
		case domain.SideFriend:
			friendDeaths += e.KillCount
		}
	}
	return enemyKills, friendDeaths
}
