package scoreboard

import (
	"sort"
	"strings"
	"unicode"

	"faction-hub/internal/core/domain"

	"golang.org/x/text/cases"
)

// Roster is the member lookup used for name resolution. Every member is
// indexed by folded username, username without digits, global name and
// nickname.
type Roster struct {
	members []domain.Member
	keys    [][]string
	byKey   map[string][]int
}

func NewRoster(members []domain.Member) *Roster {
	sorted := append([]domain.Member(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DiscordID < sorted[j].DiscordID })

	r := &Roster{
		members: sorted,
		keys:    make([][]string, len(sorted)),
		byKey:   make(map[string][]int),
	}
	for i, m := range sorted {
		for _, key := range memberKeys(m) {
			r.keys[i] = append(r.keys[i], key)
			r.byKey[key] = append(r.byKey[key], i)
		}
	}
	return r
}

func (r *Roster) Len() int {
	return len(r.members)
}

func memberKeys(m domain.Member) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	user := foldKey(m.Username)
	add(user)
	add(stripDigits(user))
	add(foldKey(m.GlobalName))
	add(foldKey(m.Nickname))
	return keys
}

// foldKey case-folds s and drops everything but letters and digits, so
// "Jon Smith", "@jonsmith" and "jon_smith" share a key.
func foldKey(s string) string {
	folded := cases.Fold().String(strings.TrimPrefix(strings.TrimSpace(s), "@"))
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
}

// MatchStrategy finds the roster member a folded name key refers to.
type MatchStrategy interface {
	Match(key string, roster *Roster) (domain.Member, bool)
}

// ExactMatch matches a key that equals one of a member's keys. Ties go to
// the lowest Discord id.
type ExactMatch struct{}

func (ExactMatch) Match(key string, roster *Roster) (domain.Member, bool) {
	idx, ok := roster.byKey[key]
	if !ok || len(idx) == 0 {
		return domain.Member{}, false
	}
	return roster.members[idx[0]], true
}

// ContainmentMatch matches when the name contains a member key or a member
// key contains the name. Keys shorter than MinLength never take part. The
// longest overlapping key wins, then the lowest Discord id.
type ContainmentMatch struct {
	MinLength int
}

func (c ContainmentMatch) Match(key string, roster *Roster) (domain.Member, bool) {
	if len(key) < c.MinLength {
		return domain.Member{}, false
	}

	best, bestLen := -1, 0
	for i, keys := range roster.keys {
		for _, mk := range keys {
			if len(mk) < c.MinLength {
				continue
			}
			if !strings.Contains(key, mk) && !strings.Contains(mk, key) {
				continue
			}
			overlap := min(len(mk), len(key))
			if overlap > bestLen {
				best, bestLen = i, overlap
			}
		}
	}
	if best < 0 {
		return domain.Member{}, false
	}
	return roster.members[best], true
}

// DefaultStrategies is exact match first, then containment.
var DefaultStrategies = []MatchStrategy{ExactMatch{}, ContainmentMatch{MinLength: 3}}

// ResolveIdentity maps a free-text player name to a roster member, trying
// each strategy in order. It returns nil when nothing matches.
func ResolveIdentity(rawName string, roster *Roster, strategies ...MatchStrategy) *domain.Identity {
	if roster == nil || roster.Len() == 0 {
		return nil
	}
	key := foldKey(rawName)
	if key == "" {
		return nil
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	for _, s := range strategies {
		if m, ok := s.Match(key, roster); ok {
			return &domain.Identity{
				DiscordID:   m.DiscordID,
				Username:    m.Username,
				DisplayName: m.DisplayName(),
				AvatarURL:   m.AvatarURL,
			}
		}
	}
	return nil
}
