package ledger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"faction-hub/internal/core/domain"
)

const (
	futureTolerance = 5 * time.Minute
	maxNotesLength  = 4000
)

var (
	// "Firstname Lastname": two or more capitalized words, allowing
	// McDonald, O'Brien and Jean-Luc.
	fullNamePattern = regexp.MustCompile(`^\p{Lu}\p{Ll}*(?:['\-]?\p{Lu}\p{Ll}+)*(?: \p{Lu}\p{Ll}*(?:['\-]?\p{Lu}\p{Ll}+)*)+$`)
	handlePattern   = regexp.MustCompile(`^@[A-Za-z0-9_.]{2,32}$`)
)

// ValidName reports whether name has one of the two accepted shapes.
func ValidName(name string) bool {
	return fullNamePattern.MatchString(name) || handlePattern.MatchString(name)
}

// Entry is the client-supplied content of an encounter log.
type Entry struct {
	Type          domain.LogType
	OccurredAt    time.Time
	Participants  []string
	FriendsKilled []string
	PlayersKilled []string
	Notes         string
	EvidenceURLs  []string
}

func (e Entry) normalized() Entry {
	e.Participants = cleanNames(e.Participants)
	e.FriendsKilled = cleanNames(e.FriendsKilled)
	e.PlayersKilled = cleanNames(e.PlayersKilled)
	e.EvidenceURLs = cleanNames(e.EvidenceURLs)
	e.Notes = strings.TrimSpace(e.Notes)
	e.OccurredAt = e.OccurredAt.UTC()
	return e
}

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validateEntry collects every problem with e rather than stopping at the
// first one.
func validateEntry(e Entry, war *domain.War, now time.Time) error {
	var problems []domain.FieldProblem

	if !e.Type.Valid() {
		problems = append(problems, domain.FieldProblem{Field: "type", Value: string(e.Type), Message: "must be ATTACK or DEFENSE"})
	}

	switch {
	case e.OccurredAt.IsZero():
		problems = append(problems, domain.FieldProblem{Field: "occurredAt", Message: "is required"})
	case e.OccurredAt.Before(war.StartedAt):
		problems = append(problems, domain.FieldProblem{Field: "occurredAt", Value: e.OccurredAt.Format(time.RFC3339), Message: "is before the war started"})
	case e.OccurredAt.After(now.Add(futureTolerance)):
		problems = append(problems, domain.FieldProblem{Field: "occurredAt", Value: e.OccurredAt.Format(time.RFC3339), Message: "is in the future"})
	}

	if len(e.Participants) == 0 {
		problems = append(problems, domain.FieldProblem{Field: "participants", Message: "at least one participant is required"})
	}
	if max := war.Regulations.MaxParticipants; max > 0 && len(e.Participants) > max {
		problems = append(problems, domain.FieldProblem{Field: "participants", Value: fmt.Sprint(len(e.Participants)), Message: fmt.Sprintf("exceeds the limit of %d", max)})
	}

	problems = append(problems, nameProblems("participants", e.Participants)...)
	problems = append(problems, nameProblems("friendsKilled", e.FriendsKilled)...)
	problems = append(problems, nameProblems("playersKilled", e.PlayersKilled)...)

	for i, raw := range e.EvidenceURLs {
		if !validEvidenceURL(raw) {
			problems = append(problems, domain.FieldProblem{Field: fmt.Sprintf("evidenceUrls[%d]", i), Value: raw, Message: "must be an absolute http(s) URL"})
		}
	}

	if utf8.RuneCountInString(e.Notes) > maxNotesLength {
		problems = append(problems, domain.FieldProblem{Field: "notes", Message: fmt.Sprintf("must be at most %d characters", maxNotesLength)})
	}

	return domain.NewValidationError(problems)
}

func nameProblems(field string, names []string) []domain.FieldProblem {
	var problems []domain.FieldProblem
	for i, name := range names {
		if !ValidName(name) {
			problems = append(problems, domain.FieldProblem{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   name,
				Message: `must look like "Firstname Lastname" or "@handle"`,
			})
		}
	}
	return problems
}

func validEvidenceURL(raw string) bool {
	if strings.Contains(raw, ",") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
