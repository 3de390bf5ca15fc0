package ledger

import (
	"time"

	"faction-hub/internal/core/domain"
)

// EditPolicy decides who may edit an existing log. Privileged roles always
// can. Submitters may edit their own log within Window only when
// AllowOwner is set; it is off by default.
type EditPolicy struct {
	AllowOwner bool
	Window     time.Duration
}

func (p EditPolicy) CanEdit(actor domain.Actor, log *domain.EncounterLog, war *domain.War, now time.Time) bool {
	if actor.Role.Privileged() {
		return true
	}
	if !p.AllowOwner || !actor.Role.Member() {
		return false
	}
	if actor.DiscordID == "" || actor.DiscordID != log.SubmittedBy {
		return false
	}
	if war.Status != domain.WarActive {
		return false
	}
	return now.Sub(log.CreatedAt) <= p.Window
}

// CanDelete reports whether actor may delete logs. Deletion is never
// granted to owners.
func CanDelete(actor domain.Actor) bool {
	return actor.Role.Privileged()
}
