package wars

import (
	"faction-hub/internal/config"
	"faction-hub/internal/core/domain"
)

// memberWarShape applies the self-service restriction for non-privileged
// creators. Members may only open UNCONTROLLED, NON_LETHAL wars; depending on
// policy anything else is forced down to that shape or refused.
func memberWarShape(policy string, role domain.Role, in *CreateWarInput) error {
	if in.Type == domain.WarUncontrolled && in.Level == domain.NonLethal {
		in.Regulations = nil
		return nil
	}

	if policy == config.MemberWarPolicyReject {
		return &domain.ForbiddenError{Action: "create CONTROLLED or LETHAL wars", Role: role}
	}

	in.Type = domain.WarUncontrolled
	in.Level = domain.NonLethal
	in.Regulations = nil
	return nil
}

// NextLevel is the lethality transition applied after every log mutation.
// A kill anywhere in the war makes it LETHAL. Edits and deletes drop it back
// to NON_LETHAL whenever no kill remains war-wide, so a level left behind by
// a lost update is repaired by the next one.
func NextLevel(current domain.WarLevel, hasKills, mayDowngrade bool) domain.WarLevel {
	switch {
	case hasKills && current != domain.Lethal:
		return domain.Lethal
	case !hasKills && current == domain.Lethal && mayDowngrade:
		return domain.NonLethal
	default:
		return current
	}
}
