package wars

import (
	"errors"
	"testing"

	"faction-hub/internal/config"
	"faction-hub/internal/core/domain"
)

func TestNextLevel(t *testing.T) {
	tests := []struct {
		name         string
		current      domain.WarLevel
		hasKills     bool
		mayDowngrade bool
		expected     domain.WarLevel
	}{
		{"first kill upgrades", domain.NonLethal, true, false, domain.Lethal},
		{"kills remain after edit", domain.Lethal, true, true, domain.Lethal},
		{"no kills left after edit downgrades", domain.Lethal, false, true, domain.NonLethal},
		{"append keeps lethal without kills", domain.Lethal, false, false, domain.Lethal},
		{"non lethal without kills stays", domain.NonLethal, false, true, domain.NonLethal},
		{"already lethal with kills", domain.Lethal, true, false, domain.Lethal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextLevel(tt.current, tt.hasKills, tt.mayDowngrade); got != tt.expected {
				t.Errorf("NextLevel(%s, %v, %v) = %s, want %s", tt.current, tt.hasKills, tt.mayDowngrade, got, tt.expected)
			}
		})
	}
}

func TestNextLevel_Idempotent(t *testing.T) {
	level := domain.NonLethal
	for i := 0; i < 3; i++ {
		level = NextLevel(level, true, false)
	}
	if level != domain.Lethal {
		t.Errorf("expected LETHAL after repeated recompute, got %s", level)
	}
}

func TestMemberWarShape(t *testing.T) {
	custom := &domain.Regulations{CooldownHours: 1}

	t.Run("coerce forces uncontrolled non lethal", func(t *testing.T) {
		in := CreateWarInput{Type: domain.WarControlled, Level: domain.Lethal, Regulations: custom}
		if err := memberWarShape(config.MemberWarPolicyCoerce, domain.RoleMember, &in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Type != domain.WarUncontrolled || in.Level != domain.NonLethal || in.Regulations != nil {
			t.Errorf("expected coerced input, got %+v", in)
		}
	})

	t.Run("reject refuses", func(t *testing.T) {
		in := CreateWarInput{Type: domain.WarUncontrolled, Level: domain.Lethal}
		err := memberWarShape(config.MemberWarPolicyReject, domain.RoleMember, &in)
		var forbidden *domain.ForbiddenError
		if !errors.As(err, &forbidden) {
			t.Fatalf("expected ForbiddenError, got %v", err)
		}
		if forbidden.Role != domain.RoleMember {
			t.Errorf("expected MEMBER role on error, got %s", forbidden.Role)
		}
	})

	t.Run("allowed shape passes under reject", func(t *testing.T) {
		in := CreateWarInput{Type: domain.WarUncontrolled, Level: domain.NonLethal, Regulations: custom}
		if err := memberWarShape(config.MemberWarPolicyReject, domain.RoleMember, &in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Regulations != nil {
			t.Error("member supplied regulations must be dropped")
		}
	})
}
