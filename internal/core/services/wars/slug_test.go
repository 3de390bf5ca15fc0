package wars

import (
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	day := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		faction  string
		expected string
	}{
		{"simple", "West Side Crew", "west-side-crew-20260301"},
		{"punctuation collapsed", "  Los  Santos -- Vagos!! ", "los-santos-vagos-20260301"},
		{"accents folded", "Los Aztécas Ñ", "los-aztecas-n-20260301"},
		{"digits kept", "187 Boyz", "187-boyz-20260301"},
		{"empty", "", "unknown-20260301"},
		{"only symbols", "???", "unknown-20260301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.faction, day); got != tt.expected {
				t.Errorf("Slug(%q) = %q, want %q", tt.faction, got, tt.expected)
			}
		})
	}
}

func TestSlug_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2026, 3, 2, 1, 0, 0, 0, loc)

	if got := Slug("Crew", local); got != "crew-20260301" {
		t.Errorf("expected UTC date in slug, got %q", got)
	}
}

func TestSlug_Deterministic(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if Slug("Grove Street", day) != Slug("Grove Street", day) {
		t.Error("slug must be stable for the same input")
	}
}
