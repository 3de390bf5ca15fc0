package wars

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugDateLayout = "20060102"

// Slug derives the human-readable war reference from the enemy faction and
// the start date, e.g. "West Side Crew" on 2026-03-01 -> west-side-crew-20260301.
func Slug(faction string, startedAt time.Time) string {
	base := slugify(faction)
	if base == "" {
		base = "unknown"
	}
	return base + "-" + startedAt.UTC().Format(slugDateLayout)
}

func slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
