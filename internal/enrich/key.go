package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var keyTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key derives the dedup key for a wine name: case-folded, diacritics
// stripped, whitespace collapsed. Case, accent, and spacing variants of the
// same name ("Château Margaux", "chateau   margaux") share one key.
func Key(name string) string {
	lowered := strings.ToLower(name)
	stripped, _, err := transform.String(keyTransformer, lowered)
	if err != nil {
		stripped = lowered
	}
	return strings.Join(strings.Fields(stripped), " ")
}
