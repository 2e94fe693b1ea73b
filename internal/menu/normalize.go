package menu

import (
	"strings"

	"winescan/internal/wine"
)

// DefaultVintagePivot is the two-digit vintage century pivot: values up to
// the pivot expand into the 2000s, above it into the 1900s.
const DefaultVintagePivot = 30

// currencyISO maps the common currency glyphs to ISO 4217 codes.
// Unrecognized symbols pass through untouched.
var currencyISO = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// typographic variants mapped to ASCII-safe equivalents in derived fields.
var typographicReplacer = strings.NewReplacer(
	"–", "-", "—", "-", "−", "-",
	"’", "'", "‘", "'",
	"“", `"`, "”", `"`,
)

// Normalize returns a copy of the item with derived fields canonicalized:
// whitespace collapsed, typographic glyphs mapped to ASCII, 2-digit
// vintages expanded by the century pivot, currency glyphs mapped to ISO
// codes. RawText is returned verbatim.
func Normalize(it wine.Item, pivot int) wine.Item {
	if pivot <= 0 || pivot > 99 {
		pivot = DefaultVintagePivot
	}

	it.Name = cleanField(it.Name)
	it.Producer = cleanField(it.Producer)
	it.Region = cleanField(it.Region)
	it.Grape = cleanField(it.Grape)
	it.Description = cleanField(it.Description)

	if it.Vintage != nil && *it.Vintage < 100 {
		v := *it.Vintage
		if v <= pivot {
			v += 2000
		} else {
			v += 1900
		}
		it.Vintage = &v
	}

	if it.Price.Currency != nil {
		if iso, ok := currencyISO[*it.Price.Currency]; ok {
			cur := iso
			it.Price.Currency = &cur
		}
	}
	return it
}

func cleanField(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := typographicReplacer.Replace(*s)
	cleaned = strings.TrimSpace(strings.Join(strings.Fields(cleaned), " "))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
