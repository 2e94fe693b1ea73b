package menu

import (
	"strings"
	"unicode"

	"winescan/internal/wine"
)

// Kind tags the classification of a single menu row.
type Kind int

const (
	// KindSectionHeader is a group header like "RED WINES".
	KindSectionHeader Kind = iota
	// KindNewItem starts a new line item.
	KindNewItem
	// KindContinuation belongs to the immediately preceding item
	// (typically a trailing price column).
	KindContinuation
	// KindNoise is decoration or a column-label row; it produces nothing.
	KindNoise
)

// ItemFields are the candidate fields extracted from a NewItem row.
// Anything not confidently extracted stays nil and lives only in the raw
// row text.
type ItemFields struct {
	Name    *string
	Vintage *int
	// VintageShort marks a 2-digit vintage ('18) awaiting century
	// expansion by the normalizer.
	VintageShort bool
	Grape        *string
	Region       *string
}

// Classification is the tagged result of classifying one row.
type Classification struct {
	Kind    Kind
	Section string // set for KindSectionHeader
	Fields  ItemFields
}

// Classify labels a row. The rules run in a fixed priority order:
//
//  1. section vocabulary match without a price token → SectionHeader
//  2. column-label row ("Glass Bottle 175ml") without a price → Noise
//  3. mostly punctuation/bullet glyphs without a price → Noise
//  4. the whole row is one region/grape vocabulary entry → Continuation
//     carrying that field (regions are often printed under the name)
//  5. a name-like token present → NewItem with extracted fields
//  6. everything else (pure price rows, short fragments) → Continuation
//
// A row that reads as both header and item is resolved by the price signal:
// section headers never carry prices in practice.
func Classify(text string) Classification {
	priced := hasPriceToken(text)

	if label, ok := sectionLabel(text); ok && !priced {
		return Classification{Kind: KindSectionHeader, Section: label}
	}
	if !priced && (isColumnLabelRow(text) || isDecorationRow(text)) {
		return Classification{Kind: KindNoise}
	}
	if f, ok := vocabOnlyRow(text); ok && !priced {
		return Classification{Kind: KindContinuation, Fields: f}
	}
	if hasNameToken(text) {
		return Classification{Kind: KindNewItem, Fields: extractFields(text)}
	}
	return Classification{Kind: KindContinuation}
}

// vocabOnlyRow reports whether the row's entire content is a single
// controlled-vocabulary entry (a region or grape printed on its own line
// under the wine name) and returns it as continuation fields.
func vocabOnlyRow(text string) (ItemFields, bool) {
	folded := strings.Trim(fold(text), " .,:;|-")
	if region, ok := regionVocab[folded]; ok {
		return ItemFields{Region: wine.StrPtr(region)}, true
	}
	if grape, ok := grapeVocab[folded]; ok {
		return ItemFields{Grape: wine.StrPtr(grape)}, true
	}
	return ItemFields{}, false
}

// isColumnLabelRow detects table-header rows listing pour sizes or price
// column names to the right of group headers.
func isColumnLabelRow(text string) bool {
	if !headerTokenRe.MatchString(text) {
		return false
	}
	stripped := headerTokenRe.ReplaceAllString(text, " ")
	stripped = priceRe.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(stripped) == ""
}

// isDecorationRow reports whether the leading tokens are mostly separator
// glyphs (dashes, bullets, dots).
func isDecorationRow(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	glyphs, total := 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			glyphs++
		}
	}
	return total > 0 && glyphs*2 > total
}

// hasNameToken reports whether the row contains an alphabetic token long
// enough to be part of a wine name. Price annotations (gl, btl, glass,
// n/a, sizes) do not count.
func hasNameToken(text string) bool {
	text = headerTokenRe.ReplaceAllString(text, " ")
	text = glassHintRe.ReplaceAllString(text, " ")
	text = naRe.ReplaceAllString(text, " ")
	for _, word := range strings.Fields(text) {
		word = strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
		letters := 0
		for _, r := range word {
			if !unicode.IsLetter(r) {
				letters = 0
				break
			}
			letters++
		}
		if letters >= 3 {
			return true
		}
	}
	return false
}

// extractFields pulls candidate fields out of a NewItem row. The name is
// the row text with vintage and trailing price tokens removed; grape and
// region come from the controlled vocabularies. Unmatched content remains
// only in the raw text.
func extractFields(text string) ItemFields {
	var f ItemFields

	rest := text
	if m := vintageRe.FindStringSubmatch(rest); m != nil {
		year := parseYear(m[1])
		if year != nil {
			f.Vintage = year
			rest = strings.Replace(rest, m[0], " ", 1)
		}
	} else if m := shortVintageRe.FindStringSubmatch(rest); m != nil {
		year := atoi(m[1])
		f.Vintage = &year
		f.VintageShort = true
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	rest = stripTrailingAmounts(rest)
	name := strings.Trim(strings.Join(strings.Fields(rest), " "), "-–—·• ")
	if name != "" {
		f.Name = wine.StrPtr(name)
	}

	if grape, ok := matchVocab(text, grapeVocab); ok {
		f.Grape = wine.StrPtr(grape)
	}
	if region, ok := matchVocab(text, regionVocab); ok {
		f.Region = wine.StrPtr(region)
	}
	return f
}

// stripTrailingAmounts removes up to two price/N-A tokens from the end of
// the row so they do not pollute the name.
func stripTrailingAmounts(text string) string {
	type span struct{ start, end int }
	var spans []span
	for _, m := range naRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{m[0], m[1]})
	}
	for _, m := range priceRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{m[0], m[1]})
	}
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	if len(spans) > 2 {
		spans = spans[len(spans)-2:]
	}
	for i := len(spans) - 1; i >= 0; i-- {
		if strings.TrimSpace(strings.Trim(text[spans[i].end:], " \t.:|/$€£")) != "" {
			break
		}
		text = text[:spans[i].start] + " " + text[spans[i].end:]
	}
	return text
}

func parseYear(s string) *int {
	year := atoi(s)
	if year < minVintageYear || year > maxVintageYear() {
		return nil
	}
	return &year
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
