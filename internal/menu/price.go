package menu

import (
	"regexp"
	"strconv"
	"strings"

	"winescan/internal/wine"
)

// Price tokens on real menus: 12, 12.5, 12,5, $12, €12.5, £45.
var priceRe = regexp.MustCompile(`([$€£])?\s*(\d{1,4}(?:[.,]\d{1,2})?)`)

var vintageRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// Short-form vintages like '18 or ’95.
var shortVintageRe = regexp.MustCompile(`['’](\d{2})\b`)

// Explicit missing-value markers consuming a price column slot.
var naRe = regexp.MustCompile(`(?i)\b(?:na|n/a|n\.a\.|none|nil)\b`)

// Tokens indicating a by-the-glass amount.
var glassHintRe = regexp.MustCompile(`(?i)\b(?:gl|glass|btg)\b`)

// Column-header tokens that appear to the right of group headers
// ("Glass Bottle 175ml"); these must not turn a header into an item row.
var headerTokenRe = regexp.MustCompile(`(?i)\b(?:glass|bottle|btg|btl|ml|cl|oz|\d{2,4}\s?(?:ml|cl|oz))\b`)

// Typical menu price range; keeps sizes like "175ml" from parsing as 175.
const (
	minPlausiblePrice = 1.0
	maxPlausiblePrice = 500.0
)

// amount is one price-column token in reading order. Value is nil for an
// explicit N/A marker, which still consumes a column slot.
type amount struct {
	value    *float64
	currency string
	pos      int
}

// extractAmounts finds price-column tokens in a row, skipping vintage spans
// and rejecting implausible values unless an explicit currency symbol vouches
// for them. Returns the first currency symbol seen and the ordered amounts.
func extractAmounts(text string) (currency string, amounts []amount) {
	vintageSpans := vintageRe.FindAllStringIndex(text, -1)
	vintageSpans = append(vintageSpans, shortVintageRe.FindAllStringIndex(text, -1)...)
	insideVintage := func(start int) bool {
		for _, span := range vintageSpans {
			if span[0] <= start && start < span[1] {
				return true
			}
		}
		return false
	}

	for _, span := range naRe.FindAllStringIndex(text, -1) {
		amounts = append(amounts, amount{pos: span[0]})
	}

	hasHeaderTokens := headerTokenRe.MatchString(text)
	for _, m := range priceRe.FindAllStringSubmatchIndex(text, -1) {
		if insideVintage(m[0]) {
			continue
		}
		cur := ""
		if m[2] >= 0 {
			cur = text[m[2]:m[3]]
		}
		raw := strings.ReplaceAll(text[m[4]:m[5]], ",", ".")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if cur == "" && (val < minPlausiblePrice || val > maxPlausiblePrice) {
			continue
		}
		if cur == "" && hasHeaderTokens && sizeSuffix(text, m[5]) {
			continue
		}
		if currency == "" {
			currency = cur
		}
		amounts = append(amounts, amount{value: &val, currency: cur, pos: m[0]})
	}

	// Reading order across both kinds of slots.
	for i := 1; i < len(amounts); i++ {
		for j := i; j > 0 && amounts[j].pos < amounts[j-1].pos; j-- {
			amounts[j], amounts[j-1] = amounts[j-1], amounts[j]
		}
	}
	return currency, amounts
}

// sizeSuffix reports whether a number is immediately followed by a pour or
// bottle size unit (e.g. the 175 in "175ml").
func sizeSuffix(text string, end int) bool {
	rest := strings.TrimLeft(text[end:], " ")
	for _, unit := range []string{"ml", "cl", "oz"} {
		if strings.HasPrefix(strings.ToLower(rest), unit) {
			return true
		}
	}
	return false
}

// hasPriceToken reports whether the row carries at least one numeric token
// that passes the price pattern and plausibility rules.
func hasPriceToken(text string) bool {
	_, amounts := extractAmounts(text)
	for _, a := range amounts {
		if a.value != nil {
			return true
		}
	}
	return false
}

// AssociatePrices extracts the monetary amounts from an item's accumulated
// row texts and binds them to glass and bottle. Absence of any amount is
// expected ("market price" entries) and flags the fields, never errors.
func AssociatePrices(item *wine.Item, rowTexts []string) {
	var slots []amount
	glassHint := false
	for _, text := range rowTexts {
		cur, amounts := extractAmounts(text)
		if cur != "" && item.Price.Currency == nil {
			item.Price.Currency = wine.StrPtr(cur)
		}
		if glassHintRe.MatchString(text) {
			glassHint = true
		}
		slots = append(slots, amounts...)
	}

	var values []float64
	naBeforeFirstValue := false
	for _, s := range slots {
		if s.value == nil {
			if len(values) == 0 {
				naBeforeFirstValue = true
			}
			continue
		}
		values = append(values, *s.value)
	}

	switch {
	case len(values) >= 2:
		// Magnitude, not position, decides: glass pours cost less than
		// bottles on any menu template.
		lo, hi := values[0], values[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		item.Price.Glass = wine.FloatPtr(lo)
		item.Price.Bottle = wine.FloatPtr(hi)
	case len(values) == 1:
		switch {
		case glassHint && !naBeforeFirstValue:
			item.Price.Glass = wine.FloatPtr(values[0])
		default:
			// A leading N/A already consumed the glass column, or no
			// glass indicator is present: the amount is a bottle price.
			item.Price.Bottle = wine.FloatPtr(values[0])
		}
	}

	if item.Price.Glass == nil {
		item.Flag("price.glass", wine.FlagUnknown)
	}
	if item.Price.Bottle == nil {
		item.Flag("price.bottle", wine.FlagUnknown)
	}
	if item.Price.Currency == nil {
		item.Flag("price.currency", wine.FlagUnknown)
	}
}
