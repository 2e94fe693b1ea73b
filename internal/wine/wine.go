// Package wine defines the line-item data model produced by menu analysis.
package wine

// Price holds the monetary amounts found for a single menu entry. Nil means
// the amount was absent or not confidently extractable; it is never guessed.
type Price struct {
	Currency *string  `json:"currency"`
	Glass    *float64 `json:"glass"`
	Bottle   *float64 `json:"bottle"`
}

// FlagUnknown marks a value as explicitly missing or ambiguous.
const FlagUnknown = "unknown"

// Item is one structured wine entry built from one or more menu rows.
// RawText always preserves the source text verbatim; derived fields are nil
// plus a confidence flag when absent or ambiguous.
type Item struct {
	ID      string `json:"id"`
	RawText string `json:"rawText"`

	// Section is the group header the item was parsed under (e.g. "Red
	// Wines"). WineGroup mirrors it for older consumers of the API.
	Section   *string `json:"section"`
	WineGroup *string `json:"wineGroup"`

	Name     *string `json:"name"`
	Producer *string `json:"producer"`
	Region   *string `json:"region"`
	Vintage  *int    `json:"vintage"`
	Grape    *string `json:"grape"`

	// Description is filled by enrichment only.
	Description *string `json:"description"`

	Price Price `json:"price"`

	// Flags records fields that were present-but-ambiguous or absent,
	// mapped to FlagUnknown.
	Flags map[string]string `json:"confidenceFlags,omitempty"`
}

// Flag records a field-level confidence flag on the item.
func (it *Item) Flag(field, value string) {
	if it.Flags == nil {
		it.Flags = make(map[string]string)
	}
	it.Flags[field] = value
}

// SetSection sets both the section and its wineGroup alias.
func (it *Item) SetSection(label *string) {
	it.Section = label
	it.WineGroup = label
}

// Analysis is the full result of one menu analysis run.
type Analysis struct {
	RawText string  `json:"rawText"`
	Wines   []*Item `json:"wines"`

	// EnrichmentFailed reports a batch-level enrichment failure. The base
	// result is always complete regardless of this flag.
	EnrichmentFailed bool `json:"enrichmentFailed,omitempty"`
}

// StrPtr returns a pointer to s, for optional fields.
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to n, for optional fields.
func IntPtr(n int) *int { return &n }

// FloatPtr returns a pointer to f, for optional fields.
func FloatPtr(f float64) *float64 { return &f }
