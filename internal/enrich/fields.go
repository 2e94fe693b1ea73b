package enrich

import (
	"strings"

	"winescan/internal/wine"
)

// Fields is the partial enrichment payload for one wine name. All fields
// are optional; the backend returns null for anything it does not know.
type Fields struct {
	Producer    *string `json:"producer"`
	Region      *string `json:"region"`
	Grape       *string `json:"grape"`
	Vintage     *int    `json:"vintage"`
	Description *string `json:"description"`
}

// Apply fills the item's missing fields from the payload. Existing values
// are never overwritten, and filling a field clears its unknown flag.
// Implausible vintages are discarded.
func (f Fields) Apply(it *wine.Item) {
	if it.Producer == nil {
		if v := cleanStr(f.Producer); v != nil {
			it.Producer = v
			delete(it.Flags, "producer")
		}
	}
	if it.Region == nil {
		if v := cleanStr(f.Region); v != nil {
			it.Region = v
			delete(it.Flags, "region")
		}
	}
	if it.Grape == nil {
		if v := cleanStr(f.Grape); v != nil {
			it.Grape = v
			delete(it.Flags, "grape")
		}
	}
	if it.Description == nil {
		if v := cleanStr(f.Description); v != nil {
			it.Description = v
		}
	}
	if it.Vintage == nil && f.Vintage != nil && *f.Vintage >= 1900 && *f.Vintage <= 2100 {
		v := *f.Vintage
		it.Vintage = &v
		delete(it.Flags, "vintage")
	}
}

func cleanStr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
