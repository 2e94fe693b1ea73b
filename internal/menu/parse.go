// Package menu turns reading-order rows into structured wine line items:
// row classification, a small parse state machine, price association, and
// field normalization.
package menu

import (
	"strconv"
	"strings"
	"time"

	"winescan/internal/layout"
	"winescan/internal/wine"
)

const minVintageYear = 1900

func maxVintageYear() int { return time.Now().Year() + 1 }

// ParseRows runs the classifier over rows in reading order, maintaining the
// current section and the open item, and returns the items in the same
// order. A continuation with no open item is dropped: OCR commonly detaches
// a price column from its name column on skewed photos.
func ParseRows(rows []layout.Row) []*wine.Item {
	var (
		items   []*wine.Item
		section *string
		open    *wine.Item
		// Accumulated raw row texts for the open item, in arrival order.
		openRows []string
	)

	closeOpen := func() {
		if open == nil {
			return
		}
		open.RawText = strings.Join(openRows, "\n")
		AssociatePrices(open, openRows)
		flagMissing(open)
		items = append(items, open)
		open = nil
		openRows = nil
	}

	for _, row := range rows {
		text := row.Text()
		c := Classify(text)
		switch c.Kind {
		case KindSectionHeader:
			closeOpen()
			label := c.Section
			section = &label
		case KindNewItem:
			closeOpen()
			open = newItem(text, section, c.Fields)
			openRows = []string{text}
		case KindContinuation:
			if open == nil {
				continue
			}
			openRows = append(openRows, text)
			mergeFields(open, c.Fields)
		case KindNoise:
			// Decoration and column labels produce nothing.
		}
	}
	closeOpen()

	for i, it := range items {
		it.ID = strconv.Itoa(i + 1)
	}
	return items
}

func newItem(text string, section *string, f ItemFields) *wine.Item {
	it := &wine.Item{RawText: text}
	it.SetSection(section)
	it.Name = f.Name
	it.Grape = f.Grape
	it.Region = f.Region
	if f.Vintage != nil {
		v := *f.Vintage
		it.Vintage = &v
	}
	return it
}

// mergeFields fills gaps on the open item from a continuation row's
// partial fields; existing values are never overwritten.
func mergeFields(it *wine.Item, f ItemFields) {
	if it.Region == nil && f.Region != nil {
		it.Region = f.Region
	}
	if it.Grape == nil && f.Grape != nil {
		it.Grape = f.Grape
	}
	if it.Vintage == nil && f.Vintage != nil {
		v := *f.Vintage
		it.Vintage = &v
	}
}

// flagMissing records a confidence flag for every field that stayed nil.
// The parser never guesses a value to fill a gap.
func flagMissing(it *wine.Item) {
	if it.Name == nil {
		it.Flag("name", wine.FlagUnknown)
	}
	if it.Vintage == nil {
		it.Flag("vintage", wine.FlagUnknown)
	}
	if it.Grape == nil {
		it.Flag("grape", wine.FlagUnknown)
	}
	if it.Region == nil {
		it.Flag("region", wine.FlagUnknown)
	}
	if it.Producer == nil {
		it.Flag("producer", wine.FlagUnknown)
	}
}
