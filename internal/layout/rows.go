// Package layout reconstructs reading-order text rows from positioned OCR
// tokens. Raw token order from OCR engines on photographed menus is
// frequently non-linear (column drift, skew, multi-column layouts), so rows
// are rebuilt from geometry alone.
package layout

import (
	"math"
	"sort"
	"strings"
)

// Token is one OCR-recognized text fragment with its bounding box and the
// engine's confidence in [0, 1]. Tokens are immutable once produced.
type Token struct {
	Text       string
	Box        Box
	Confidence float64
}

// Row is a horizontally-ordered cluster of tokens sharing a vertical band,
// approximating one printed line. Read-only after construction.
type Row struct {
	Tokens []Token
	Box    Box
}

// Text joins the row's token texts left-to-right with single spaces.
func (r Row) Text() string {
	parts := make([]string, len(r.Tokens))
	for i, tok := range r.Tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

// CenterY returns the vertical center of the row's bounding box.
func (r Row) CenterY() float64 { return r.Box.CenterY() }

// DefaultOverlapRatio is the minimum vertical band overlap (as a fraction
// of the smaller box height) for a token to join an existing row.
const DefaultOverlapRatio = 0.5

// BuildRows clusters tokens into reading-order rows. Every input token
// appears in exactly one output row; a token that overlaps no existing row
// becomes (the start of) a new one. Empty input yields an empty slice.
func BuildRows(tokens []Token, overlapRatio float64) []Row {
	if len(tokens) == 0 {
		return nil
	}
	if overlapRatio <= 0 || overlapRatio > 1 {
		overlapRatio = DefaultOverlapRatio
	}

	// Sort by top edge so rows are opened in top-to-bottom order. The sort
	// is stable with an X tie-break to keep output deterministic for
	// identical geometry.
	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Y0 != sorted[j].Box.Y0 {
			return sorted[i].Box.Y0 < sorted[j].Box.Y0
		}
		return sorted[i].Box.X0 < sorted[j].Box.X0
	})

	var rows []Row
	for _, tok := range sorted {
		idx := bestRow(rows, tok, overlapRatio)
		if idx < 0 {
			rows = append(rows, Row{Tokens: []Token{tok}, Box: tok.Box})
			continue
		}
		rows[idx].Tokens = append(rows[idx].Tokens, tok)
		rows[idx].Box = rows[idx].Box.Union(tok.Box)
	}

	for i := range rows {
		toks := rows[i].Tokens
		sort.SliceStable(toks, func(a, b int) bool {
			return toks[a].Box.X0 < toks[b].Box.X0
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CenterY() < rows[j].CenterY()
	})
	return rows
}

// bestRow picks the open row whose vertical band overlaps the token by at
// least the threshold, preferring the strongest overlap and breaking ties
// by nearest vertical center. Returns -1 when no row qualifies.
func bestRow(rows []Row, tok Token, overlapRatio float64) int {
	best := -1
	bestOverlap := 0.0
	bestDist := math.MaxFloat64
	for i := range rows {
		ov := rows[i].Box.VerticalOverlapRatio(tok.Box)
		if ov < overlapRatio {
			continue
		}
		dist := math.Abs(rows[i].CenterY() - tok.Box.CenterY())
		if ov > bestOverlap || (ov == bestOverlap && dist < bestDist) {
			best = i
			bestOverlap = ov
			bestDist = dist
		}
	}
	return best
}

// JoinText concatenates all row texts in reading order, one line per row.
func JoinText(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Text()
	}
	return strings.Join(lines, "\n")
}
