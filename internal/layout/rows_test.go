package layout

import (
	"reflect"
	"testing"
)

func tok(text string, x0, y0, x1, y1 float64) Token {
	return Token{Text: text, Box: Box{X0: x0, Y0: y0, X1: x1, Y1: y1}, Confidence: 0.9}
}

func TestBuildRows_EmptyInput(t *testing.T) {
	rows := BuildRows(nil, DefaultOverlapRatio)
	if len(rows) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(rows))
	}
}

func TestBuildRows_OutOfOrderTokensSameLine(t *testing.T) {
	// OCR returned the price column before the name column.
	tokens := []Token{
		tok("12.50", 400, 101, 440, 119),
		tok("Margaux", 90, 100, 180, 120),
		tok("Château", 10, 100, 80, 120),
	}
	rows := BuildRows(tokens, DefaultOverlapRatio)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0].Text(); got != "Château Margaux 12.50" {
		t.Errorf("expected left-to-right join, got %q", got)
	}
}

func TestBuildRows_SeparateLines(t *testing.T) {
	tokens := []Token{
		tok("Bordeaux", 10, 140, 100, 160),
		tok("RED", 10, 20, 50, 40),
		tok("WINES", 60, 20, 130, 40),
		tok("Château", 10, 100, 80, 120),
	}
	rows := BuildRows(tokens, DefaultOverlapRatio)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []string{"RED WINES", "Château", "Bordeaux"}
	for i, w := range want {
		if rows[i].Text() != w {
			t.Errorf("row[%d]: expected %q, got %q", i, w, rows[i].Text())
		}
	}
}

func TestBuildRows_TokenConservation(t *testing.T) {
	tokens := []Token{
		tok("a", 0, 0, 10, 10),
		tok("b", 20, 2, 30, 12),
		tok("c", 0, 50, 10, 60),
		tok("d", 5, 200, 15, 210),
		tok("e", 500, 1, 510, 11),
	}
	rows := BuildRows(tokens, DefaultOverlapRatio)
	total := 0
	for _, r := range rows {
		total += len(r.Tokens)
	}
	if total != len(tokens) {
		t.Fatalf("expected %d tokens across rows, got %d", len(tokens), total)
	}
}

func TestBuildRows_Deterministic(t *testing.T) {
	tokens := []Token{
		tok("one", 0, 0, 40, 20),
		tok("two", 50, 1, 90, 21),
		tok("three", 0, 30, 40, 50),
		tok("four", 50, 31, 90, 51),
	}
	first := BuildRows(tokens, DefaultOverlapRatio)
	second := BuildRows(tokens, DefaultOverlapRatio)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical row boundaries on re-run")
	}
}

func TestBuildRows_ReadingOrderPreserved(t *testing.T) {
	// "above" sits more than one band height above "below"; its row must
	// come first regardless of input order.
	tokens := []Token{
		tok("below", 10, 100, 60, 120),
		tok("above", 10, 10, 60, 30),
	}
	rows := BuildRows(tokens, DefaultOverlapRatio)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Text() != "above" || rows[1].Text() != "below" {
		t.Errorf("expected reading order [above below], got [%s %s]", rows[0].Text(), rows[1].Text())
	}
}

func TestBuildRows_UngroupableTokenBecomesSingletonRow(t *testing.T) {
	tokens := []Token{
		tok("line", 10, 10, 60, 30),
		tok("stray", 10, 500, 60, 520),
	}
	rows := BuildRows(tokens, DefaultOverlapRatio)
	if len(rows) != 2 {
		t.Fatalf("expected singleton row for stray token, got %d rows", len(rows))
	}
	if len(rows[1].Tokens) != 1 || rows[1].Text() != "stray" {
		t.Errorf("expected stray singleton, got %q", rows[1].Text())
	}
}

func TestBuildRows_TieBreakPrefersClosestCenter(t *testing.T) {
	// Two stacked rows both overlap the newcomer fully (ratio 1 for each);
	// the geometrically closer center must win.
	tokens := []Token{
		tok("upper", 0, 0, 50, 40),
		tok("lower", 0, 38, 50, 78),
		tok("join", 60, 40, 100, 60),
	}
	rows := BuildRows(tokens, 0.5)
	var joined string
	for _, r := range rows {
		for _, tk := range r.Tokens {
			if tk.Text == "join" {
				joined = r.Tokens[0].Text
			}
		}
	}
	if joined != "lower" {
		t.Errorf("expected token to join the closer row (lower), joined %q", joined)
	}
}

func TestVerticalOverlapRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b Box
		want float64
	}{
		{name: "disjoint", a: Box{0, 0, 10, 10}, b: Box{0, 20, 10, 30}, want: 0},
		{name: "identical", a: Box{0, 0, 10, 10}, b: Box{0, 0, 10, 10}, want: 1},
		{name: "half", a: Box{0, 0, 10, 10}, b: Box{0, 5, 10, 15}, want: 0.5},
		{name: "contained", a: Box{0, 0, 10, 100}, b: Box{0, 40, 10, 50}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.VerticalOverlapRatio(tc.b); got != tc.want {
				t.Errorf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestJoinText(t *testing.T) {
	rows := BuildRows([]Token{
		tok("RED", 0, 0, 30, 20),
		tok("Margaux", 0, 40, 80, 60),
	}, DefaultOverlapRatio)
	if got := JoinText(rows); got != "RED\nMargaux" {
		t.Errorf("got %q", got)
	}
}
