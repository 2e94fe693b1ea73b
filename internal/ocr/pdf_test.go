package ocr

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func frag(s string, x, y, w float64) pdflib.Text {
	return pdflib.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func TestPageTokens_MergesFragmentsIntoWords(t *testing.T) {
	// "Barolo 45" laid out as per-character fragments on one baseline.
	texts := []pdflib.Text{
		frag("B", 10, 700, 6), frag("a", 16, 700, 5), frag("r", 21, 700, 4),
		frag("o", 25, 700, 5), frag("l", 30, 700, 3), frag("o", 33, 700, 5),
		frag(" ", 38, 700, 3),
		frag("4", 50, 700, 5), frag("5", 55, 700, 5),
	}

	tokens := pageTokens(texts, 0)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Text != "Barolo" || tokens[1].Text != "45" {
		t.Errorf("texts: got %q, %q", tokens[0].Text, tokens[1].Text)
	}
	if tokens[0].Box.X0 != 10 || tokens[0].Box.X1 != 38 {
		t.Errorf("word box X: got %+v", tokens[0].Box)
	}
	// PDF Y grows upward; token geometry must be top-left origin.
	if tokens[0].Box.Y1 != -700 || tokens[0].Box.Y0 != -710 {
		t.Errorf("word box Y: got %+v", tokens[0].Box)
	}
}

func TestPageTokens_SplitsLines(t *testing.T) {
	texts := []pdflib.Text{
		frag("Barolo", 10, 700, 30),
		frag("Piedmont", 10, 680, 40),
	}

	tokens := pageTokens(texts, 0)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	// The higher PDF Y is the earlier line after flipping.
	if tokens[0].Text != "Barolo" || tokens[1].Text != "Piedmont" {
		t.Errorf("line order: got %q, %q", tokens[0].Text, tokens[1].Text)
	}
	if tokens[0].Box.Y0 >= tokens[1].Box.Y0 {
		t.Errorf("expected first line above second: %v vs %v", tokens[0].Box.Y0, tokens[1].Box.Y0)
	}
}

func TestPageTokens_PageOffsetStacks(t *testing.T) {
	texts := []pdflib.Text{frag("Barolo", 10, 700, 30)}

	page1 := pageTokens(texts, 0)
	page2 := pageTokens(texts, pageYStride)
	if page2[0].Box.Y0 <= page1[0].Box.Y0 {
		t.Errorf("expected later page below earlier: %v vs %v", page2[0].Box.Y0, page1[0].Box.Y0)
	}
}

func TestPageTokens_WideGapSplitsColumns(t *testing.T) {
	texts := []pdflib.Text{
		frag("Barolo", 10, 700, 30),
		frag("45", 300, 700, 10),
	}

	tokens := pageTokens(texts, 0)
	if len(tokens) != 2 {
		t.Fatalf("expected gap to split tokens, got %d: %v", len(tokens), tokens)
	}
}
