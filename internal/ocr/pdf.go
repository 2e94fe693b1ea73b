package ocr

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"winescan/internal/layout"
)

// pageYStride separates pages on the shared Y axis so rows from different
// pages can never cluster together.
const pageYStride = 100000.0

// PDFText reads the text layer of a digital PDF menu, producing word
// tokens with the same top-left-origin geometry the Tesseract engine
// emits. Scanned PDFs without a text layer come back empty.
type PDFText struct{}

func NewPDFText() *PDFText { return &PDFText{} }

func (p *PDFText) Recognize(ctx context.Context, data []byte) ([]layout.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var tokens []layout.Token
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		tokens = append(tokens, pageTokens(content.Text, float64(i-1)*pageYStride)...)
	}
	return tokens, nil
}

// pageTokens merges the page's character fragments into word tokens. PDF
// coordinates grow upward, so Y is negated to match the top-left origin
// of the OCR path; yOffset stacks pages below each other.
func pageTokens(texts []pdflib.Text, yOffset float64) []layout.Token {
	frags := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		frags = append(frags, t)
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y // higher on page first
		}
		return frags[i].X < frags[j].X
	})

	var tokens []layout.Token
	var word strings.Builder
	var x0, x1, baseline, size float64

	flush := func() {
		text := strings.TrimSpace(word.String())
		if text != "" {
			tokens = append(tokens, layout.Token{
				Text: text,
				Box: layout.Box{
					X0: x0,
					Y0: yOffset - baseline - size,
					X1: x1,
					Y1: yOffset - baseline,
				},
				Confidence: -1,
			})
		}
		word.Reset()
	}

	for _, f := range frags {
		gapLimit := f.FontSize * 0.3
		if gapLimit <= 0 {
			gapLimit = 1
		}
		sameLine := word.Len() > 0 && absFloat(f.Y-baseline) <= f.FontSize*0.2
		if strings.TrimSpace(f.S) == "" {
			flush()
			continue
		}
		if !sameLine || f.X-x1 > gapLimit {
			flush()
			x0 = f.X
			baseline = f.Y
			size = f.FontSize
		}
		word.WriteString(f.S)
		if end := f.X + f.W; end > x1 || word.Len() == len(f.S) {
			x1 = end
		}
		if f.FontSize > size {
			size = f.FontSize
		}
	}
	flush()
	return tokens
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
