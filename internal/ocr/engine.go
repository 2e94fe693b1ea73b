// Package ocr turns menu uploads into positioned text tokens.
//
// Two sources feed the layout stage: Tesseract for photographed menus
// (via gosseract; requires the tesseract binary and language data on the
// system) and the PDF text layer for digital menus. Both produce the same
// token shape so the downstream pipeline never knows which one ran.
package ocr

import (
	"context"

	"winescan/internal/layout"
)

// Engine recognizes positioned words in an uploaded document.
type Engine interface {
	Recognize(ctx context.Context, data []byte) ([]layout.Token, error)
}
