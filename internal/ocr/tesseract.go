package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"winescan/internal/layout"
)

// Tesseract runs the system Tesseract engine over an uploaded image and
// reads word geometry from its hOCR output. A fresh gosseract client per
// call keeps Recognize safe for concurrent uploads.
type Tesseract struct {
	lang          string
	clientFactory func() *gosseract.Client
}

// NewTesseract builds a Tesseract engine for the given language string
// ("eng", or "+"-separated like "eng+fra"). Empty means gosseract's
// default.
func NewTesseract(lang string) *Tesseract {
	return &Tesseract{lang: lang, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Recognize(ctx context.Context, data []byte) ([]layout.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := t.clientFactory()
	defer c.Close()

	if t.lang != "" {
		if err := c.SetLanguage(t.lang); err != nil {
			return nil, fmt.Errorf("set language %q: %w", t.lang, err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	hocr, err := c.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	return ParseHOCR(hocr)
}
