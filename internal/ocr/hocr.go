package ocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"winescan/internal/layout"
)

// ParseHOCR extracts word tokens from Tesseract hOCR output. Each
// ocrx_word span carries its bounding box and confidence in the title
// attribute ("bbox x0 y0 x1 y1; x_wconf 95"). Words with an unparsable
// title are skipped rather than failing the page.
func ParseHOCR(src string) ([]layout.Token, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}

	var tokens []layout.Token
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if tok, ok := wordToken(n); ok {
				tokens = append(tokens, tok)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tokens, nil
}

func wordToken(n *html.Node) (layout.Token, bool) {
	box, conf, ok := parseTitle(attr(n, "title"))
	if !ok {
		return layout.Token{}, false
	}
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return layout.Token{}, false
	}
	return layout.Token{Text: text, Box: box, Confidence: conf}, true
}

// parseTitle decodes the hOCR title property list. Only bbox and x_wconf
// are used; everything else is ignored.
func parseTitle(title string) (layout.Box, float64, bool) {
	var box layout.Box
	conf := -1.0
	haveBox := false
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				continue
			}
			coords := make([]float64, 4)
			ok := true
			for i, f := range fields[1:] {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					ok = false
					break
				}
				coords[i] = v
			}
			if ok {
				box = layout.Box{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}
				haveBox = true
			}
		case "x_wconf":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					conf = v / 100.0
				}
			}
		}
	}
	return box, conf, haveBox
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
