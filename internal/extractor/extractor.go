package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagescrape/internal/scraper"
)

// Extractor content extractor
type Extractor struct {
	doc *goquery.Document
}

// NewExtractor parses page into a document tree.
func NewExtractor(page []byte) (*Extractor, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Extractor{doc: doc}, nil
}

// Extract collects the trimmed text of every element matching each field's
// selector. Fields are visited in order and the result keeps that order.
// A selector that matches nothing yields an empty value list.
func (e *Extractor) Extract(source string, fields []scraper.Field) *scraper.Data {
	data := scraper.NewData(source)
	for _, f := range fields {
		data.Add(f.Name, e.extractByCSS(f.Selector))
	}
	return data
}

// Title returns the trimmed document title, if any.
func (e *Extractor) Title() string {
	return strings.TrimSpace(e.doc.Find("title").First().Text())
}

func (e *Extractor) extractByCSS(selector string) []string {
	values := []string{}
	e.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		values = append(values, strings.TrimSpace(s.Text()))
	})
	return values
}
