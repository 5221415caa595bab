package generic

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"pagescrape/internal/extractor"
	"pagescrape/internal/fetcher"
	"pagescrape/internal/scraper"
)

// GenericScraper generic scraper
type GenericScraper struct{}

// NewGenericScraper creates generic scraper instance
func NewGenericScraper() *GenericScraper {
	return &GenericScraper{}
}

// Name returns scraper name
func (g *GenericScraper) Name() string {
	return "generic"
}

// Scrape fetches target once and extracts opts.Fields from it.
// Fetch failures are returned unwrapped so callers can match
// *fetcher.StatusError and *fetcher.NetworkError.
func (g *GenericScraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	if target == "" {
		return nil, fmt.Errorf("target URL is required")
	}

	f := fetcher.New(fetcher.Config{
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
	})

	result, err := f.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	log.Debug("Fetched page", "url", result.URL, "bytes", len(result.Body), "load_time", result.LoadTime)

	if len(result.Body) == 0 {
		log.Warn("Page is empty, nothing to extract", "url", target)
		return NewPageContent(scraper.NewData(target), opts.Mismatch, ""), nil
	}

	ext, err := extractor.NewExtractor(result.Body)
	if err != nil {
		return nil, err
	}

	data := ext.Extract(target, opts.Fields)
	log.Debug("Extracted fields", "counts", data.DescribeCounts())

	return NewPageContent(data, opts.Mismatch, ext.Title()), nil
}
