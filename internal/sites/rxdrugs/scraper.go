package rxdrugs

import (
	"context"

	"pagescrape/internal/scraper"
	"pagescrape/internal/sites/generic"
)

func init() {
	scraper.Register(&RxDrugsScraper{})
}

const top100URL = "https://rxtechexam.com/top-100-drugs/"

// RxDrugsScraper reads the five columns of the rxtechexam top 100 drugs table.
type RxDrugsScraper struct{}

func (s *RxDrugsScraper) Name() string { return "rxdrugs" }

func (s *RxDrugsScraper) Description() string {
	return "rxtechexam top 100 drugs: generic, brand, indication, class and DEA schedule"
}

func (s *RxDrugsScraper) Defaults() scraper.Options {
	return scraper.Options{
		URL: top100URL,
		Fields: []scraper.Field{
			{Name: "Generic Name", Selector: ".column-1"},
			{Name: "Brand Name", Selector: ".column-2"},
			{Name: "Indication Name", Selector: ".column-3"},
			{Name: "Medication Name", Selector: ".column-4"},
			{Name: "DEA Name", Selector: ".column-5"},
		},
		Output: "imdb_data.csv",
	}
}

func (s *RxDrugsScraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	opts = opts.WithDefaults(s.Defaults())
	if target == "" {
		target = opts.URL
	}
	return generic.NewGenericScraper().Scrape(ctx, target, opts)
}
