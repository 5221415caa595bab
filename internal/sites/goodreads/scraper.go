package goodreads

import (
	"context"

	"pagescrape/internal/scraper"
	"pagescrape/internal/sites/generic"
)

func init() {
	scraper.Register(&GoodreadsScraper{})
}

const listURL = "https://www.goodreads.com/list/show/9440.100_Best_Books_of_All_Time_The_World_Library_List"

// GoodreadsScraper extracts title, author and rating from a Goodreads list page.
type GoodreadsScraper struct{}

func (s *GoodreadsScraper) Name() string { return "goodreads" }

func (s *GoodreadsScraper) Description() string {
	return "Goodreads list: title, author and rating of every book"
}

func (s *GoodreadsScraper) Defaults() scraper.Options {
	return scraper.Options{
		URL: listURL,
		Fields: []scraper.Field{
			{Name: "Title", Selector: ".bookTitle"},
			{Name: "Author", Selector: ".authorName"},
			{Name: "Rating", Selector: ".minirating"},
		},
		Output: "your_books.csv",
	}
}

// Scrape scrapes target, or the "100 Best Books of All Time" list when target is empty.
func (s *GoodreadsScraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	opts = opts.WithDefaults(s.Defaults())
	if target == "" {
		target = opts.URL
	}
	return generic.NewGenericScraper().Scrape(ctx, target, opts)
}
