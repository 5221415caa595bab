package scraper

import (
	"context"
	"time"
)

type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

// Preset is a Scraper that knows its own target page and fields.
// Values set in Options take precedence over the preset defaults.
type Preset interface {
	Scraper
	Description() string
	Defaults() Options
}

type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
	ToTable() (string, error)

	// Data returns the extracted values backing this content.
	Data() *Data
	// Rows returns the transposed values, one row per element index.
	Rows() [][]string
}

// Field binds an output column name to a CSS selector.
type Field struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

type Options struct {
	URL       string // default target, used by presets only
	Fields    []Field
	Output    string // CSV path
	Timeout   time.Duration
	UserAgent string
	Mismatch  MismatchPolicy
}

// WithDefaults fills every unset option from d.
func (o Options) WithDefaults(d Options) Options {
	if o.URL == "" {
		o.URL = d.URL
	}
	if len(o.Fields) == 0 {
		o.Fields = d.Fields
	}
	if o.Output == "" {
		o.Output = d.Output
	}
	if o.Timeout == 0 {
		o.Timeout = d.Timeout
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.Mismatch == "" {
		o.Mismatch = d.Mismatch
	}
	return o
}
