package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/charmbracelet/log"

	"pagescrape/internal/fetcher"
	"pagescrape/internal/formatter"
	"pagescrape/internal/scraper"
)

const (
	EnvUserAgent = "PAGESCRAPE_USER_AGENT"
	EnvTimeout   = "PAGESCRAPE_TIMEOUT"
	EnvOutput    = "PAGESCRAPE_OUTPUT"

	// DefaultOutput is the CSV path used when neither the preset nor the
	// user names one.
	DefaultOutput = "scraped.csv"
	DefaultFormat = "text"
)

// Settings is the resolved configuration of one run. Layers are applied
// lowest first: preset defaults, config file, environment, flags.
type Settings struct {
	Site        string
	URL         string
	Fields      []scraper.Field
	Output      string
	Timeout     time.Duration
	UserAgent   string
	Mismatch    scraper.MismatchPolicy
	Format      string
	SQLite      string
	SQLiteTable string
}

// Load reads the config file at path. An empty path yields zero Settings.
func Load(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	f, err := ReadConfig[File](path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, fmt.Errorf("config file not found: %s", path)
		}
		return s, fmt.Errorf("failed to read config: %w", err)
	}
	if err := s.ApplyFile(f); err != nil {
		return s, err
	}
	return s, nil
}

// ApplyFile overrides s with every value set in f.
func (s *Settings) ApplyFile(f File) error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
		}
		s.Timeout = d
	}
	if f.Mismatch != "" {
		p, err := scraper.ParseMismatchPolicy(f.Mismatch)
		if err != nil {
			return err
		}
		s.Mismatch = p
	}
	s.Site = strOr(f.Site, s.Site)
	s.URL = strOr(f.URL, s.URL)
	s.Output = strOr(f.Output, s.Output)
	s.UserAgent = strOr(f.UserAgent, s.UserAgent)
	s.Format = strOr(f.Format, s.Format)
	s.SQLite = strOr(f.SQLite, s.SQLite)
	s.SQLiteTable = strOr(f.SQLiteTable, s.SQLiteTable)
	if len(f.Fields) > 0 {
		s.Fields = f.Fields
	}
	return nil
}

// ApplyEnv overrides s from the PAGESCRAPE_* environment variables.
// A timeout that does not parse is logged and ignored.
func (s *Settings) ApplyEnv() {
	s.UserAgent = envOr(EnvUserAgent, s.UserAgent)
	s.Timeout = envDurationOr(EnvTimeout, s.Timeout)
	s.Output = envOr(EnvOutput, s.Output)
}

// Resolve fills unset values from the preset named by s.Site, then from
// the built-in defaults, and validates the result.
func (s Settings) Resolve() (Settings, scraper.Scraper, error) {
	var sc scraper.Scraper
	if s.Site != "" {
		found, ok := scraper.Get(s.Site)
		if !ok {
			return s, nil, fmt.Errorf("unknown site: %s (available: %s)", s.Site, strings.Join(scraper.Names(), ", "))
		}
		sc = found
		if p, ok := found.(scraper.Preset); ok {
			s = s.withPreset(p.Defaults())
		}
	}

	s.URL = normalizeURL(s.URL)
	s.Output = strOr(s.Output, DefaultOutput)
	s.Format = strOr(s.Format, DefaultFormat)
	s.UserAgent = strOr(s.UserAgent, fetcher.DefaultUserAgent)
	if s.Timeout == 0 {
		s.Timeout = fetcher.DefaultTimeout
	}
	if s.Mismatch == "" {
		s.Mismatch = scraper.MismatchTruncate
	}

	if err := s.Validate(); err != nil {
		return s, nil, err
	}
	return s, sc, nil
}

func (s Settings) withPreset(d scraper.Options) Settings {
	o := s.Options().WithDefaults(d)
	s.URL = o.URL
	s.Fields = o.Fields
	s.Output = o.Output
	s.Timeout = o.Timeout
	s.UserAgent = o.UserAgent
	s.Mismatch = o.Mismatch
	return s
}

// Validate checks the settings without touching the network.
func (s Settings) Validate() error {
	if s.URL == "" {
		return errors.New("a URL is required (pass one, or use --site or --config)")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", s.Timeout)
	}
	if !formatter.Valid(s.Format) {
		return fmt.Errorf("invalid output format: %s (want one of %s)", s.Format, strings.Join(formatter.Formats, ", "))
	}
	if _, err := scraper.ParseMismatchPolicy(string(s.Mismatch)); err != nil {
		return err
	}
	return ValidateFields(s.Fields)
}

// ValidateFields rejects blank names, names that differ only in case and
// selectors that do not compile. An empty list is valid.
func ValidateFields(fields []scraper.Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field with selector %q has no name", f.Selector)
		}
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if seen[key] {
			return fmt.Errorf("duplicate field name: %s", f.Name)
		}
		seen[key] = true
		if _, err := cascadia.Compile(f.Selector); err != nil {
			return fmt.Errorf("invalid selector for field %s: %w", f.Name, err)
		}
	}
	return nil
}

// Options converts s into scrape options.
func (s Settings) Options() scraper.Options {
	return scraper.Options{
		URL:       s.URL,
		Fields:    s.Fields,
		Output:    s.Output,
		Timeout:   s.Timeout,
		UserAgent: s.UserAgent,
		Mismatch:  s.Mismatch,
	}
}

// ParseField parses a "name=selector" pair. The selector may itself
// contain '=' (attribute selectors); only the first one splits.
func ParseField(raw string) (scraper.Field, error) {
	name, selector, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	selector = strings.TrimSpace(selector)
	if !ok || name == "" || selector == "" {
		return scraper.Field{}, fmt.Errorf("invalid field %q (want name=selector)", raw)
	}
	return scraper.Field{Name: name, Selector: selector}, nil
}

func strOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		log.Warn("Ignoring invalid duration", "key", key, "value", v, "err", err)
	}
	return fallback
}

// normalizeURL adds http:// when rawURL has no scheme.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "http://" + rawURL
	}
	return rawURL
}
