package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/titanous/json5"

	"pagescrape/internal/scraper"
)

// File is the on-disk (JSON5) form of a scrape configuration.
type File struct {
	Site        string          `json:"site"`
	URL         string          `json:"url"`
	Fields      []scraper.Field `json:"fields"`
	Output      string          `json:"output"`
	Timeout     string          `json:"timeout"`
	UserAgent   string          `json:"user_agent"`
	Mismatch    string          `json:"mismatch"`
	Format      string          `json:"format"`
	SQLite      string          `json:"sqlite"`
	SQLiteTable string          `json:"sqlite_table"`
}

// ReadConfig reads name and merges <base>.local.<ext> over it when present.
// Values in the local file win; a non-empty field list replaces the base
// list as a whole. os.ErrNotExist is returned if neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localPath := localName(name)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override T
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		log.Debug("merging config with local overrides", "local", localPath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// localName turns "dir/scrape.json5" into "dir/scrape.local.json5".
func localName(name string) string {
	dir, base := filepath.Split(name)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}
