package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"pagescrape/internal/scraper"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "markdown", "html", "json", "csv", "table"}

func Format(content scraper.Content, format string) (string, error) {
	switch strings.ToLower(format) {
	case "html":
		return content.ToHTML()
	case "text", "":
		return content.ToText()
	case "markdown":
		return content.ToMarkdown()
	case "csv":
		return content.ToCSV()
	case "table":
		return content.ToTable()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// Display writes content to w in the given format. Empty content is
// reported in the log and nothing is written.
func Display(w io.Writer, content scraper.Content, format string) error {
	if content.Data().Empty() {
		log.Warn("No data to display. Please check the selectors.")
		return nil
	}

	out, err := Format(content, format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Valid reports whether format is one of Formats.
func Valid(format string) bool {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
