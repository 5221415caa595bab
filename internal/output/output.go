package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"pagescrape/internal/scraper"
)

// WriteCSV writes content as CSV to path, replacing any existing file.
// Empty content is reported in the log and no file is created.
func WriteCSV(content scraper.Content, path string) error {
	data := content.Data()
	if data.Empty() {
		log.Warn("No data to save. Please check the selectors.")
		return nil
	}
	warnUneven(data, len(content.Rows()))

	csvText, err := content.ToCSV()
	if err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	log.Infof("Saving data to %s...", path)
	if err := os.WriteFile(path, []byte(csvText), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	log.Infof("Data saved to %s successfully!", path)
	return nil
}

// warnUneven reports fields whose value count differs from the row count.
func warnUneven(data *scraper.Data, rows int) {
	if !data.Uneven() {
		return
	}
	log.Warn("Selectors matched different numbers of elements",
		"counts", data.DescribeCounts(),
		"rows", rows,
	)
}
