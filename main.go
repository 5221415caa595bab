package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pagescrape/internal/config"
	"pagescrape/internal/formatter"
	"pagescrape/internal/output"
	"pagescrape/internal/scraper"
	generic "pagescrape/internal/sites/generic"
	_ "pagescrape/internal/sites/goodreads"
	_ "pagescrape/internal/sites/rxdrugs"
)

var version = "dev"

type flags struct {
	site        string
	configPath  string
	fields      []string
	output      string
	timeout     time.Duration
	userAgent   string
	format      string
	mismatch    string
	sqlite      string
	sqliteTable string
	noSave      bool
	quiet       bool
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:     "pagescrape [URL]",
		Short:   "Scrape named CSS-selector fields from one page into a CSV",
		Version: version,
		Long: `pagescrape fetches a single web page, collects the text of every element
matched by each named CSS selector, prints the values as numbered lists and
saves them as CSV rows (one column per field).`,
		Example: `  # Top books on Goodreads, saved to your_books.csv
  pagescrape --site goodreads

  # Top 100 drugs table, padded instead of truncated
  pagescrape --site rxdrugs --mismatch pad

  # Any page with ad-hoc fields
  pagescrape -F "Title=h2 a" -F "Price=.price" -o prices.csv https://example.com/shop

  # Fields and target from a JSON5 file, also stored in SQLite
  pagescrape -c scrape.json5 --sqlite scrape.db`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && f.site == "" && f.configPath == "" {
				return cmd.Help()
			}
			return run(cmd, args, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&f.site, "site", "", "Preset site (see 'pagescrape sites')")
	rootCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "JSON5 config file (<name>.local.<ext> overrides it)")
	rootCmd.Flags().StringArrayVarP(&f.fields, "field", "F", nil, "Field as name=selector (repeatable, order is kept)")
	rootCmd.Flags().StringVarP(&f.output, "output", "o", "", "CSV output path (default from preset, or "+config.DefaultOutput+")")
	rootCmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "Request timeout (default 30s)")
	rootCmd.Flags().StringVarP(&f.userAgent, "user-agent", "A", "", "User-Agent header (default desktop Chrome)")
	rootCmd.Flags().StringVarP(&f.format, "format", "f", "", "Display format (text, markdown, html, json, csv, table)")
	rootCmd.Flags().StringVar(&f.mismatch, "mismatch", "", "Uneven field lengths: truncate or pad (default truncate)")
	rootCmd.Flags().StringVar(&f.sqlite, "sqlite", "", "Also write rows to this SQLite database")
	rootCmd.Flags().StringVar(&f.sqliteTable, "sqlite-table", "", "SQLite table name (default "+output.DefaultTable+")")
	rootCmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not write the CSV file")
	rootCmd.PersistentFlags().BoolVarP(&f.quiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSitesCmd())
	return rootCmd
}

func newSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List preset sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderSites())
			return nil
		},
	}
}

func renderSites() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Description", "URL", "Output"})
	for _, name := range scraper.Names() {
		s, _ := scraper.Get(name)
		p, ok := s.(scraper.Preset)
		if !ok {
			t.AppendRow(table.Row{name, "", "", ""})
			continue
		}
		d := p.Defaults()
		t.AppendRow(table.Row{name, p.Description(), d.URL, d.Output})
	}
	t.SetStyle(table.StyleRounded)
	return t.Render()
}

func setupLogging(f *flags) error {
	level, err := log.ParseLevel(f.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", f.logLevel)
	}
	if f.quiet && level < log.WarnLevel {
		level = log.WarnLevel
	}
	log.SetLevel(level)
	return nil
}

// buildSettings layers config file, environment and changed flags.
func buildSettings(cmd *cobra.Command, args []string, f *flags) (config.Settings, error) {
	s, err := config.Load(f.configPath)
	if err != nil {
		return s, err
	}
	s.ApplyEnv()

	changed := cmd.Flags().Changed
	if len(args) > 0 {
		s.URL = args[0]
	}
	if changed("site") {
		s.Site = f.site
	}
	if changed("field") {
		fields := make([]scraper.Field, 0, len(f.fields))
		for _, raw := range f.fields {
			field, err := config.ParseField(raw)
			if err != nil {
				return s, err
			}
			fields = append(fields, field)
		}
		s.Fields = fields
	}
	if changed("output") {
		s.Output = f.output
	}
	if changed("timeout") {
		s.Timeout = f.timeout
	}
	if changed("user-agent") {
		s.UserAgent = f.userAgent
	}
	if changed("format") {
		s.Format = f.format
	}
	if changed("mismatch") {
		p, err := scraper.ParseMismatchPolicy(f.mismatch)
		if err != nil {
			return s, err
		}
		s.Mismatch = p
	}
	if changed("sqlite") {
		s.SQLite = f.sqlite
	}
	if changed("sqlite-table") {
		s.SQLiteTable = f.sqliteTable
	}
	return s, nil
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	s, err := buildSettings(cmd, args, f)
	if err != nil {
		return err
	}
	s, sc, err := s.Resolve()
	if err != nil {
		return err
	}
	if sc == nil {
		sc = generic.NewGenericScraper()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	content, err := scrape(ctx, sc, s)
	if err != nil {
		return err
	}

	if err := formatter.Display(cmd.OutOrStdout(), content, s.Format); err != nil {
		return err
	}
	if !f.noSave {
		if err := output.WriteCSV(content, s.Output); err != nil {
			return err
		}
	}
	if s.SQLite != "" {
		if err := output.WriteSQLite(ctx, content, s.SQLite, s.SQLiteTable); err != nil {
			return err
		}
	}
	return nil
}

func scrape(ctx context.Context, sc scraper.Scraper, s config.Settings) (scraper.Content, error) {
	stop := startProgress(isatty.IsTerminal(os.Stderr.Fd()), s.URL)
	defer stop()
	return sc.Scrape(ctx, s.URL, s.Options())
}

// startProgress shows a spinner on stderr when it is a terminal and logs
// the fetch otherwise. The returned func stops the spinner.
func startProgress(tty bool, url string) func() {
	if !tty || log.GetLevel() > log.InfoLevel {
		log.Info("Fetching page...", "url", url)
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " Fetching page... " + url
	sp.Start()
	return sp.Stop
}
