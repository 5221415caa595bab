package output

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagescrape/internal/scraper"
	"pagescrape/internal/sites/generic"
)

func newContent(policy scraper.MismatchPolicy) scraper.Content {
	d := scraper.NewData("https://example.com")
	d.Add("A", []string{"a1", "a2", "a3"})
	d.Add("B", []string{"b1", "b2"})
	return generic.NewPageContent(d, policy, "")
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSVTruncates(t *testing.T) {
	logs := captureLog(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(newContent(scraper.MismatchTruncate), path))

	assert.Contains(t, logs.String(), "Selectors matched different numbers of elements")
	assert.Contains(t, logs.String(), "A=3 B=2")
	assert.Contains(t, logs.String(), "Data saved to "+path+" successfully!")

	expected := [][]string{
		{"A", "B"},
		{"a1", "b1"},
		{"a2", "b2"},
	}
	if diff := cmp.Diff(expected, readCSV(t, path)); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVPads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(newContent(scraper.MismatchPad), path))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"a3", ""}, records[3])
}

func TestWriteCSVIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	require.NoError(t, WriteCSV(newContent(scraper.MismatchTruncate), first))
	require.NoError(t, WriteCSV(newContent(scraper.MismatchTruncate), second))
	require.NoError(t, WriteCSV(newContent(scraper.MismatchTruncate), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,content,that,is,longer\nx,y,z,w,v\nmore\n"), 0644))

	require.NoError(t, WriteCSV(newContent(scraper.MismatchTruncate), path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A,B\r\na1,b1\r\na2,b2\r\n", string(got))
}

func TestWriteCSVEven(t *testing.T) {
	logs := captureLog(t)
	d := scraper.NewData("https://example.com")
	d.Add("A", []string{"a1"})
	d.Add("B", []string{"b1"})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(generic.NewPageContent(d, scraper.MismatchTruncate, ""), path))
	assert.NotContains(t, logs.String(), "different numbers")
}

func TestWriteCSVEmpty(t *testing.T) {
	logs := captureLog(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	empty := generic.NewPageContent(scraper.NewData("u"), scraper.MismatchTruncate, "")

	require.NoError(t, WriteCSV(empty, path))
	assert.Contains(t, logs.String(), "No data to save. Please check the selectors.")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteCSVBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	assert.Error(t, WriteCSV(newContent(scraper.MismatchTruncate), path))
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	ctx := context.Background()

	require.NoError(t, WriteSQLite(ctx, newContent(scraper.MismatchPad), path, "books"))
	// a second run replaces the table rather than appending
	require.NoError(t, WriteSQLite(ctx, newContent(scraper.MismatchPad), path, "books"))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT "A", "B" FROM "books" ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close()

	var got [][]string
	for rows.Next() {
		var a, b string
		require.NoError(t, rows.Scan(&a, &b))
		got = append(got, []string{a, b})
	}
	require.NoError(t, rows.Err())

	expected := [][]string{{"a1", "b1"}, {"a2", "b2"}, {"a3", ""}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSQLiteEmpty(t *testing.T) {
	logs := captureLog(t)
	path := filepath.Join(t.TempDir(), "out.db")
	empty := generic.NewPageContent(scraper.NewData("u"), scraper.MismatchTruncate, "")

	require.NoError(t, WriteSQLite(context.Background(), empty, path, ""))
	assert.Contains(t, logs.String(), "No data to save. Please check the selectors.")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Generic Name"`, quoteIdent("Generic Name"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
