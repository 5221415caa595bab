package extractor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagescrape/internal/scraper"
)

const booksPage = `<!DOCTYPE html>
<html>
<head><title>  Best Books  </title></head>
<body>
<table>
  <tr>
    <td><a class="bookTitle"><span>
      The Iliad
    </span></a></td>
    <td><a class="authorName">Homer</a></td>
    <td><span class="minirating">	4.0 avg rating  </span></td>
  </tr>
  <tr>
    <td><a class="bookTitle">Don Quixote, Part <b>One</b></a></td>
    <td><a class="authorName">Miguel de Cervantes</a></td>
  </tr>
</table>
</body>
</html>`

func TestExtract(t *testing.T) {
	e, err := NewExtractor([]byte(booksPage))
	require.NoError(t, err)

	fields := []scraper.Field{
		{Name: "Title", Selector: ".bookTitle"},
		{Name: "Author", Selector: ".authorName"},
		{Name: "Rating", Selector: ".minirating"},
		{Name: "Price", Selector: ".price"},
	}
	data := e.Extract("https://example.com/books", fields)

	assert.Equal(t, "https://example.com/books", data.Source())
	assert.Equal(t, []string{"Title", "Author", "Rating", "Price"}, data.Fields())

	expected := map[string][]string{
		"Title":  {"The Iliad", "Don Quixote, Part One"},
		"Author": {"Homer", "Miguel de Cervantes"},
		"Rating": {"4.0 avg rating"},
		"Price":  {},
	}
	for field, want := range expected {
		if diff := cmp.Diff(want, data.Values(field)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", field, diff)
		}
	}
}

func TestExtractOrderFollowsFields(t *testing.T) {
	e, err := NewExtractor([]byte(booksPage))
	require.NoError(t, err)

	data := e.Extract("", []scraper.Field{
		{Name: "Rating", Selector: ".minirating"},
		{Name: "Title", Selector: ".bookTitle"},
	})
	assert.Equal(t, []string{"Rating", "Title"}, data.Fields())
}

func TestExtractNoFields(t *testing.T) {
	e, err := NewExtractor([]byte(booksPage))
	require.NoError(t, err)

	data := e.Extract("", nil)
	assert.True(t, data.Empty())
}

func TestExtractMalformedSelector(t *testing.T) {
	e, err := NewExtractor([]byte(booksPage))
	require.NoError(t, err)

	data := e.Extract("", []scraper.Field{{Name: "Broken", Selector: "td[[["}})
	assert.Empty(t, data.Values("Broken"))
}

func TestTitle(t *testing.T) {
	e, err := NewExtractor([]byte(booksPage))
	require.NoError(t, err)
	assert.Equal(t, "Best Books", e.Title())
}
