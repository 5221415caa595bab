package rxdrugs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagescrape/internal/scraper"
)

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table class="tablepress"><tbody>
<tr><td class="column-1">Lisinopril</td><td class="column-2">Prinivil, Zestril</td>
<td class="column-3">Hypertension</td><td class="column-4">ACE inhibitor</td><td class="column-5"></td></tr>
</tbody></table>`))
	}))
	defer srv.Close()

	content, err := (&RxDrugsScraper{}).Scrape(context.Background(), srv.URL, scraper.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Generic Name", "Brand Name", "Indication Name", "Medication Name", "DEA Name"}, content.Data().Fields())
	assert.Equal(t, [][]string{{"Lisinopril", "Prinivil, Zestril", "Hypertension", "ACE inhibitor", ""}}, content.Rows())

	csvText, err := content.ToCSV()
	require.NoError(t, err)
	assert.Contains(t, csvText, `"Prinivil, Zestril"`)
}

func TestRegistered(t *testing.T) {
	s, ok := scraper.Get("RxDrugs")
	require.True(t, ok)
	assert.Equal(t, "imdb_data.csv", s.(scraper.Preset).Defaults().Output)
}
