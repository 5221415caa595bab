package generic

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/jedib0t/go-pretty/v6/table"

	"pagescrape/internal/scraper"
)

// PageContent holds the values extracted from one page and renders them in
// every output format. It never touches the network.
type PageContent struct {
	data   *scraper.Data
	policy scraper.MismatchPolicy
	title  string
}

// NewPageContent wraps data. policy decides how uneven fields become rows.
func NewPageContent(data *scraper.Data, policy scraper.MismatchPolicy, title string) *PageContent {
	return &PageContent{data: data, policy: policy, title: title}
}

func (p *PageContent) Data() *scraper.Data { return p.data }

func (p *PageContent) Rows() [][]string { return p.data.Rows(p.policy) }

// ToText returns every field as a numbered list.
func (p *PageContent) ToText() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scraped Data from %s:\n", p.data.Source()))
	for _, field := range p.data.Fields() {
		sb.WriteString(fmt.Sprintf("\n%s:\n", capitalize(field)))
		for i, v := range p.data.Values(field) {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, v))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func (p *PageContent) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Scraped Data from <a href=\"%s\">%s</a></h1>\n",
		html.EscapeString(p.data.Source()), html.EscapeString(p.heading())))
	for _, field := range p.data.Fields() {
		sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n<ol>\n", html.EscapeString(capitalize(field))))
		for _, v := range p.data.Values(field) {
			sb.WriteString("  <li>" + html.EscapeString(v) + "</li>\n")
		}
		sb.WriteString("</ol>\n")
	}
	return sb.String(), nil
}

func (p *PageContent) ToMarkdown() (string, error) {
	h, err := p.ToHTML()
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(h)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return markdown, nil
}

func (p *PageContent) ToJSON() ([]byte, error) {
	type jsonField struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	}
	type jsonOutput struct {
		Source string      `json:"source"`
		Title  string      `json:"title,omitempty"`
		Fields []jsonField `json:"fields"`
	}

	output := jsonOutput{
		Source: p.data.Source(),
		Title:  p.title,
		Fields: []jsonField{},
	}
	for _, field := range p.data.Fields() {
		output.Fields = append(output.Fields, jsonField{Name: field, Values: p.data.Values(field)})
	}

	return json.MarshalIndent(output, "", "  ")
}

// ToCSV returns the header row followed by the transposed rows, CRLF
// terminated.
func (p *PageContent) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(p.data.Fields()); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(p.Rows()); err != nil {
		return "", fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.String(), nil
}

// ToTable renders the transposed rows as a terminal table.
func (p *PageContent) ToTable() (string, error) {
	t := table.NewWriter()

	header := table.Row{"#"}
	for _, field := range p.data.Fields() {
		header = append(header, field)
	}
	t.AppendHeader(header)

	for i, row := range p.Rows() {
		r := table.Row{i + 1}
		for _, v := range row {
			r = append(r, v)
		}
		t.AppendRow(r)
	}

	t.SetStyle(table.StyleRounded)
	return t.Render(), nil
}

func (p *PageContent) heading() string {
	if p.title != "" {
		return p.title
	}
	return p.data.Source()
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
