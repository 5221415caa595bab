package scraper

import (
	"fmt"
	"strings"
)

// MismatchPolicy decides how fields with different value counts are
// combined into rows.
type MismatchPolicy string

const (
	// MismatchTruncate stops at the shortest field (zip semantics).
	MismatchTruncate MismatchPolicy = "truncate"
	// MismatchPad fills short fields with empty strings up to the longest one.
	MismatchPad MismatchPolicy = "pad"
)

// ParseMismatchPolicy parses a policy name. The empty string selects truncate.
func ParseMismatchPolicy(s string) (MismatchPolicy, error) {
	switch MismatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MismatchTruncate:
		return MismatchTruncate, nil
	case MismatchPad:
		return MismatchPad, nil
	default:
		return "", fmt.Errorf("invalid mismatch policy: %s (want truncate or pad)", s)
	}
}

// Data holds the values extracted from one page, keyed by field name.
// Field order follows the order in which fields were added.
type Data struct {
	source string
	fields []string
	values map[string][]string
}

func NewData(source string) *Data {
	return &Data{
		source: source,
		values: make(map[string][]string),
	}
}

// Add stores the values for a field. Adding an existing field replaces its
// values but keeps its position.
func (d *Data) Add(field string, values []string) {
	if _, ok := d.values[field]; !ok {
		d.fields = append(d.fields, field)
	}
	if values == nil {
		values = []string{}
	}
	d.values[field] = values
}

// Source returns the URL the data was extracted from.
func (d *Data) Source() string { return d.source }

// Fields returns the field names in insertion order.
func (d *Data) Fields() []string {
	return append([]string(nil), d.fields...)
}

func (d *Data) Values(field string) []string {
	return d.values[field]
}

// Empty reports whether no fields were extracted. A field that matched
// nothing still counts as a field.
func (d *Data) Empty() bool {
	return len(d.fields) == 0
}

// Counts returns the number of values per field, in field order.
func (d *Data) Counts() []int {
	counts := make([]int, len(d.fields))
	for i, f := range d.fields {
		counts[i] = len(d.values[f])
	}
	return counts
}

// Uneven reports whether the fields hold different numbers of values.
func (d *Data) Uneven() bool {
	counts := d.Counts()
	for _, c := range counts {
		if c != counts[0] {
			return true
		}
	}
	return false
}

// DescribeCounts renders the per-field counts as "name=count" pairs.
func (d *Data) DescribeCounts() string {
	parts := make([]string, len(d.fields))
	for i, f := range d.fields {
		parts[i] = fmt.Sprintf("%s=%d", f, len(d.values[f]))
	}
	return strings.Join(parts, " ")
}

// Rows transposes the per-field values into rows: row i holds the i-th
// value of every field, in field order.
func (d *Data) Rows(policy MismatchPolicy) [][]string {
	if d.Empty() {
		return nil
	}

	counts := d.Counts()
	n := counts[0]
	for _, c := range counts[1:] {
		if policy == MismatchPad && c > n {
			n = c
		}
		if policy != MismatchPad && c < n {
			n = c
		}
	}

	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(d.fields))
		for j, f := range d.fields {
			if vals := d.values[f]; i < len(vals) {
				row[j] = vals[i]
			}
		}
		rows[i] = row
	}
	return rows
}
