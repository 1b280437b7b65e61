package roster

import (
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Row is a single roster entry. Offset is the 0-based offset of the row
// within the worksheet range (the header row is offset 0, the first data row
// offset 1) and identifies the row for write-backs.
type Row struct {
	Offset int
	fields map[string]string
}

// Field returns the trimmed cell value for a logical field, or "" if the
// column is not mapped or the cell is empty.
func (r Row) Field(field string) string {
	return r.fields[field]
}

// Create returns true if the row is flagged for creation.
func (r Row) Create() bool {
	switch strings.ToLower(r.fields[FieldCreate]) {
	case "yes", "y", "true", "x", "1":
		return true
	}

	return false
}

// WebinarID returns the provider identifier previously written back to the
// row, or "" if the webinar has not been created yet.
func (r Row) WebinarID() string {
	return r.fields[FieldWebinarID]
}

// Update stages a write-back value for a single cell, addressed by row
// offset and logical field.
type Update struct {
	Offset int
	Field  string
	Value  string
}

// Roster is the parsed worksheet range: the column index plus the data rows
// in worksheet order.
type Roster struct {
	Rows  []Row
	index map[string]int
}

// Column returns the 0-based column offset for a logical field.
func (r *Roster) Column(field string) (int, bool) {
	ix, ok := r.index[field]
	return ix, ok
}

// Required columns - without these the reconciler cannot identify, schedule
// or track a webinar.
var required = []string{FieldCreate, FieldStart, FieldTitle, FieldWebinarID}

// MakeRoster builds a Roster from a worksheet range. The first row of the
// range is the header; columns are matched to the mapping by normalised
// title. Rows with no content at all are skipped, everything else is
// returned as-is - per-row validation is the reconciler's concern.
func MakeRoster(data *sheets.ValueRange, mapping Mapping) (*Roster, error) {
	if data == nil || len(data.Values) == 0 {
		return nil, fmt.Errorf("empty roster sheet")
	}

	// ... build column index
	header := data.Values[0]
	columns := map[string]int{}
	for i, v := range header {
		k := normalise(toString(v))
		if k == "" {
			continue
		}

		if _, ok := columns[k]; ok {
			return nil, fmt.Errorf("duplicate column name '%s'", toString(v))
		}

		columns[k] = i
	}

	index := map[string]int{}
	for field, title := range mapping {
		if ix, ok := columns[normalise(title)]; ok {
			index[field] = ix
		}
	}

	missing := []string{}
	for _, field := range required {
		if _, ok := index[field]; !ok {
			missing = append(missing, fmt.Sprintf("'%s'", mapping[field]))
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s) in roster sheet: %s", strings.Join(missing, ", "))
	}

	// ... rows
	roster := Roster{
		Rows:  []Row{},
		index: index,
	}

	for offset, record := range data.Values[1:] {
		fields := map[string]string{}
		blank := true
		for field, ix := range index {
			if ix < len(record) {
				if v := clean(toString(record[ix])); v != "" {
					fields[field] = v
					blank = false
				}
			}
		}

		if blank {
			continue
		}

		roster.Rows = append(roster.Rows, Row{
			Offset: offset + 1,
			fields: fields,
		})
	}

	return &roster, nil
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
