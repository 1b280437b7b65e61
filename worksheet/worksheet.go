// Package worksheet is the roster's list data source: a Google Sheets
// worksheet range read into roster rows, with staged write-backs applied as
// a single batch update. Rows keep their worksheet identity between read and
// write; the automation never reorders, inserts or deletes rows and only
// ever writes the write-back columns.
package worksheet

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/sheets/v4"

	"webexsheets/roster"
)

type Worksheet struct {
	google        *sheets.Service
	spreadsheetId string
	area          string
	mapping       roster.Mapping

	name string
	left int
	top  int

	roster *roster.Roster
}

// ParseURL extracts the spreadsheet ID from a Google Sheets URL.
func ParseURL(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// Open binds a worksheet range like 'Webinars!A1:L'. The first row of the
// range is the roster header.
func Open(google *sheets.Service, spreadsheetId, area string, mapping roster.Mapping) (*Worksheet, error) {
	match := regexp.MustCompile(`^(.+?)!([a-zA-Z]+)([0-9]+):([a-zA-Z]+)([0-9]+)?$`).FindStringSubmatch(strings.TrimSpace(area))
	if len(match) < 5 {
		return nil, fmt.Errorf("invalid range '%s' - expected something like 'Webinars!A1:L'", area)
	}

	top := 0
	fmt.Sscanf(match[3], "%d", &top)

	return &Worksheet{
		google:        google,
		spreadsheetId: spreadsheetId,
		area:          strings.TrimSpace(area),
		mapping:       mapping,

		name: match[1],
		left: colIndex(match[2]),
		top:  top,
	}, nil
}

// Rows fetches the range and parses it into roster rows. The parsed roster
// is retained for addressing write-backs.
func (w *Worksheet) Rows(ctx context.Context) ([]roster.Row, error) {
	response, err := w.google.Spreadsheets.Values.Get(w.spreadsheetId, w.area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	parsed, err := roster.MakeRoster(response, w.mapping)
	if err != nil {
		return nil, err
	}

	w.roster = parsed

	return parsed.Rows, nil
}

// Apply writes all staged updates in one batch. Updates for fields without a
// mapped column are skipped - the roster guarantees the columns that matter.
func (w *Worksheet) Apply(ctx context.Context, updates []roster.Update) error {
	if len(updates) == 0 {
		return nil
	}

	if w.roster == nil {
		return fmt.Errorf("no roster has been read from the worksheet")
	}

	data := []*sheets.ValueRange{}
	for _, update := range updates {
		ix, ok := w.roster.Column(update.Field)
		if !ok {
			continue
		}

		cell := fmt.Sprintf("%s!%s%d", w.name, colName(w.left+ix), w.top+update.Offset)

		data = append(data, &sheets.ValueRange{
			Range:  cell,
			Values: [][]interface{}{{update.Value}},
		})
	}

	if len(data) == 0 {
		return nil
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}

	if _, err := w.google.Spreadsheets.Values.BatchUpdate(w.spreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error writing results to sheet (%w)", err)
	}

	return nil
}

// colIndex converts a column reference ('A', 'AA') to a 0-based index.
func colIndex(ref string) int {
	ix := 0
	for _, c := range strings.ToUpper(ref) {
		ix = ix*26 + int(c-'A') + 1
	}

	return ix - 1
}

// colName converts a 0-based index to a column reference.
func colName(ix int) string {
	name := ""
	for n := ix + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}

	return name
}
