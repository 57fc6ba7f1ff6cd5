package window

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Sheet is the raw tabular input handed to the normalizers: a header row and
// string cell values, exactly as exported from the spreadsheet source.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// columnIndex finds a column by name, ignoring surrounding whitespace on
// both sides (the upstream spreadsheets routinely carry padded headers).
func (s *Sheet) columnIndex(name string) int {
	want := strings.TrimSpace(name)
	for i, col := range s.Columns {
		if strings.TrimSpace(col) == want {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (s *Sheet) HasColumns(names ...string) bool {
	for _, n := range names {
		if s.columnIndex(n) < 0 {
			return false
		}
	}
	return true
}

// missingColumns returns the subset of names not present in the sheet.
func (s *Sheet) missingColumns(names []string) []string {
	var missing []string
	for _, n := range names {
		if s.columnIndex(n) < 0 {
			missing = append(missing, n)
		}
	}
	return missing
}

// cell returns the trimmed value at (row, column index); out-of-range cells
// read as empty (short rows are common in exported sheets).
func (s *Sheet) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// numeric coerces a cell to an integer count. Spreadsheet exports render
// integers as "4", "4.0" or with thousand separators stripped already; any
// unparsable or empty cell counts as zero.
func numeric(s string) int {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// dateLayouts in detection order. The upstream sheets are day-first
// Brazilian exports; ISO shows up when the sheet cell is typed as a date.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseDate parses a spreadsheet date cell into a naive calendar date.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return time.Time{}, false
}
