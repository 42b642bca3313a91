// Package holdings loads and normalizes the client holdings workbook.
package holdings

import "strings"

// Table is a header row plus data rows read from a spreadsheet.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column, matched after trimming and
// case-insensitively.
func (t Table) Column(name string) (int, bool) {
	want := strings.TrimSpace(name)
	if want == "" {
		return -1, false
	}
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i, true
		}
	}
	return -1, false
}

// cell returns the trimmed value at column i of row, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
