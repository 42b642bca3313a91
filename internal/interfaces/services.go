// Package interfaces defines service contracts for thirteenf
package interfaces

import (
	"github.com/bobmcallan/thirteenf/internal/models"
)

// TextExtractor renders a filing document as one text blob, pages in order
type TextExtractor interface {
	// ExtractText returns the concatenated page text of the document at path
	ExtractText(path string) (string, error)
}

// TableLoader reads a holdings spreadsheet into a header and data rows
type TableLoader interface {
	// LoadTable returns the header row and the remaining rows of the file at path
	LoadTable(path string) (header []string, rows [][]string, err error)
}

// Exporter writes the intermediate workbooks of a run
type Exporter interface {
	// ExportFilings writes every parsed filing record
	ExportFilings(records []models.FilingRecord) (string, error)

	// ExportCombined writes the joined report lines
	ExportCombined(lines []models.ReportLine) (string, error)
}
