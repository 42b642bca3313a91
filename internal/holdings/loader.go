package holdings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/thirteenf/internal/models"
)

// FileLoader reads holdings from .xlsx workbooks or .csv files.
type FileLoader struct {
	sheet string
}

// NewFileLoader creates a loader. An empty sheet selects the first sheet.
func NewFileLoader(sheet string) *FileLoader {
	return &FileLoader{sheet: sheet}
}

// LoadTable reads the header and rows of the file at path, choosing the
// format by extension.
func (l *FileLoader) LoadTable(path string) ([]string, [][]string, error) {
	var (
		t   Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = LoadCSV(path)
	case ".xlsx", ".xlsm":
		t, err = LoadXLSX(path, l.sheet)
	default:
		return nil, nil, models.NewKindError(models.KindInputAccess, "unsupported holdings file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, err
	}
	return t.Header, t.Rows, nil
}

// LoadXLSX reads a sheet of an Excel workbook using raw cell values.
func LoadXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, models.NewKindError(models.KindInputAccess, "failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, models.NewKindError(models.KindDataFormat, "workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, models.NewKindError(models.KindDataFormat, "failed to read sheet %q of %s: %w", sheet, path, err)
	}
	return newTable(path, rows)
}

// LoadCSV reads a comma separated file with a header row.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, models.NewKindError(models.KindInputAccess, "failed to open %s: %w", path, err)
	}
	defer f.Close()

	return readCSV(path, f)
}

func readCSV(name string, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, models.NewKindError(models.KindDataFormat, "failed to parse %s: %w", name, err)
		}
		rows = append(rows, record)
	}
	return newTable(name, rows)
}

func newTable(name string, rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, models.NewKindError(models.KindDataFormat, "%s has no header row", name)
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return Table{Header: header, Rows: rows[1:]}, nil
}

// String implements fmt.Stringer for log output.
func (t Table) String() string {
	return fmt.Sprintf("table(%d columns, %d rows)", len(t.Header), len(t.Rows))
}
