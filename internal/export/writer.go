// Package export dumps the intermediate tables of a run as Excel workbooks.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
	"github.com/bobmcallan/thirteenf/internal/reconcile"
	"github.com/bobmcallan/thirteenf/internal/storage"
)

// Workbook file names.
const (
	FilingsFile  = "sec_data.xlsx"
	CombinedFile = "combined_data.xlsx"
)

var filingsHeader = []interface{}{"cusip_no", "issuer_name", "issuer_description", "status"}

var combinedHeader = []interface{}{
	"NameOfIssuer", "TitleOfClass", "CUSIP", "FIGI", "Value", "Shares",
	"SharesOrPrincipal", "PutOrCall", "InvestmentDiscretion", "OtherManagers",
	"Sole", "Shared", "None",
}

// Writer writes workbooks into a directory.
type Writer struct {
	dir    string
	logger *common.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, logger *common.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// ExportFilings writes every parsed filing record to sec_data.xlsx.
func (w *Writer) ExportFilings(records []models.FilingRecord) (string, error) {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.Identifier, r.IssuerName, r.IssuerDescription, string(r.Status)})
	}
	return w.write(FilingsFile, "sec_data", filingsHeader, rows)
}

// ExportCombined writes the joined report lines to combined_data.xlsx. The
// FIGI column is always blank; the workbook does not carry the figi value
// written to the information table.
func (w *Writer) ExportCombined(lines []models.ReportLine) (string, error) {
	rows := make([][]interface{}, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []interface{}{
			l.NameOfIssuer, l.TitleOfClass, l.CUSIP, "", l.Value, l.Shares,
			l.ShareType, reconcile.PutCallMarker(l.TitleOfClass), l.InvestmentDiscretion, l.OtherManagers,
			l.Voting.Sole, l.Voting.Shared, l.Voting.None,
		})
	}
	return w.write(CombinedFile, "combined_data", combinedHeader, rows)
}

func (w *Writer) write(name, sheet string, header []interface{}, rows [][]interface{}) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for i := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cellName, &rows[i]); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	if err := storage.EnsureDir(w.dir); err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, name)
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug().Str("path", path).Int("rows", len(rows)).Msg("Workbook exported")
	return path, nil
}
