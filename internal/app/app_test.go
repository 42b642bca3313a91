package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/export"
	"github.com/bobmcallan/thirteenf/internal/models"
)

// fakeExtractor returns canned text in place of a PDF.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(string) (string, error) {
	return f.text, f.err
}

const listText = `** List of Section 13F Securities **
CUSIP NO ISSUER NAME ISSUER DESCRIPTION STATUS
ABC123 XY 1
Acme Corp
Common Stock
ADDED
DEF456 ZZ 9
Beta Inc
CALL
  
GHI789 AB 3
Gamma Holdings
COM
DELETED
`

const portfolioCSV = `CUSIP,Trade Date Quantity,Market Value,PutOrCall
ABC123XY1,50000,5000000,
DEF456ZZ9,20000.7,300000.2,Call
GHI789AB3,10000,900000,
ZZZ999ZZ9,90000,9000000,
ABC123XY1,12000,200000,
`

type fixture struct {
	app *App
	in  Inputs
	dir string
}

func newFixture(t *testing.T, text string) *fixture {
	t.Helper()
	dir := t.TempDir()

	portfolio := filepath.Join(dir, "portfolio.csv")
	require.NoError(t, os.WriteFile(portfolio, []byte(portfolioCSV), 0644))
	filingPath := filepath.Join(dir, "13flist.pdf")
	require.NoError(t, os.WriteFile(filingPath, []byte("%PDF-1.4"), 0644))

	a := New(common.NewDefaultConfig(), common.NewSilentLogger())
	a.Extractor = &fakeExtractor{text: text}

	return &fixture{
		app: a,
		dir: dir,
		in: Inputs{
			FilingPath:    filingPath,
			PortfolioPath: portfolio,
			OutputPath:    filepath.Join(dir, "infotable.xml"),
		},
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	fx := newFixture(t, listText)

	result, err := fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)

	assert.Equal(t, fx.in.OutputPath, result.OutputPath)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.Filings)
	assert.Equal(t, 5, result.Summary.Holdings)
	assert.Equal(t, 2, result.Summary.BelowThreshold)
	assert.Equal(t, 1, result.Summary.Unmatched)
	assert.Equal(t, 2, result.Summary.Lines)

	data, err := os.ReadFile(fx.in.OutputPath)
	require.NoError(t, err)
	out := string(data)

	assert.Equal(t, 2, strings.Count(out, "<ns1:infoTable>"))
	assert.Contains(t, out, "<ns1:nameOfIssuer>Acme Corp</ns1:nameOfIssuer>")
	assert.Contains(t, out, "<ns1:cusip>ABC123XY1</ns1:cusip>")
	assert.Contains(t, out, "<ns1:value>5000000</ns1:value>")
	assert.Contains(t, out, "<ns1:sshPrnamt>50000</ns1:sshPrnamt>")
	assert.Contains(t, out, "<ns1:None>50000</ns1:None>")
	assert.Contains(t, out, "<ns1:sshPrnamt>20000</ns1:sshPrnamt>")
	assert.Contains(t, out, "<ns1:putCall>CALL</ns1:putCall>")
	assert.NotContains(t, out, "GHI789AB3")
	assert.NotContains(t, out, "ZZZ999ZZ9")
	assert.Nil(t, result.Exports)
}

func TestGenerate_Idempotent(t *testing.T) {
	fx := newFixture(t, listText)

	_, err := fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)
	first, err := os.ReadFile(fx.in.OutputPath)
	require.NoError(t, err)

	_, err = fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)
	second, err := os.ReadFile(fx.in.OutputPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_NoIdentifiersProducesEmptyTable(t *testing.T) {
	fx := newFixture(t, "no securities listed this quarter\n")

	result, err := fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)
	assert.Zero(t, result.Filings)
	assert.Zero(t, result.Summary.Lines)

	data, err := os.ReadFile(fx.in.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ns1:informationTable")
	assert.NotContains(t, string(data), "<ns1:infoTable>")
}

func TestGenerate_IncompleteSelection(t *testing.T) {
	fx := newFixture(t, listText)

	for _, in := range []Inputs{
		{PortfolioPath: fx.in.PortfolioPath, OutputPath: fx.in.OutputPath},
		{FilingPath: fx.in.FilingPath, OutputPath: fx.in.OutputPath},
		{FilingPath: fx.in.FilingPath, PortfolioPath: fx.in.PortfolioPath},
	} {
		_, err := fx.app.Generate(context.Background(), in)
		assert.ErrorIs(t, err, ErrIncompleteSelection)
	}
}

func assertStageError(t *testing.T, err error, stage models.Stage, sentinel error) {
	t.Helper()
	require.Error(t, err)
	var se *models.StageError
	require.True(t, errors.As(err, &se), "want StageError, got %T", err)
	assert.Equal(t, stage, se.Stage)
	assert.ErrorIs(t, err, sentinel)
}

func TestGenerate_ExtractFailure(t *testing.T) {
	fx := newFixture(t, "")
	fx.app.Extractor = &fakeExtractor{err: models.NewKindError(models.KindInputAccess, "cannot open")}

	_, err := fx.app.Generate(context.Background(), fx.in)

	assertStageError(t, err, models.StageExtract, models.ErrInputAccess)
	_, statErr := os.Stat(fx.in.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_UntypedExtractFailureIsInputAccess(t *testing.T) {
	fx := newFixture(t, "")
	fx.app.Extractor = &fakeExtractor{err: errors.New("boom")}

	_, err := fx.app.Generate(context.Background(), fx.in)
	assertStageError(t, err, models.StageExtract, models.ErrInputAccess)
}

func TestGenerate_StrictParseFailure(t *testing.T) {
	fx := newFixture(t, "")
	cfg := common.NewDefaultConfig()
	cfg.Filing.Strict = true
	fx.app = New(cfg, common.NewSilentLogger())
	fx.app.Extractor = &fakeExtractor{text: "ABC123 XY 1\nDEF456 ZZ 9\nBeta Inc\nCALL\n"}

	_, err := fx.app.Generate(context.Background(), fx.in)
	assertStageError(t, err, models.StageParse, models.ErrParseAmbiguity)
}

func TestGenerate_MissingPortfolio(t *testing.T) {
	fx := newFixture(t, listText)
	fx.in.PortfolioPath = filepath.Join(fx.dir, "absent.xlsx")

	_, err := fx.app.Generate(context.Background(), fx.in)

	assertStageError(t, err, models.StageNormalize, models.ErrInputAccess)
	_, statErr := os.Stat(fx.in.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_MissingColumn(t *testing.T) {
	fx := newFixture(t, listText)
	require.NoError(t, os.WriteFile(fx.in.PortfolioPath, []byte("CUSIP,Quantity\nABC123XY1,50000\n"), 0644))

	_, err := fx.app.Generate(context.Background(), fx.in)
	assertStageError(t, err, models.StageNormalize, models.ErrDataFormat)
	assert.Contains(t, err.Error(), "Trade Date Quantity")
}

func TestGenerate_UnwritableOutput(t *testing.T) {
	fx := newFixture(t, listText)
	fx.in.OutputPath = filepath.Join(fx.dir, "missing", "infotable.xml")

	_, err := fx.app.Generate(context.Background(), fx.in)
	assertStageError(t, err, models.StageEmit, models.ErrSerialization)
}

func TestGenerate_CancelledContext(t *testing.T) {
	fx := newFixture(t, listText)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.app.Generate(ctx, fx.in)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(fx.in.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_ExportsWorkbooks(t *testing.T) {
	fx := newFixture(t, listText)
	exportDir := filepath.Join(fx.dir, "dumps")
	fx.app.Exporter = export.NewWriter(exportDir, common.NewSilentLogger())

	result, err := fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(exportDir, export.FilingsFile),
		filepath.Join(exportDir, export.CombinedFile),
	}, result.Exports)
	for _, p := range result.Exports {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestGenerate_EmitFailureWritesNoWorkbooks(t *testing.T) {
	fx := newFixture(t, listText)
	exportDir := filepath.Join(fx.dir, "dumps")
	fx.app.Exporter = export.NewWriter(exportDir, common.NewSilentLogger())
	fx.in.OutputPath = filepath.Join(fx.dir, "missing", "infotable.xml")

	_, err := fx.app.Generate(context.Background(), fx.in)
	assertStageError(t, err, models.StageEmit, models.ErrSerialization)

	for _, name := range []string{export.FilingsFile, export.CombinedFile} {
		_, statErr := os.Stat(filepath.Join(exportDir, name))
		assert.True(t, os.IsNotExist(statErr), "%s should not exist", name)
	}
}

// failingExporter always fails.
type failingExporter struct{}

func (failingExporter) ExportFilings([]models.FilingRecord) (string, error) {
	return "", errors.New("disk full")
}

func (failingExporter) ExportCombined([]models.ReportLine) (string, error) {
	return "", errors.New("disk full")
}

func TestGenerate_ExportFailureDoesNotFailRun(t *testing.T) {
	fx := newFixture(t, listText)
	fx.app.Exporter = failingExporter{}

	result, err := fx.app.Generate(context.Background(), fx.in)
	require.NoError(t, err)
	assert.Empty(t, result.Exports)
	_, statErr := os.Stat(fx.in.OutputPath)
	assert.NoError(t, statErr)
}

func TestNew_ExportEnabledFromConfig(t *testing.T) {
	cfg := common.NewDefaultConfig()
	assert.Nil(t, New(cfg, common.NewSilentLogger()).Exporter)

	cfg.Export.Enabled = true
	cfg.Export.Dir = t.TempDir()
	assert.NotNil(t, New(cfg, common.NewSilentLogger()).Exporter)
}

func TestNewApp_LoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thirteenf.toml")
	require.NoError(t, os.WriteFile(path, []byte("[report]\nmin_shares = 1\n"), 0644))

	a, err := NewApp(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Config.Report.MinShares)
}

func TestNewApp_InvalidConfigReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thirteenf.toml")
	require.NoError(t, os.WriteFile(path, []byte("[portfolio]\nidentifier_column = \"\"\n"), 0644))

	_, err := NewApp(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.toml", resolveConfigPath("explicit.toml"))

	t.Setenv("THIRTEENF_CONFIG", "/etc/thirteenf.toml")
	assert.Equal(t, "/etc/thirteenf.toml", resolveConfigPath(""))
}
