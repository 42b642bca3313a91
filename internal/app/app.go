// Package app wires the generation pipeline from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/export"
	"github.com/bobmcallan/thirteenf/internal/filing"
	"github.com/bobmcallan/thirteenf/internal/holdings"
	"github.com/bobmcallan/thirteenf/internal/infotable"
	"github.com/bobmcallan/thirteenf/internal/interfaces"
	"github.com/bobmcallan/thirteenf/internal/models"
	"github.com/bobmcallan/thirteenf/internal/reconcile"
)

// ErrIncompleteSelection is returned when an input or output path is missing.
var ErrIncompleteSelection = errors.New("please select both the 13(f) list PDF and the portfolio workbook, and an output file")

// App holds the configured pipeline stages.
type App struct {
	Config     *common.Config
	Logger     *common.Logger
	Extractor  interfaces.TextExtractor
	Loader     interfaces.TableLoader
	Exporter   interfaces.Exporter // nil when export is disabled
	Parser     *filing.Parser
	Normalizer *holdings.Normalizer
	Engine     *reconcile.Engine
	Emitter    *infotable.Emitter
}

// Inputs are the paths chosen by the caller.
type Inputs struct {
	FilingPath    string
	PortfolioPath string
	OutputPath    string
}

// Complete reports whether every path is set.
func (in Inputs) Complete() bool {
	return in.FilingPath != "" && in.PortfolioPath != "" && in.OutputPath != ""
}

// Result describes a successful run.
type Result struct {
	RunID      string            `json:"run_id"`
	OutputPath string            `json:"output_path"`
	Filings    int               `json:"filings"`
	Summary    reconcile.Summary `json:"summary"`
	Exports    []string          `json:"exports,omitempty"`
	Elapsed    time.Duration     `json:"elapsed"`
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: explicit path, THIRTEENF_CONFIG,
// thirteenf.toml next to the binary, then config/thirteenf.toml.
func resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("THIRTEENF_CONFIG"); env != "" {
		return env
	}
	path := filepath.Join(getBinaryDir(), "thirteenf.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join("config", "thirteenf.toml")
}

// NewApp loads configuration and builds the pipeline. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config)
	return New(config, logger), nil
}

// New builds the pipeline from an already loaded config.
func New(config *common.Config, logger *common.Logger) *App {
	a := &App{
		Config:     config,
		Logger:     logger,
		Extractor:  filing.NewPDFSource(),
		Loader:     holdings.NewFileLoader(config.Portfolio.Sheet),
		Parser:     filing.NewParser(config.Filing, logger),
		Normalizer: holdings.NewNormalizer(config.Portfolio, logger),
		Engine:     reconcile.NewEngine(config.Report, logger),
		Emitter:    infotable.NewEmitter(logger),
	}
	if config.Export.Enabled {
		a.Exporter = export.NewWriter(config.Export.Dir, logger)
	}
	return a
}

func stageError(stage models.Stage, err error, fallback models.ErrorKind) error {
	return &models.StageError{Stage: stage, Kind: models.KindOf(err, fallback), Err: err}
}

// ParseFiling extracts and parses the 13(f) list at path.
func (a *App) ParseFiling(ctx context.Context, path string) ([]models.FilingRecord, error) {
	text, err := a.Extractor.ExtractText(path)
	if err != nil {
		return nil, stageError(models.StageExtract, err, models.KindInputAccess)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := a.Parser.Parse(text)
	if err != nil {
		return nil, stageError(models.StageParse, err, models.KindDataFormat)
	}
	return records, nil
}

// LoadHoldings reads and normalizes the holdings file at path.
func (a *App) LoadHoldings(path string) ([]models.PortfolioRecord, error) {
	header, rows, err := a.Loader.LoadTable(path)
	if err != nil {
		return nil, stageError(models.StageNormalize, err, models.KindInputAccess)
	}

	records, err := a.Normalizer.Normalize(holdings.Table{Header: header, Rows: rows})
	if err != nil {
		return nil, stageError(models.StageNormalize, err, models.KindDataFormat)
	}
	return records, nil
}

// Generate runs the whole pipeline and writes the information table to
// in.OutputPath. Stages run in order and the first failure aborts the run.
func (a *App) Generate(ctx context.Context, in Inputs) (*Result, error) {
	if !in.Complete() {
		return nil, ErrIncompleteSelection
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := a.Logger

	logger.Info().
		Str("run_id", runID).
		Str("filing", in.FilingPath).
		Str("portfolio", in.PortfolioPath).
		Msg("Generation started")

	filings, err := a.ParseFiling(ctx, in.FilingPath)
	if err != nil {
		logger.Error().Str("run_id", runID).Err(err).Msg("Filing stage failed")
		return nil, err
	}
	logger.Info().Str("run_id", runID).Int("records", len(filings)).Msg("Filing parsed")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	positions, err := a.LoadHoldings(in.PortfolioPath)
	if err != nil {
		logger.Error().Str("run_id", runID).Err(err).Msg("Holdings stage failed")
		return nil, err
	}
	logger.Info().Str("run_id", runID).Int("holdings", len(positions)).Msg("Holdings loaded")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, summary := a.Engine.Reconcile(filings, positions)
	logger.Info().
		Str("run_id", runID).
		Int("below_threshold", summary.BelowThreshold).
		Int("unmatched", summary.Unmatched).
		Int("lines", summary.Lines).
		Msg("Holdings reconciled")

	result := &Result{
		RunID:      runID,
		OutputPath: in.OutputPath,
		Filings:    len(filings),
		Summary:    summary,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.Emitter.WriteFile(in.OutputPath, lines); err != nil {
		err = stageError(models.StageEmit, err, models.KindSerialization)
		logger.Error().Str("run_id", runID).Err(err).Msg("Emit stage failed")
		return nil, err
	}
	result.Exports = a.export(runID, filings, lines)

	result.Elapsed = time.Since(start)
	logger.Info().
		Str("run_id", runID).
		Str("output", in.OutputPath).
		Dur("elapsed", result.Elapsed).
		Msg("Generation complete")

	return result, nil
}

// export writes the intermediate workbooks once the information table is on
// disk. Failures are logged, not returned.
func (a *App) export(runID string, filings []models.FilingRecord, lines []models.ReportLine) []string {
	if a.Exporter == nil {
		return nil
	}

	var paths []string
	if path, err := a.Exporter.ExportFilings(filings); err != nil {
		a.Logger.Warn().Str("run_id", runID).Err(err).Msg("Filing export failed")
	} else {
		paths = append(paths, path)
	}
	if path, err := a.Exporter.ExportCombined(lines); err != nil {
		a.Logger.Warn().Str("run_id", runID).Err(err).Msg("Combined export failed")
	} else {
		paths = append(paths, path)
	}
	return paths
}
