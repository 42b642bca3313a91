// Package reconcile joins holdings to the 13(f) list and derives report lines.
package reconcile

import (
	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
)

// Summary counts what happened to each holding during a run.
type Summary struct {
	Holdings       int `json:"holdings"`
	BelowThreshold int `json:"below_threshold"`
	Unmatched      int `json:"unmatched"`
	Lines          int `json:"lines"`
}

// Engine applies the reporting thresholds and the identifier join.
type Engine struct {
	minValue  int64
	minShares int64
	logger    *common.Logger
}

// NewEngine creates an engine with the configured thresholds.
func NewEngine(cfg common.ReportConfig, logger *common.Logger) *Engine {
	return &Engine{
		minValue:  cfg.MinValue,
		minShares: cfg.MinShares,
		logger:    logger,
	}
}

// Qualifies reports whether a holding is large enough to be reported. Both
// thresholds are exclusive.
func (e *Engine) Qualifies(h models.PortfolioRecord) bool {
	return h.MarketValue > e.minValue && h.Shares > e.minShares
}

// Reconcile returns one line per qualifying holding whose identifier is on
// the list, in holdings order. The first listed record wins when an
// identifier appears more than once.
func (e *Engine) Reconcile(filings []models.FilingRecord, holdings []models.PortfolioRecord) ([]models.ReportLine, Summary) {
	index := make(map[string]int, len(filings))
	for i, f := range filings {
		if _, seen := index[f.Identifier]; !seen {
			index[f.Identifier] = i
		}
	}

	summary := Summary{Holdings: len(holdings)}
	lines := make([]models.ReportLine, 0, len(holdings))
	for _, h := range holdings {
		if !e.Qualifies(h) {
			summary.BelowThreshold++
			continue
		}
		i, ok := index[h.Identifier]
		if !ok {
			summary.Unmatched++
			e.logger.Debug().Str("cusip", h.Identifier).Msg("Holding not on 13(f) list")
			continue
		}
		lines = append(lines, BuildLine(filings[i], h))
	}
	summary.Lines = len(lines)

	return lines, summary
}

// BuildLine derives the report line for a matched holding.
func BuildLine(f models.FilingRecord, h models.PortfolioRecord) models.ReportLine {
	line := models.ReportLine{
		NameOfIssuer:         f.IssuerName,
		TitleOfClass:         f.IssuerDescription,
		CUSIP:                f.Identifier,
		Value:                h.MarketValue,
		Shares:               h.Shares,
		ShareType:            models.ShareTypeShares,
		InvestmentDiscretion: models.DiscretionSole,
		Voting: models.VotingAuthority{
			Sole:   0,
			Shared: 0,
			None:   h.Shares,
		},
	}

	// The figi element carries the issuer description, not the holding's FIGI.
	if h.HasFIGI() {
		figi := f.IssuerDescription
		line.FIGI = &figi
	}
	if h.HasPutOrCall() {
		marker := PutCallMarker(f.IssuerDescription)
		line.PutCall = &marker
	}
	return line
}

// PutCallMarker returns the description when it names an option type, else "".
func PutCallMarker(description string) string {
	switch description {
	case models.PutCallCall, models.PutCallPut:
		return description
	default:
		return ""
	}
}
