package holdings

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
)

// numberNoise is stripped from quantity and value cells before parsing.
var numberNoise = strings.NewReplacer(",", "", "$", "", " ", "", "\u00a0", "")

// Normalizer projects holdings rows onto PortfolioRecord.
type Normalizer struct {
	columns common.PortfolioConfig
	logger  *common.Logger
}

// NewNormalizer creates a normalizer for the configured column names.
func NewNormalizer(columns common.PortfolioConfig, logger *common.Logger) *Normalizer {
	return &Normalizer{columns: columns, logger: logger}
}

// Normalize returns one record per row in input order. It fails when a
// required column is missing from the header.
func (n *Normalizer) Normalize(t Table) ([]models.PortfolioRecord, error) {
	idCol, err := n.require(t, n.columns.IdentifierColumn)
	if err != nil {
		return nil, err
	}
	qtyCol, err := n.require(t, n.columns.QuantityColumn)
	if err != nil {
		return nil, err
	}
	valCol, err := n.require(t, n.columns.ValueColumn)
	if err != nil {
		return nil, err
	}
	figiCol, hasFIGI := t.Column(n.columns.FIGIColumn)
	putCallCol, hasPutCall := t.Column(n.columns.PutCallColumn)

	records := make([]models.PortfolioRecord, 0, len(t.Rows))
	coerced := 0
	for _, row := range t.Rows {
		qty, okQty := coerceQuantity(cell(row, qtyCol))
		val, okVal := coerceQuantity(cell(row, valCol))
		if !okQty || !okVal {
			coerced++
		}

		rec := models.PortfolioRecord{
			Identifier:  cell(row, idCol),
			Shares:      qty,
			MarketValue: val,
		}
		if hasFIGI {
			rec.FIGI = optional(cell(row, figiCol))
		}
		if hasPutCall {
			rec.PutOrCall = optional(cell(row, putCallCol))
		}
		records = append(records, rec)
	}

	n.logger.Debug().
		Int("rows", len(records)).
		Int("defaulted", coerced).
		Bool("figi_column", hasFIGI).
		Bool("put_call_column", hasPutCall).
		Msg("Holdings normalized")

	return records, nil
}

func (n *Normalizer) require(t Table, name string) (int, error) {
	i, ok := t.Column(name)
	if !ok {
		return -1, models.NewKindError(models.KindDataFormat, "required column %q not found in holdings header", name)
	}
	return i, nil
}

// coerceQuantity parses a cell as a non-negative whole number. Fractions are
// truncated and negatives, blanks and unparsable text become zero. The bool
// is false when the cell was not a usable number.
func coerceQuantity(s string) (int64, bool) {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	d = d.Truncate(0)
	if d.IsNegative() {
		return 0, false
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return 0, false
	}
	return d.IntPart(), true
}

// maxQuantity bounds parsed values to what fits an int64.
const maxQuantity = int64(^uint64(0) >> 1)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
