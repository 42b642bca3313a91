package filing

import (
	"regexp"

	"github.com/bobmcallan/thirteenf/internal/models"
)

// Line offsets after a boundary line.
const (
	offsetIssuerName  = 1
	offsetDescription = 2
	offsetStatus      = 3
)

var statusPattern = regexp.MustCompile(`ADDED|DELETED`)

// AssembleOptions tunes record assembly.
type AssembleOptions struct {
	// Strict rejects records closed before both issuer name and description
	// were read.
	Strict bool
}

// Assemble builds one record per boundary line from the positional lines
// that follow it. Lines before the first boundary are ignored.
func Assemble(lines []Line, opts AssembleOptions) ([]models.FilingRecord, error) {
	var (
		records []models.FilingRecord
		current *models.FilingRecord
		offset  int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if opts.Strict && offset < offsetDescription {
			return models.NewKindError(models.KindParseAmbiguity,
				"record %s ends after %d body line(s), want at least %d", current.Identifier, offset, offsetDescription)
		}
		records = append(records, *current)
		return nil
	}

	for _, line := range lines {
		if line.Boundary {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &models.FilingRecord{Identifier: line.Identifier}
			offset = 0
			continue
		}
		if current == nil {
			continue
		}

		offset++
		switch offset {
		case offsetIssuerName:
			current.IssuerName = line.Text
		case offsetDescription:
			current.IssuerDescription = line.Text
		case offsetStatus:
			current.Status = models.FilingStatus(statusPattern.FindString(line.Text))
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}

// Merge folds record fragments into complete records. Fields accumulate by
// overwrite and a record is emitted each time a fragment carries an
// identifier. Fragments after the last identifier are discarded.
func Merge(fragments []models.FilingRecord) []models.FilingRecord {
	out := make([]models.FilingRecord, 0, len(fragments))
	var acc models.FilingRecord
	for _, frag := range fragments {
		acc.Merge(frag)
		if frag.Identifier != "" {
			out = append(out, acc)
			acc = models.FilingRecord{}
		}
	}
	return out
}
