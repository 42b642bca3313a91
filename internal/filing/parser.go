package filing

import (
	"regexp"
	"strings"
	"time"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
)

// minLineLength drops stray page furniture such as page numbers.
const minLineLength = 3

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to a single space and trims the result.
func CleanText(text string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Parser turns extracted list text into filing records.
type Parser struct {
	noiseMarkers []string
	strict       bool
	logger       *common.Logger
}

// NewParser creates a parser from the filing config section.
func NewParser(cfg common.FilingConfig, logger *common.Logger) *Parser {
	return &Parser{
		noiseMarkers: cfg.NoiseMarkers,
		strict:       cfg.Strict,
		logger:       logger,
	}
}

// Lines splits text into trimmed lines, dropping blank, short and noise lines.
func (p *Parser) Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if len(line) < minLineLength || p.isNoise(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *Parser) isNoise(line string) bool {
	for _, marker := range p.noiseMarkers {
		if marker != "" && strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// Parse runs line cleaning, tokenizing, assembly and the merge pass.
func (p *Parser) Parse(text string) ([]models.FilingRecord, error) {
	start := time.Now()

	lines := p.Lines(text)
	tokens := Tokenize(lines)
	assembled, err := Assemble(tokens, AssembleOptions{Strict: p.strict})
	if err != nil {
		return nil, err
	}
	records := Merge(assembled)

	p.logger.Debug().
		Int("lines", len(lines)).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("Filing text parsed")

	return records, nil
}
