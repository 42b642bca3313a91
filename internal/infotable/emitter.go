// Package infotable serializes report lines as a 13F information table.
package infotable

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
	"github.com/bobmcallan/thirteenf/internal/storage"
)

const indent = "  "

// Element names in document order.
const (
	elemInformationTable     = "informationTable"
	elemInfoTable            = "infoTable"
	elemNameOfIssuer         = "nameOfIssuer"
	elemTitleOfClass         = "titleOfClass"
	elemCUSIP                = "cusip"
	elemFIGI                 = "figi"
	elemValue                = "value"
	elemShrsOrPrnAmt         = "shrsOrPrnAmt"
	elemSshPrnamt            = "sshPrnamt"
	elemSshPrnamtType        = "sshPrnamtType"
	elemPutCall              = "putCall"
	elemInvestmentDiscretion = "investmentDiscretion"
	elemVotingAuthority      = "votingAuthority"
	elemSole                 = "Sole"
	elemShared               = "Shared"
	elemNone                 = "None"
)

// qname returns the prefixed element name. The namespace is declared once on
// the root with the ns1 prefix.
func qname(local string) xml.Name {
	return xml.Name{Local: models.InformationTableNSPrefix + ":" + local}
}

// encoder writes elements and remembers the first error.
type encoder struct {
	enc *xml.Encoder
	err error
}

func (e *encoder) token(t xml.Token) {
	if e.err != nil {
		return
	}
	e.err = e.enc.EncodeToken(t)
}

func (e *encoder) start(local string, attrs ...xml.Attr) {
	e.token(xml.StartElement{Name: qname(local), Attr: attrs})
}

func (e *encoder) end(local string) {
	e.token(xml.EndElement{Name: qname(local)})
}

func (e *encoder) text(local, value string) {
	e.start(local)
	if value != "" {
		e.token(xml.CharData(value))
	}
	e.end(local)
}

func (e *encoder) number(local string, n int64) {
	e.text(local, strconv.FormatInt(n, 10))
}

// Encode writes the information table document for lines to w.
func Encode(w io.Writer, lines []models.ReportLine) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	e := &encoder{enc: xml.NewEncoder(w)}
	e.enc.Indent("", indent)

	e.start(elemInformationTable, xml.Attr{
		Name:  xml.Name{Local: "xmlns:" + models.InformationTableNSPrefix},
		Value: models.InformationTableNS,
	})
	for _, line := range lines {
		writeLine(e, line)
	}
	e.end(elemInformationTable)

	if e.err != nil {
		return fmt.Errorf("failed to encode information table: %w", e.err)
	}
	if err := e.enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeLine(e *encoder, line models.ReportLine) {
	e.start(elemInfoTable)
	e.text(elemNameOfIssuer, line.NameOfIssuer)
	e.text(elemTitleOfClass, line.TitleOfClass)
	e.text(elemCUSIP, line.CUSIP)
	if line.FIGI != nil {
		e.text(elemFIGI, *line.FIGI)
	}
	e.number(elemValue, line.Value)

	e.start(elemShrsOrPrnAmt)
	e.number(elemSshPrnamt, line.Shares)
	e.text(elemSshPrnamtType, line.ShareType)
	e.end(elemShrsOrPrnAmt)

	if line.PutCall != nil {
		e.text(elemPutCall, *line.PutCall)
	}
	e.text(elemInvestmentDiscretion, line.InvestmentDiscretion)

	e.start(elemVotingAuthority)
	e.number(elemSole, line.Voting.Sole)
	e.number(elemShared, line.Voting.Shared)
	e.number(elemNone, line.Voting.None)
	e.end(elemVotingAuthority)

	e.end(elemInfoTable)
}

// Marshal returns the encoded document.
func Marshal(lines []models.ReportLine) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, lines); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Emitter writes information tables to disk.
type Emitter struct {
	logger *common.Logger
}

// NewEmitter creates an emitter.
func NewEmitter(logger *common.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// WriteFile encodes lines and atomically replaces path with the result.
func (em *Emitter) WriteFile(path string, lines []models.ReportLine) error {
	data, err := Marshal(lines)
	if err != nil {
		return models.NewKindError(models.KindSerialization, "%w", err)
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return models.NewKindError(models.KindSerialization, "failed to write %s: %w", path, err)
	}

	em.logger.Info().
		Str("path", path).
		Int("entries", len(lines)).
		Int("bytes", len(data)).
		Msg("Information table written")
	return nil
}
