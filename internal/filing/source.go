package filing

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bobmcallan/thirteenf/internal/models"
)

// pageSeparator is appended after every page's text.
const pageSeparator = "  "

// PDFSource extracts the plain text of a filing PDF.
type PDFSource struct{}

// NewPDFSource creates a PDF text source.
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

// ExtractText returns the text of every page in order, each page followed by
// a newline and a double-space separator.
func (s *PDFSource) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", models.NewKindError(models.KindInputAccess, "filing document %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", models.NewKindError(models.KindInputAccess, "failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	totalPages := r.NumPage()
	pages := make([]string, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", models.NewKindError(models.KindDataFormat, "failed to read page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}

	return joinPages(pages), nil
}

// joinPages concatenates page texts. A page that does not end in a newline
// gets one so its last line never runs into the next page's first line.
func joinPages(pages []string) string {
	var sb strings.Builder
	for _, text := range pages {
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(pageSeparator)
	}
	return sb.String()
}
