package segment

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts embedded page text from PDF bytes. Scanned pages
// with no text layer extract to empty strings; pair with an OCR collaborator
// for those.
type PDFExtractor struct{}

var _ Extractor = (*PDFExtractor)(nil)

// NewPDFExtractor returns the default PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// PageCount implements Extractor.
func (e *PDFExtractor) PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// PageText implements Extractor. Pages are 1-based.
func (e *PDFExtractor) PageText(data []byte, page int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	if page < 1 || page > r.NumPage() {
		return "", fmt.Errorf("page %d out of range (1..%d)", page, r.NumPage())
	}
	p := r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	return text, nil
}
