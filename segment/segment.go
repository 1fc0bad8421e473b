// Package segment turns a document or a flat task string into the ordered
// work units the dispatch layer addresses. Document text extraction and OCR
// are external collaborators behind small interfaces; the default extractor
// reads PDF page text.
package segment

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeyuyuyu/agent-v8/core"
	"github.com/zeyuyuyu/agent-v8/logging"
)

// Extractor pulls per-page text out of raw document bytes. Pages are
// addressed 1-based.
type Extractor interface {
	PageCount(data []byte) (int, error)
	PageText(data []byte, page int) (string, error)
}

// OCR is the optional fallback consulted when a page extracts to blank
// text (scanned documents). A nil OCR simply leaves the unit blank;
// absence of OCR capability is not an error.
type OCR interface {
	PageText(ctx context.Context, data []byte, page int) (string, error)
}

// Options configure a Segmenter.
type Options struct {
	Extractor Extractor
	OCR       OCR
	Logger    logging.Logger
}

// Segmenter produces work units from documents and flat tasks.
type Segmenter struct {
	extractor Extractor
	ocr       OCR
	logger    logging.Logger
}

// NewSegmenter constructs a Segmenter. The default extractor is the PDF
// one; OCR defaults to absent.
func NewSegmenter(optFns ...func(o *Options)) *Segmenter {
	opts := Options{
		Extractor: NewPDFExtractor(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Segmenter{extractor: opts.Extractor, ocr: opts.OCR, logger: opts.Logger}
}

// Pages segments document bytes into one WorkUnit per page, ids "page_1"
// onward. A document that cannot be read is the one segmentation failure
// that aborts a run, so errors propagate. Blank pages fall back to OCR when
// available; an OCR failure is best-effort and leaves the unit blank.
func (s *Segmenter) Pages(ctx context.Context, data []byte) ([]core.WorkUnit, error) {
	count, err := s.extractor.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("segment document: %w", err)
	}
	units := make([]core.WorkUnit, 0, count)
	for i := 1; i <= count; i++ {
		text, err := s.extractor.PageText(data, i)
		if err != nil {
			return nil, fmt.Errorf("segment page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" && s.ocr != nil {
			ocrText, err := s.ocr.PageText(ctx, data, i)
			if err != nil {
				s.logger.Warn("ocr fallback failed", "page", i, "error", err)
			} else {
				text = strings.TrimSpace(ocrText)
			}
		}
		units = append(units, core.WorkUnit{
			ID:       fmt.Sprintf("page_%d", i),
			Text:     text,
			Position: i,
		})
	}
	return units, nil
}

// FlatUnit wraps a whole flat-text task as the single unit of a run that
// needs no decomposition.
func FlatUnit(task string) core.WorkUnit {
	return core.WorkUnit{ID: "chunk_1", Text: task, Position: 1}
}

// SubtaskUnits derives units from a decomposition plan: the planning oracle
// defines both boundaries and assignment in one response, so each subtask
// string is its own identifier and context text.
func SubtaskUnits(p *core.Plan) []core.WorkUnit {
	var units []core.WorkUnit
	pos := 0
	for _, pair := range p.Pairs() {
		pos++
		units = append(units, core.WorkUnit{ID: pair.UnitID, Text: pair.UnitID, Position: pos})
	}
	return units
}
