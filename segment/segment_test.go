package segment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeyuyuyu/agent-v8/core"
)

// fakeExtractor serves canned page text keyed by page number.
type fakeExtractor struct {
	pages map[int]string
	err   error
}

func (f *fakeExtractor) PageCount([]byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.pages), nil
}

func (f *fakeExtractor) PageText(_ []byte, page int) (string, error) {
	return f.pages[page], nil
}

// fakeOCR recognizes every page as the same text, or fails.
type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) PageText(context.Context, []byte, int) (string, error) {
	return f.text, f.err
}

func TestPages_OneUnitPerPage(t *testing.T) {
	s := NewSegmenter(func(o *Options) {
		o.Extractor = &fakeExtractor{pages: map[int]string{1: "alpha", 2: "beta", 3: "gamma"}}
	})

	units, err := s.Pages(context.Background(), []byte("doc"))
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, core.WorkUnit{ID: "page_1", Text: "alpha", Position: 1}, units[0])
	assert.Equal(t, core.WorkUnit{ID: "page_2", Text: "beta", Position: 2}, units[1])
	assert.Equal(t, core.WorkUnit{ID: "page_3", Text: "gamma", Position: 3}, units[2])
}

func TestPages_BlankPageFallsBackToOCR(t *testing.T) {
	s := NewSegmenter(func(o *Options) {
		o.Extractor = &fakeExtractor{pages: map[int]string{1: "text", 2: "   "}}
		o.OCR = &fakeOCR{text: "recognized scan"}
	})

	units, err := s.Pages(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, "text", units[0].Text)
	assert.Equal(t, "recognized scan", units[1].Text)
}

func TestPages_MissingOCRLeavesUnitBlank(t *testing.T) {
	s := NewSegmenter(func(o *Options) {
		o.Extractor = &fakeExtractor{pages: map[int]string{1: ""}}
	})

	units, err := s.Pages(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, "", units[0].Text)
}

func TestPages_OCRFailureIsBestEffort(t *testing.T) {
	s := NewSegmenter(func(o *Options) {
		o.Extractor = &fakeExtractor{pages: map[int]string{1: ""}}
		o.OCR = &fakeOCR{err: errors.New("tesseract missing")}
	})

	units, err := s.Pages(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, "", units[0].Text)
}

func TestPages_UnreadableDocumentAborts(t *testing.T) {
	s := NewSegmenter(func(o *Options) {
		o.Extractor = &fakeExtractor{err: errors.New("not a pdf")}
	})

	_, err := s.Pages(context.Background(), []byte("garbage"))
	assert.Error(t, err)
}

func TestFlatUnit(t *testing.T) {
	u := FlatUnit("summarize this")
	assert.Equal(t, core.WorkUnit{ID: "chunk_1", Text: "summarize this", Position: 1}, u)
}

func TestSubtaskUnits_BoundariesComeFromThePlan(t *testing.T) {
	p := core.NewPlan()
	p.Add("agentA", "research pricing")
	p.Add("agentB", "draft outline")

	units := SubtaskUnits(p)
	require.Len(t, units, 2)
	assert.Equal(t, "research pricing", units[0].ID)
	assert.Equal(t, "research pricing", units[0].Text)
	assert.Equal(t, "draft outline", units[1].ID)
}
