package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/layout"
)

func tok(text string, x0, y0, x1, y1 float64) domain.Token {
	return domain.Token{
		Text:       text,
		Confidence: 0.9,
		Box:        domain.BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
	}
}

// receiptTokens lays out a small single-page receipt: a two-token header
// line, a date line, and a total line near the bottom.
func receiptTokens() []domain.Token {
	return []domain.Token{
		tok("ACME", 0.10, 0.02, 0.18, 0.04),
		tok("Corp", 0.20, 0.02, 0.26, 0.04),
		tok("Date:", 0.10, 0.10, 0.16, 0.12),
		tok("2024-01-15", 0.20, 0.10, 0.34, 0.12),
		tok("TOTAL", 0.10, 0.80, 0.18, 0.82),
		tok("42.00", 0.40, 0.80, 0.47, 0.82),
	}
}

func newIndexer() *layout.Indexer {
	return layout.NewIndexer(config.DefaultExtraction())
}

func TestIndex_Empty(t *testing.T) {
	doc := newIndexer().Index(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Lines)
	assert.Empty(t, doc.Blocks)
}

func TestIndex_GroupsTokensIntoLines(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())

	require.Len(t, doc.Lines, 3)
	assert.Equal(t, "ACME Corp", doc.Lines[0].Text)
	assert.Equal(t, "Date: 2024-01-15", doc.Lines[1].Text)
	assert.Equal(t, "TOTAL 42.00", doc.Lines[2].Text)
}

func TestIndex_LineBoxesCoverTokens(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())

	require.Len(t, doc.Lines, 3)
	first := doc.Lines[0]
	assert.InDelta(t, 0.10, first.Box.X0, 1e-9)
	assert.InDelta(t, 0.26, first.Box.X1, 1e-9)
	assert.InDelta(t, 0.02, first.Box.Y0, 1e-9)
	assert.InDelta(t, 0.04, first.Box.Y1, 1e-9)
}

func TestIndex_EveryTokenInExactlyOneLine(t *testing.T) {
	tokens := receiptTokens()
	doc := newIndexer().Index(tokens)

	seen := make(map[int]int)
	for _, ln := range doc.Lines {
		for _, ti := range ln.TokenIndexes {
			seen[ti]++
		}
	}
	for i := range tokens {
		assert.Equal(t, 1, seen[i], "token %d", i)
	}
}

func TestIndex_LineOfToken(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())

	for li, ln := range doc.Lines {
		for _, ti := range ln.TokenIndexes {
			assert.Equal(t, li, doc.LineOfToken(ti))
		}
	}
	assert.Equal(t, -1, doc.LineOfToken(-1))
	assert.Equal(t, -1, doc.LineOfToken(999))
}

func TestIndex_DeterministicUnderShuffle(t *testing.T) {
	tokens := receiptTokens()
	reversed := make([]domain.Token, len(tokens))
	for i, tk := range tokens {
		reversed[len(tokens)-1-i] = tk
	}

	a := newIndexer().Index(tokens)
	b := newIndexer().Index(reversed)

	require.Equal(t, len(a.Lines), len(b.Lines))
	for i := range a.Lines {
		assert.Equal(t, a.Lines[i].Text, b.Lines[i].Text)
		assert.Equal(t, a.Lines[i].Box, b.Lines[i].Box)
	}
	require.Equal(t, len(a.Blocks), len(b.Blocks))
}

func TestIndex_BlockBreakOnVerticalGap(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())

	// Gaps between all three lines exceed the block-break threshold, so
	// each line stands alone.
	require.Len(t, doc.Blocks, 3)
	for i, b := range doc.Blocks {
		assert.Equal(t, []int{i}, b.LineIndexes)
	}
}

func TestIndex_AdjacentLinesShareBlock(t *testing.T) {
	tokens := []domain.Token{
		tok("Line", 0.10, 0.100, 0.20, 0.120),
		tok("one", 0.22, 0.100, 0.28, 0.120),
		tok("Line", 0.10, 0.125, 0.20, 0.145),
		tok("two", 0.22, 0.125, 0.28, 0.145),
	}
	doc := newIndexer().Index(tokens)

	require.Len(t, doc.Lines, 2)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, []int{0, 1}, doc.Blocks[0].LineIndexes)
}

func TestIndex_BlockBreakOnIndentationJump(t *testing.T) {
	tokens := []domain.Token{
		tok("Left", 0.05, 0.100, 0.15, 0.120),
		tok("Indented", 0.40, 0.125, 0.55, 0.145),
	}
	doc := newIndexer().Index(tokens)

	require.Len(t, doc.Lines, 2)
	assert.Len(t, doc.Blocks, 2)
}

func TestIndex_PagesNeverShareLines(t *testing.T) {
	p0 := tok("same", 0.10, 0.50, 0.20, 0.52)
	p1 := tok("band", 0.30, 0.50, 0.40, 0.52)
	p1.PageIndex = 1

	doc := newIndexer().Index([]domain.Token{p0, p1})
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 0, doc.Lines[0].PageIndex)
	assert.Equal(t, 1, doc.Lines[1].PageIndex)
	assert.Len(t, doc.Blocks, 2)
}

func TestLineBelow(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())
	require.Len(t, doc.Lines, 3)

	anchor := doc.Lines[0].Box
	assert.Equal(t, 1, doc.LineBelow(0, anchor))
	assert.Equal(t, -1, doc.LineBelow(2, anchor))
	assert.Equal(t, -1, doc.LineBelow(99, anchor))
}

func TestPageHeightBands(t *testing.T) {
	doc := newIndexer().Index(receiptTokens())

	top, bottom := doc.PageHeightBands(0)
	assert.InDelta(t, 0.02, top, 1e-9)
	assert.InDelta(t, 0.82, bottom, 1e-9)

	// Unknown page falls back to the full band.
	top, bottom = doc.PageHeightBands(7)
	assert.Equal(t, 0.0, top)
	assert.Equal(t, 1.0, bottom)
}
