// Package layout groups OCR tokens into lines and blocks by spatial
// proximity, producing the navigable 2-D structure the field heuristics
// search over.
package layout

import (
	"sort"
	"strings"

	"docintel/internal/config"
	"docintel/internal/domain"
)

// Line is an ordered run of tokens sharing a horizontal band. It references
// tokens by index into the document's token slice and never copies them.
type Line struct {
	TokenIndexes []int
	Box          domain.BoundingBox
	PageIndex    int
	Text         string
}

// Block is an ordered run of lines grouped by vertical proximity and
// consistent indentation: a logical region such as a header, table, or footer.
type Block struct {
	LineIndexes []int
	Box         domain.BoundingBox
	PageIndex   int
}

// Document is the indexed layout of one token sequence. Every token belongs
// to exactly one line and every line to exactly one block.
type Document struct {
	Tokens []domain.Token
	Lines  []Line
	Blocks []Block

	lineOfToken []int
}

// LineOfToken returns the index of the line owning token i, or -1 if i is
// out of range.
func (d *Document) LineOfToken(i int) int {
	if i < 0 || i >= len(d.lineOfToken) {
		return -1
	}
	return d.lineOfToken[i]
}

// PageHeightBands returns the minimum and maximum Y seen on a page, used by
// positional priors to normalize "top" and "bottom" of sparse pages.
func (d *Document) PageHeightBands(page int) (top, bottom float64) {
	top, bottom = 1, 0
	for _, ln := range d.Lines {
		if ln.PageIndex != page {
			continue
		}
		if ln.Box.Y0 < top {
			top = ln.Box.Y0
		}
		if ln.Box.Y1 > bottom {
			bottom = ln.Box.Y1
		}
	}
	if top > bottom {
		return 0, 1
	}
	return top, bottom
}

// LineBelow returns the index of the first line after lineIdx on the same
// page whose horizontal range overlaps anchor, or -1 when none exists.
func (d *Document) LineBelow(lineIdx int, anchor domain.BoundingBox) int {
	if lineIdx < 0 || lineIdx >= len(d.Lines) {
		return -1
	}
	page := d.Lines[lineIdx].PageIndex
	for j := lineIdx + 1; j < len(d.Lines); j++ {
		if d.Lines[j].PageIndex != page {
			return -1
		}
		if d.Lines[j].Box.OverlapsX(anchor) {
			return j
		}
	}
	return -1
}

// Indexer builds Documents from raw token sequences.
type Indexer struct {
	cfg config.ExtractionConfig
}

// NewIndexer creates an Indexer with the given thresholds.
func NewIndexer(cfg config.ExtractionConfig) *Indexer {
	return &Indexer{cfg: cfg}
}

// Index groups tokens into lines and blocks. The output is deterministic for
// a given token set regardless of input ordering: tokens are sorted by
// (page, y0, x0) with full tie-breaks before any grouping. An empty token
// sequence yields an empty document, not an error.
func (ix *Indexer) Index(tokens []domain.Token) *Document {
	doc := &Document{
		Tokens:      tokens,
		lineOfToken: make([]int, len(tokens)),
	}
	if len(tokens) == 0 {
		return doc
	}

	order := sortedOrder(tokens)
	medianHeight := medianTokenHeightByPage(tokens)

	doc.Lines = ix.groupIntoLines(tokens, order, medianHeight)
	for li, ln := range doc.Lines {
		for _, ti := range ln.TokenIndexes {
			doc.lineOfToken[ti] = li
		}
	}

	doc.Blocks = ix.groupLinesIntoBlocks(doc.Lines, medianLineHeightByPage(doc.Lines))
	return doc
}

// sortedOrder returns token indexes sorted by (page, y0, x0). The trailing
// tie-breaks on geometry, text, and confidence make the order a pure
// function of token content, which is what keeps indexing deterministic for
// shuffled input.
func sortedOrder(tokens []domain.Token) []int {
	order := make([]int, len(tokens))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := tokens[order[a]], tokens[order[b]]
		if ta.PageIndex != tb.PageIndex {
			return ta.PageIndex < tb.PageIndex
		}
		if ta.Box.Y0 != tb.Box.Y0 {
			return ta.Box.Y0 < tb.Box.Y0
		}
		if ta.Box.X0 != tb.Box.X0 {
			return ta.Box.X0 < tb.Box.X0
		}
		if ta.Text != tb.Text {
			return ta.Text < tb.Text
		}
		return ta.Confidence < tb.Confidence
	})
	return order
}

func medianTokenHeightByPage(tokens []domain.Token) map[int]float64 {
	heights := make(map[int][]float64)
	for _, t := range tokens {
		heights[t.PageIndex] = append(heights[t.PageIndex], t.Box.Height())
	}
	medians := make(map[int]float64, len(heights))
	for page, hs := range heights {
		medians[page] = median(hs)
	}
	return medians
}

func medianLineHeightByPage(lines []Line) map[int]float64 {
	heights := make(map[int][]float64)
	for _, ln := range lines {
		heights[ln.PageIndex] = append(heights[ln.PageIndex], ln.Box.Height())
	}
	medians := make(map[int]float64, len(heights))
	for page, hs := range heights {
		medians[page] = median(hs)
	}
	return medians
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// groupIntoLines merges consecutive sorted tokens into a line while their
// vertical centers stay within the line-height tolerance of the running
// line center.
func (ix *Indexer) groupIntoLines(tokens []domain.Token, order []int, medianHeight map[int]float64) []Line {
	var lines []Line
	var current []int
	currentPage := -1
	centerSum := 0.0

	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, buildLine(tokens, current))
		current = nil
		centerSum = 0
	}

	for _, ti := range order {
		t := tokens[ti]
		if len(current) == 0 {
			current = append(current, ti)
			currentPage = t.PageIndex
			centerSum = t.Box.CenterY()
			continue
		}

		tolerance := ix.cfg.LineHeightFactor * medianHeight[currentPage]
		avgCenter := centerSum / float64(len(current))
		if t.PageIndex == currentPage && abs(t.Box.CenterY()-avgCenter) < tolerance {
			current = append(current, ti)
			centerSum += t.Box.CenterY()
			continue
		}

		flush()
		current = append(current, ti)
		currentPage = t.PageIndex
		centerSum = t.Box.CenterY()
	}
	flush()

	return lines
}

// buildLine orders the tokens left to right and assembles the line text.
func buildLine(tokens []domain.Token, idxs []int) Line {
	sort.SliceStable(idxs, func(a, b int) bool {
		ta, tb := tokens[idxs[a]], tokens[idxs[b]]
		if ta.Box.X0 != tb.Box.X0 {
			return ta.Box.X0 < tb.Box.X0
		}
		return ta.Text < tb.Text
	})

	box := tokens[idxs[0]].Box
	var sb strings.Builder
	for i, ti := range idxs {
		if i > 0 {
			box = box.Union(tokens[ti].Box)
			sb.WriteString(" ")
		}
		sb.WriteString(tokens[ti].Text)
	}

	return Line{
		TokenIndexes: idxs,
		Box:          box,
		PageIndex:    tokens[idxs[0]].PageIndex,
		Text:         sb.String(),
	}
}

// groupLinesIntoBlocks starts a new block on a page change, on a vertical
// gap above the block-break threshold, or on a sharp indentation jump.
func (ix *Indexer) groupLinesIntoBlocks(lines []Line, medianLineHeight map[int]float64) []Block {
	var blocks []Block
	var current []int

	flush := func() {
		if len(current) == 0 {
			return
		}
		box := lines[current[0]].Box
		for _, li := range current[1:] {
			box = box.Union(lines[li].Box)
		}
		blocks = append(blocks, Block{
			LineIndexes: current,
			Box:         box,
			PageIndex:   lines[current[0]].PageIndex,
		})
		current = nil
	}

	for li := range lines {
		if len(current) == 0 {
			current = append(current, li)
			continue
		}

		prev := lines[current[len(current)-1]]
		curr := lines[li]
		threshold := ix.cfg.BlockBreakFactor * medianLineHeight[prev.PageIndex]
		gap := curr.Box.Y0 - prev.Box.Y1
		indentJump := abs(curr.Box.X0 - prev.Box.X0)

		if curr.PageIndex != prev.PageIndex || gap > threshold || indentJump > ix.cfg.IndentationJump {
			flush()
		}
		current = append(current, li)
	}
	flush()

	return blocks
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
