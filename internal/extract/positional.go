package extract

import (
	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/layout"
)

// PositionalHeuristic reads document geography: vendors live in the first
// block of the first page, dates near the top, grand totals in the lower
// right. It is the weakest of the three and mostly breaks ties.
type PositionalHeuristic struct{}

func (h *PositionalHeuristic) Name() string { return "positional" }

func (h *PositionalHeuristic) Find(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	out = append(out, h.vendorCandidates(doc, cfg)...)
	out = append(out, h.dateCandidates(doc, cfg)...)
	out = append(out, h.totalCandidates(doc, cfg)...)
	return out
}

func (h *PositionalHeuristic) vendorCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	if len(doc.Blocks) == 0 {
		return nil
	}
	first := doc.Blocks[0]
	if first.PageIndex != 0 {
		return nil
	}

	var out []domain.FieldCandidate
	for rank, li := range first.LineIndexes {
		ln := doc.Lines[li]
		if !isVendorCandidate(ln.Text) {
			continue
		}
		decay := 1 - float64(rank)/10
		if decay <= 0 {
			break
		}
		score := cfg.PositionalWeight * lineConfidence(doc, ln) * decay
		value := titleCase(ln.Text)
		if cand, ok := newCandidate(doc, domain.FieldVendor, value, score, ln.TokenIndexes, "positional", "line in first block of first page"); ok {
			out = append(out, cand)
		}
	}
	return out
}

// dateCandidates scores date-shaped lines by vertical closeness to the
// vendor block, the first block of their page: issue dates sit in or just
// under the header that names the issuing party.
func (h *PositionalHeuristic) dateCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	for _, ln := range doc.Lines {
		spans := lineTokenSpans(doc, ln)
		for _, re := range datePatterns {
			loc := re.FindStringIndex(ln.Text)
			if loc == nil {
				continue
			}
			iso, ok := parseDate(ln.Text[loc[0]:loc[1]])
			if !ok {
				continue
			}
			tokenIdxs := tokensInRange(spans, loc[0], loc[1])
			if len(tokenIdxs) == 0 {
				continue
			}
			decay := vendorBlockProximity(doc, ln)
			conf := meanTokenConfidence(doc, tokenIdxs)
			score := cfg.PositionalWeight * conf * decay
			if cand, ok := newCandidate(doc, domain.FieldDate, iso, score, tokenIdxs, "positional", "date near vendor block"); ok {
				out = append(out, cand)
			}
			break
		}
	}
	return out
}

// totalCandidates scores amount-shaped tokens by how deep into the lower
// right of the page they sit. Summary sections trail the body, so depth and
// right alignment together point at the grand total.
func (h *PositionalHeuristic) totalCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	for ti, t := range doc.Tokens {
		if !strictAmountTokenRe.MatchString(t.Text) {
			continue
		}
		amount, ok := parseAmount(t.Text)
		if !ok {
			continue
		}
		top, bottom := doc.PageHeightBands(t.PageIndex)
		depth := depthWithinPage(t.Box.Y0, top, bottom)
		if depth < 0.5 {
			continue
		}
		decay := depth * (0.5 + 0.5*t.Box.CenterX())
		score := cfg.PositionalWeight * t.Confidence * decay
		cand, ok := newCandidate(doc, domain.FieldTotal, amount.StringFixed(2), score, []int{ti}, "positional", "amount in lower right of page")
		if !ok {
			continue
		}
		a := amount
		cand.Amount = &a
		out = append(out, cand)
	}
	return out
}

// vendorBlockProximity is 1.0 for lines inside or above the page's first
// block and falls linearly with vertical distance below it, reaching 0 at
// the page bottom.
func vendorBlockProximity(doc *layout.Document, ln layout.Line) float64 {
	top, bottom := doc.PageHeightBands(ln.PageIndex)
	var anchor *layout.Block
	for bi := range doc.Blocks {
		if doc.Blocks[bi].PageIndex == ln.PageIndex {
			anchor = &doc.Blocks[bi]
			break
		}
	}
	if anchor == nil || bottom <= top {
		return 1 - depthWithinPage(ln.Box.Y0, top, bottom)
	}
	dist := ln.Box.Y0 - anchor.Box.Y1
	if dist <= 0 {
		return 1
	}
	d := dist / (bottom - top)
	if d > 1 {
		d = 1
	}
	return 1 - d
}

// depthWithinPage maps a Y coordinate onto [0,1] between the first and last
// line of the page.
func depthWithinPage(y, top, bottom float64) float64 {
	if bottom <= top {
		return 0
	}
	d := (y - top) / (bottom - top)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
