package extract

import (
	"fmt"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/layout"
)

// KeywordHeuristic anchors on a field's label vocabulary and takes the
// nearest plausible value token: same line right of the label first, then
// the next line directly below, both within the search radius.
type KeywordHeuristic struct{}

func (h *KeywordHeuristic) Name() string { return "keyword" }

func (h *KeywordHeuristic) Find(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate

	for li, ln := range doc.Lines {
		// lowerASCII keeps byte offsets aligned with the token spans.
		lower := lowerASCII(ln.Text)
		spans := lineTokenSpans(doc, ln)

		for _, field := range []domain.FieldName{domain.FieldSubtotal, domain.FieldTax, domain.FieldTotal, domain.FieldDate} {
			if field == domain.FieldTotal && matchesLabel(domain.FieldSubtotal, lower) {
				// "Sub Total" would otherwise satisfy the bare "total" label.
				continue
			}
			for labelIdx, re := range labelPatterns[field] {
				loc := re.FindStringIndex(lower)
				if loc == nil {
					continue
				}
				label := labelVocabulary[field][labelIdx]
				anchorTokens := tokensInRange(spans, loc[0], loc[1])
				if len(anchorTokens) == 0 {
					continue
				}
				anchorBox := doc.Tokens[anchorTokens[0]].Box
				for _, ti := range anchorTokens[1:] {
					anchorBox = anchorBox.Union(doc.Tokens[ti].Box)
				}

				if cand, ok := h.valueRightOf(doc, ln, anchorBox, field, label, cfg); ok {
					out = append(out, cand)
					break
				}
				if cand, ok := h.valueBelow(doc, li, anchorBox, field, label, cfg); ok {
					out = append(out, cand)
					break
				}
			}
		}
	}

	return out
}

// valueRightOf scans the anchor's own line left to right for the first value
// token starting at or past the label's right edge.
func (h *KeywordHeuristic) valueRightOf(doc *layout.Document, ln layout.Line, anchor domain.BoundingBox, field domain.FieldName, label string, cfg config.ExtractionConfig) (domain.FieldCandidate, bool) {
	for _, ti := range ln.TokenIndexes {
		t := doc.Tokens[ti]
		if t.Box.X0 < anchor.X1 {
			continue
		}
		value, ok := h.parseValue(field, t.Text)
		if !ok {
			continue
		}
		dist := t.Box.X0 - anchor.X1
		decay := proximityDecay(dist, cfg.SearchRadius)
		score := cfg.KeywordWeight * t.Confidence * decay
		rationale := fmt.Sprintf("label %q, value right of label on same line", label)
		return buildKeywordCandidate(doc, field, value, score, ti, rationale)
	}
	return domain.FieldCandidate{}, false
}

// valueBelow falls back to the next line on the page that overlaps the
// anchor horizontally.
func (h *KeywordHeuristic) valueBelow(doc *layout.Document, lineIdx int, anchor domain.BoundingBox, field domain.FieldName, label string, cfg config.ExtractionConfig) (domain.FieldCandidate, bool) {
	below := doc.LineBelow(lineIdx, anchor)
	if below < 0 {
		return domain.FieldCandidate{}, false
	}
	for _, ti := range doc.Lines[below].TokenIndexes {
		t := doc.Tokens[ti]
		if !t.Box.OverlapsX(anchor) {
			continue
		}
		value, ok := h.parseValue(field, t.Text)
		if !ok {
			continue
		}
		dist := t.Box.Y0 - anchor.Y1
		decay := proximityDecay(dist, cfg.SearchRadius)
		score := cfg.KeywordWeight * t.Confidence * decay
		rationale := fmt.Sprintf("label %q, value on next line below label", label)
		return buildKeywordCandidate(doc, field, value, score, ti, rationale)
	}
	return domain.FieldCandidate{}, false
}

// parseValue normalizes a token into the field's canonical value form.
func (h *KeywordHeuristic) parseValue(field domain.FieldName, text string) (string, bool) {
	if domain.AmountFields[field] {
		if !amountTokenRe.MatchString(text) {
			return "", false
		}
		amount, ok := parseAmount(text)
		if !ok {
			return "", false
		}
		return amount.StringFixed(2), true
	}
	// date
	return parseDate(text)
}

func buildKeywordCandidate(doc *layout.Document, field domain.FieldName, value string, score float64, tokenIdx int, rationale string) (domain.FieldCandidate, bool) {
	cand, ok := newCandidate(doc, field, value, score, []int{tokenIdx}, "keyword", rationale)
	if !ok {
		return domain.FieldCandidate{}, false
	}
	if domain.AmountFields[field] {
		if amount, parsed := parseAmount(value); parsed {
			cand.Amount = &amount
		}
	}
	return cand, true
}

// proximityDecay is 1.0 at the anchor and falls linearly to 0 at the search
// radius. Negative distances (overlap) count as zero distance.
func proximityDecay(dist, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	if dist < 0 {
		dist = 0
	}
	if dist >= radius {
		return 0
	}
	return 1 - dist/radius
}
