package extract

import (
	"strings"
	"unicode"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/layout"
)

// PatternHeuristic proposes candidates from token shape alone: currency
// amounts, date strings, name-like header lines and amount-bearing body
// lines. It carries no label context, so its weight sits below the keyword
// heuristic and the resolver arbitrates.
type PatternHeuristic struct{}

// shapeOnlyDecay stands in for proximity decay when a candidate carries no
// label anchor. It keeps shape-only amounts below any reasonably close
// keyword-anchored value.
const shapeOnlyDecay = 0.4

func (h *PatternHeuristic) Name() string { return "pattern" }

func (h *PatternHeuristic) Find(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	out = append(out, h.amountCandidates(doc, cfg)...)
	out = append(out, h.dateCandidates(doc, cfg)...)
	out = append(out, h.vendorCandidates(doc, cfg)...)
	out = append(out, h.lineItemCandidates(doc, cfg)...)
	return out
}

// amountCandidates nominates strictly amount-shaped tokens for the total
// only. Shape alone cannot tell a subtotal or tax apart from any other
// number on the page, so those fields require a label anchor and a receipt
// without one leaves them unresolved.
func (h *PatternHeuristic) amountCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	for ti, t := range doc.Tokens {
		if !strictAmountTokenRe.MatchString(t.Text) {
			continue
		}
		amount, ok := parseAmount(t.Text)
		if !ok {
			continue
		}
		score := cfg.PatternWeight * t.Confidence * shapeOnlyDecay
		cand, ok := newCandidate(doc, domain.FieldTotal, amount.StringFixed(2), score, []int{ti}, "pattern", "amount-shaped token")
		if !ok {
			continue
		}
		a := amount
		cand.Amount = &a
		out = append(out, cand)
	}
	return out
}

func (h *PatternHeuristic) dateCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
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
			conf := meanTokenConfidence(doc, tokenIdxs)
			score := cfg.PatternWeight * conf
			if cand, ok := newCandidate(doc, domain.FieldDate, iso, score, tokenIdxs, "pattern", "date-shaped text"); ok {
				out = append(out, cand)
			}
			break
		}
	}
	return out
}

// vendorCandidates considers the opening lines of the first page. Receipts
// and invoices put the issuing party in the header, so rank decays with
// line position.
func (h *PatternHeuristic) vendorCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	const headerLines = 10

	var out []domain.FieldCandidate
	seen := 0
	for _, ln := range doc.Lines {
		if ln.PageIndex != 0 {
			break
		}
		if seen >= headerLines {
			break
		}
		rank := seen
		seen++
		if !isVendorCandidate(ln.Text) {
			continue
		}
		decay := 1 - float64(rank)/float64(headerLines)
		score := cfg.PatternWeight * lineConfidence(doc, ln) * decay
		value := titleCase(ln.Text)
		if cand, ok := newCandidate(doc, domain.FieldVendor, value, score, ln.TokenIndexes, "pattern", "name-like header line"); ok {
			out = append(out, cand)
		}
	}
	return out
}

// lineItemCandidates picks body lines that pair descriptive text with an
// amount and carry no field label.
func (h *PatternHeuristic) lineItemCandidates(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	for _, ln := range doc.Lines {
		lower := strings.ToLower(ln.Text)
		if containsLabel(lower) {
			continue
		}
		amountIdx := -1
		hasText := false
		for _, ti := range ln.TokenIndexes {
			t := doc.Tokens[ti]
			if strictAmountTokenRe.MatchString(t.Text) {
				amountIdx = ti
				continue
			}
			if hasAlpha(t.Text) {
				hasText = true
			}
		}
		if amountIdx < 0 || !hasText {
			continue
		}
		amount, ok := parseAmount(doc.Tokens[amountIdx].Text)
		if !ok {
			continue
		}
		score := cfg.PatternWeight * lineConfidence(doc, ln)
		cand, ok := newCandidate(doc, domain.FieldLineItem, ln.Text, score, ln.TokenIndexes, "pattern", "descriptive line with trailing amount")
		if !ok {
			continue
		}
		cand.Amount = &amount
		out = append(out, cand)
	}
	return out
}

func meanTokenConfidence(doc *layout.Document, tokenIdxs []int) float64 {
	if len(tokenIdxs) == 0 {
		return 0
	}
	sum := 0.0
	for _, ti := range tokenIdxs {
		sum += doc.Tokens[ti].Confidence
	}
	return sum / float64(len(tokenIdxs))
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
