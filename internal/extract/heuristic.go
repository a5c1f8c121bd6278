// Package extract scans an indexed layout for field candidates using
// keyword, pattern, and positional heuristics. Heuristics are independent:
// several may nominate the same token, and nothing with a positive score is
// ever dropped here — merging and conflict resolution belong to the
// resolver.
package extract

import (
	"sort"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/layout"
)

// Heuristic is the closed contract every candidate source implements.
type Heuristic interface {
	Name() string
	Find(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate
}

// DefaultHeuristics returns the standard registry in evaluation order.
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		&KeywordHeuristic{},
		&PatternHeuristic{},
		&PositionalHeuristic{},
	}
}

// Finder unions the candidates of all registered heuristics.
type Finder struct {
	heuristics []Heuristic
}

// NewFinder creates a Finder over the given heuristics; a nil or empty slice
// gets the default registry.
func NewFinder(heuristics ...Heuristic) *Finder {
	if len(heuristics) == 0 {
		heuristics = DefaultHeuristics()
	}
	return &Finder{heuristics: heuristics}
}

// Find runs every heuristic and returns the combined candidate list in a
// deterministic order (field, then position, then descending score).
func (f *Finder) Find(doc *layout.Document, cfg config.ExtractionConfig) []domain.FieldCandidate {
	var all []domain.FieldCandidate
	for _, h := range f.heuristics {
		all = append(all, h.Find(doc, cfg)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Field != all[j].Field {
			return all[i].Field < all[j].Field
		}
		if all[i].Position != all[j].Position {
			return all[i].Position.Before(all[j].Position)
		}
		return all[i].Score > all[j].Score
	})
	return all
}

// newCandidate assembles a candidate from source token indexes, filling
// confidence and position from the tokens themselves. Returns false when the
// score is not positive: zero-score candidates are filtered at the source.
func newCandidate(doc *layout.Document, field domain.FieldName, value string, score float64, tokenIdxs []int, heuristic, rationale string) (domain.FieldCandidate, bool) {
	if score <= 0 || len(tokenIdxs) == 0 {
		return domain.FieldCandidate{}, false
	}
	if score > 1 {
		score = 1
	}

	conf := 0.0
	for _, ti := range tokenIdxs {
		conf += doc.Tokens[ti].Confidence
	}
	conf /= float64(len(tokenIdxs))

	first := tokenIdxs[0]
	return domain.FieldCandidate{
		Field:        field,
		Value:        value,
		Score:        score,
		Confidence:   conf,
		TokenIndexes: append([]int(nil), tokenIdxs...),
		Position: domain.Position{
			PageIndex: doc.Tokens[first].PageIndex,
			LineIndex: doc.LineOfToken(first),
			X:         doc.Tokens[first].Box.X0,
		},
		Heuristic: heuristic,
		Rationale: rationale,
	}, true
}

// lineConfidence is the mean OCR confidence of a line's tokens.
func lineConfidence(doc *layout.Document, ln layout.Line) float64 {
	if len(ln.TokenIndexes) == 0 {
		return 0
	}
	sum := 0.0
	for _, ti := range ln.TokenIndexes {
		sum += doc.Tokens[ti].Confidence
	}
	return sum / float64(len(ln.TokenIndexes))
}

// tokenSpan is the character range a token occupies inside its line's
// assembled text. Line text joins tokens with single spaces, so spans are
// recoverable from token lengths alone.
type tokenSpan struct {
	start, end int
	tokenIdx   int
}

func lineTokenSpans(doc *layout.Document, ln layout.Line) []tokenSpan {
	spans := make([]tokenSpan, 0, len(ln.TokenIndexes))
	offset := 0
	for _, ti := range ln.TokenIndexes {
		n := len(doc.Tokens[ti].Text)
		spans = append(spans, tokenSpan{start: offset, end: offset + n, tokenIdx: ti})
		offset += n + 1
	}
	return spans
}

// tokensInRange returns the indexes of tokens overlapping [start,end) of the
// line text.
func tokensInRange(spans []tokenSpan, start, end int) []int {
	var idxs []int
	for _, sp := range spans {
		if sp.end > start && sp.start < end {
			idxs = append(idxs, sp.tokenIdx)
		}
	}
	return idxs
}
