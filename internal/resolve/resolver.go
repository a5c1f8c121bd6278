// Package resolve turns the heuristics' scored candidates into a single
// extracted record. Resolution is a pure function of its input: running it
// twice over the same candidates yields identical records.
package resolve

import (
	"sort"

	"docintel/internal/config"
	"docintel/internal/domain"
)

type Resolver struct {
	cfg config.ExtractionConfig
}

func NewResolver(cfg config.ExtractionConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve picks at most one winner per singular field and an ordered,
// deduplicated sequence of line items. Fields with no candidates stay
// unresolved rather than defaulting to zero values.
func (r *Resolver) Resolve(candidates []domain.FieldCandidate) domain.ExtractedRecord {
	byField := make(map[domain.FieldName][]domain.FieldCandidate)
	for _, c := range candidates {
		byField[c.Field] = append(byField[c.Field], c)
	}

	var record domain.ExtractedRecord
	for _, field := range domain.SingularFields {
		group := byField[field]
		if len(group) == 0 {
			continue
		}
		best := pickBest(group)
		slot := record.Field(field)
		*slot = domain.FieldValue{
			Resolved:     true,
			Value:        best.Value,
			Amount:       best.Amount,
			Score:        best.Score,
			TokenIndexes: best.TokenIndexes,
		}
	}

	record.LineItems = r.resolveLineItems(byField[domain.FieldLineItem])
	return record
}

// pickBest orders a field's candidates by score, then by how many other
// candidates agree on the same value, then OCR confidence, then reading
// order. The ordering is total, so the winner is unique.
func pickBest(group []domain.FieldCandidate) domain.FieldCandidate {
	agreement := make(map[string]int, len(group))
	for _, c := range group {
		agreement[c.Value]++
	}

	sorted := make([]domain.FieldCandidate, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(a, b int) bool {
		ca, cb := sorted[a], sorted[b]
		if ca.Score != cb.Score {
			return ca.Score > cb.Score
		}
		if agreement[ca.Value] != agreement[cb.Value] {
			return agreement[ca.Value] > agreement[cb.Value]
		}
		if ca.Confidence != cb.Confidence {
			return ca.Confidence > cb.Confidence
		}
		if ca.Position != cb.Position {
			return ca.Position.Before(cb.Position)
		}
		return ca.Value < cb.Value
	})
	return sorted[0]
}

// resolveLineItems keeps candidates above the score floor, collapses
// duplicates that name the same value at the same position, and returns
// them in reading order.
func (r *Resolver) resolveLineItems(group []domain.FieldCandidate) []domain.FieldValue {
	kept := group[:0:0]
	for _, c := range group {
		if c.Score < r.cfg.LineItemMinScore {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(a, b int) bool {
		if kept[a].Position != kept[b].Position {
			return kept[a].Position.Before(kept[b].Position)
		}
		return kept[a].Score > kept[b].Score
	})

	type itemKey struct {
		value string
		pos   domain.Position
	}
	seen := make(map[itemKey]bool, len(kept))
	items := make([]domain.FieldValue, 0, len(kept))
	for _, c := range kept {
		key := itemKey{value: c.Value, pos: c.Position}
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, domain.FieldValue{
			Resolved:     true,
			Value:        c.Value,
			Amount:       c.Amount,
			Score:        c.Score,
			TokenIndexes: c.TokenIndexes,
		})
	}
	return items
}
