// Package evaluate scores extraction output against hand-labeled ground
// truth. It reuses the validator's tolerance policy for amounts so that
// evaluation agrees with runtime validation about what counts as close
// enough.
package evaluate

import (
	"strings"

	"github.com/shopspring/decimal"

	"docintel/internal/config"
	"docintel/internal/domain"
)

// GroundTruth holds the labeled expected values for one document. Nil or
// empty fields are excluded from scoring rather than counted as misses.
type GroundTruth struct {
	Vendor   string           `json:"vendor,omitempty"`
	Date     string           `json:"date,omitempty"`
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
	Total    *decimal.Decimal `json:"total,omitempty"`
}

// FieldScore grades one field of one document in [0,1].
type FieldScore struct {
	Field    domain.FieldName `json:"field"`
	Expected string           `json:"expected"`
	Actual   string           `json:"actual"`
	Score    float64          `json:"score"`
}

// DocumentScore aggregates all graded fields of one document.
type DocumentScore struct {
	DocumentName string       `json:"document_name"`
	Fields       []FieldScore `json:"fields"`
	Mean         float64      `json:"mean"`
}

type Scorer struct {
	cfg config.ValidationConfig
}

func NewScorer(cfg config.ValidationConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score grades a record against its truth. Only fields present in the truth
// are graded; a truth field the record left unresolved scores zero.
func (s *Scorer) Score(documentName string, record domain.ExtractedRecord, truth GroundTruth) DocumentScore {
	var fields []FieldScore

	if truth.Vendor != "" {
		fields = append(fields, FieldScore{
			Field:    domain.FieldVendor,
			Expected: truth.Vendor,
			Actual:   record.Vendor.Value,
			Score:    scoreVendor(truth.Vendor, record.Vendor),
		})
	}
	if truth.Date != "" {
		fields = append(fields, FieldScore{
			Field:    domain.FieldDate,
			Expected: truth.Date,
			Actual:   record.Date.Value,
			Score:    scoreDate(truth.Date, record.Date),
		})
	}
	for _, amt := range []struct {
		field    domain.FieldName
		expected *decimal.Decimal
		actual   domain.FieldValue
	}{
		{domain.FieldSubtotal, truth.Subtotal, record.Subtotal},
		{domain.FieldTax, truth.Tax, record.Tax},
		{domain.FieldTotal, truth.Total, record.Total},
	} {
		if amt.expected == nil {
			continue
		}
		fields = append(fields, FieldScore{
			Field:    amt.field,
			Expected: amt.expected.StringFixed(2),
			Actual:   amt.actual.Value,
			Score:    s.scoreAmount(*amt.expected, amt.actual),
		})
	}

	score := DocumentScore{DocumentName: documentName, Fields: fields}
	if len(fields) > 0 {
		sum := 0.0
		for _, f := range fields {
			sum += f.Score
		}
		score.Mean = sum / float64(len(fields))
	}
	return score
}

// scoreVendor gives full credit for a case-insensitive exact match and
// partial credit when one name contains the other, which absorbs suffix
// noise like "Inc" or a trailing address fragment.
func scoreVendor(expected string, actual domain.FieldValue) float64 {
	if !actual.Resolved || actual.Value == "" {
		return 0
	}
	e := strings.ToLower(strings.TrimSpace(expected))
	a := strings.ToLower(strings.TrimSpace(actual.Value))
	switch {
	case e == a:
		return 1.0
	case strings.Contains(e, a) || strings.Contains(a, e):
		return 0.7
	default:
		return 0
	}
}

func scoreDate(expected string, actual domain.FieldValue) float64 {
	if !actual.Resolved || actual.Value != expected {
		return 0
	}
	return 1.0
}

// scoreAmount gives full credit within the validation tolerance and half
// credit within twice the tolerance.
func (s *Scorer) scoreAmount(expected decimal.Decimal, actual domain.FieldValue) float64 {
	if !actual.Resolved || actual.Amount == nil {
		return 0
	}
	tolerance := decimal.NewFromFloat(s.cfg.Epsilon)
	if relative := expected.Abs().Mul(decimal.NewFromFloat(s.cfg.Percent)).Round(s.cfg.Precision); relative.GreaterThan(tolerance) {
		tolerance = relative
	}

	diff := actual.Amount.Sub(expected).Abs()
	switch {
	case diff.LessThanOrEqual(tolerance):
		return 1.0
	case diff.LessThanOrEqual(tolerance.Mul(decimal.NewFromInt(2))):
		return 0.5
	default:
		return 0
	}
}

// Summarize averages document scores into per-field and overall means.
func Summarize(scores []DocumentScore) Report {
	report := Report{
		Documents: len(scores),
		PerField:  make(map[domain.FieldName]float64),
	}
	counts := make(map[domain.FieldName]int)

	total := 0.0
	graded := 0
	for _, ds := range scores {
		if len(ds.Fields) == 0 {
			continue
		}
		total += ds.Mean
		graded++
		for _, f := range ds.Fields {
			report.PerField[f.Field] += f.Score
			counts[f.Field]++
		}
	}
	for field, sum := range report.PerField {
		report.PerField[field] = sum / float64(counts[field])
	}
	if graded > 0 {
		report.Overall = total / float64(graded)
	}
	return report
}

// Report is the corpus-level evaluation summary.
type Report struct {
	Documents int                          `json:"documents"`
	Overall   float64                      `json:"overall"`
	PerField  map[domain.FieldName]float64 `json:"per_field"`
}
