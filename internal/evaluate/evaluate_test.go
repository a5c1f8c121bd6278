package evaluate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/evaluate"
)

func resolvedField(value string) domain.FieldValue {
	return domain.FieldValue{Resolved: true, Value: value}
}

func resolvedAmount(value string) domain.FieldValue {
	d := decimal.RequireFromString(value)
	return domain.FieldValue{Resolved: true, Value: d.StringFixed(2), Amount: &d}
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func newScorer() *evaluate.Scorer {
	return evaluate.NewScorer(config.DefaultValidation())
}

func TestScore_ExactMatches(t *testing.T) {
	record := domain.ExtractedRecord{
		Vendor:   resolvedField("Acme Corp"),
		Date:     resolvedField("2024-01-15"),
		Subtotal: resolvedAmount("10.00"),
		Tax:      resolvedAmount("1.00"),
		Total:    resolvedAmount("11.00"),
	}
	truth := evaluate.GroundTruth{
		Vendor:   "Acme Corp",
		Date:     "2024-01-15",
		Subtotal: dec("10.00"),
		Tax:      dec("1.00"),
		Total:    dec("11.00"),
	}

	score := newScorer().Score("receipt.pdf", record, truth)

	require.Len(t, score.Fields, 5)
	for _, f := range score.Fields {
		assert.Equal(t, 1.0, f.Score, "field %s", f.Field)
	}
	assert.Equal(t, 1.0, score.Mean)
}

func TestScore_VendorCaseInsensitive(t *testing.T) {
	record := domain.ExtractedRecord{Vendor: resolvedField("ACME CORP")}
	score := newScorer().Score("r", record, evaluate.GroundTruth{Vendor: "Acme Corp"})

	require.Len(t, score.Fields, 1)
	assert.Equal(t, 1.0, score.Fields[0].Score)
}

func TestScore_VendorContainment(t *testing.T) {
	record := domain.ExtractedRecord{Vendor: resolvedField("Acme Corp Inc")}
	score := newScorer().Score("r", record, evaluate.GroundTruth{Vendor: "Acme Corp"})

	require.Len(t, score.Fields, 1)
	assert.Equal(t, 0.7, score.Fields[0].Score)
}

func TestScore_VendorMiss(t *testing.T) {
	record := domain.ExtractedRecord{Vendor: resolvedField("Widget World")}
	score := newScorer().Score("r", record, evaluate.GroundTruth{Vendor: "Acme Corp"})

	require.Len(t, score.Fields, 1)
	assert.Equal(t, 0.0, score.Fields[0].Score)
}

func TestScore_UnresolvedTruthFieldScoresZero(t *testing.T) {
	score := newScorer().Score("r", domain.ExtractedRecord{}, evaluate.GroundTruth{Vendor: "Acme Corp"})

	require.Len(t, score.Fields, 1)
	assert.Equal(t, 0.0, score.Fields[0].Score)
	assert.Equal(t, 0.0, score.Mean)
}

func TestScore_AmountTolerance(t *testing.T) {
	// Default tolerance for 1.00 is the 0.02 epsilon floor.
	cases := []struct {
		name   string
		actual string
		want   float64
	}{
		{"exact", "1.00", 1.0},
		{"within tolerance", "1.02", 1.0},
		{"within double tolerance", "1.04", 0.5},
		{"beyond", "1.50", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := domain.ExtractedRecord{Total: resolvedAmount(tc.actual)}
			score := newScorer().Score("r", record, evaluate.GroundTruth{Total: dec("1.00")})
			require.Len(t, score.Fields, 1)
			assert.Equal(t, tc.want, score.Fields[0].Score)
		})
	}
}

func TestScore_OnlyTruthFieldsGraded(t *testing.T) {
	record := domain.ExtractedRecord{
		Vendor: resolvedField("Acme Corp"),
		Total:  resolvedAmount("11.00"),
	}
	score := newScorer().Score("r", record, evaluate.GroundTruth{Total: dec("11.00")})

	require.Len(t, score.Fields, 1)
	assert.Equal(t, domain.FieldTotal, score.Fields[0].Field)
}

func TestSummarize(t *testing.T) {
	scores := []evaluate.DocumentScore{
		{
			DocumentName: "a",
			Fields: []evaluate.FieldScore{
				{Field: domain.FieldVendor, Score: 1.0},
				{Field: domain.FieldTotal, Score: 0.5},
			},
			Mean: 0.75,
		},
		{
			DocumentName: "b",
			Fields: []evaluate.FieldScore{
				{Field: domain.FieldVendor, Score: 0.0},
			},
			Mean: 0.0,
		},
	}

	report := evaluate.Summarize(scores)

	assert.Equal(t, 2, report.Documents)
	assert.InDelta(t, 0.375, report.Overall, 1e-9)
	assert.InDelta(t, 0.5, report.PerField[domain.FieldVendor], 1e-9)
	assert.InDelta(t, 0.5, report.PerField[domain.FieldTotal], 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	report := evaluate.Summarize(nil)

	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, 0.0, report.Overall)
	assert.Empty(t, report.PerField)
}
