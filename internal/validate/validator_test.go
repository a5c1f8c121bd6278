package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/validate"
)

func resolved(value string) domain.FieldValue {
	amt := decimal.RequireFromString(value)
	return domain.FieldValue{Resolved: true, Value: value, Amount: &amt, Score: 0.8}
}

func record(subtotal, tax, total string) domain.ExtractedRecord {
	return domain.ExtractedRecord{
		Subtotal: resolved(subtotal),
		Tax:      resolved(tax),
		Total:    resolved(total),
	}
}

func newValidator() *validate.Validator {
	return validate.NewValidator(config.DefaultValidation())
}

func TestCheck_Consistent(t *testing.T) {
	result := newValidator().Check(record("10.00", "1.00", "11.00"))

	require.NotNil(t, result.IsConsistent)
	assert.True(t, *result.IsConsistent)
	require.NotNil(t, result.Discrepancy)
	assert.Equal(t, "0.00", result.Discrepancy.StringFixed(2))
	assert.Equal(t, "total = subtotal + tax", result.CheckedRule)
}

func TestCheck_Inconsistent(t *testing.T) {
	result := newValidator().Check(record("10.00", "1.00", "12.50"))

	require.NotNil(t, result.IsConsistent)
	assert.False(t, *result.IsConsistent)
	require.NotNil(t, result.Discrepancy)
	assert.Equal(t, "1.50", result.Discrepancy.StringFixed(2))
}

func TestCheck_WithinAbsoluteEpsilon(t *testing.T) {
	result := newValidator().Check(record("10.00", "1.00", "11.02"))

	require.NotNil(t, result.IsConsistent)
	assert.True(t, *result.IsConsistent)
	assert.Equal(t, "0.02", result.Discrepancy.StringFixed(2))
}

func TestCheck_RelativeToleranceForLargeTotals(t *testing.T) {
	// 1% of 1085.00 is 10.85, which dominates the absolute epsilon.
	result := newValidator().Check(record("1000.00", "80.00", "1085.00"))

	require.NotNil(t, result.IsConsistent)
	assert.True(t, *result.IsConsistent)
	assert.Equal(t, "5.00", result.Discrepancy.StringFixed(2))
}

func TestCheck_NegativeDiscrepancyUsesAbsoluteValue(t *testing.T) {
	result := newValidator().Check(record("10.00", "1.00", "10.99"))

	require.NotNil(t, result.IsConsistent)
	assert.True(t, *result.IsConsistent)
	assert.Equal(t, "-0.01", result.Discrepancy.StringFixed(2))
}

func TestCheck_MissingOperandIsIndeterminate(t *testing.T) {
	cases := map[string]domain.ExtractedRecord{
		"no_subtotal": {Tax: resolved("1.00"), Total: resolved("11.00")},
		"no_tax":      {Subtotal: resolved("10.00"), Total: resolved("11.00")},
		"no_total":    {Subtotal: resolved("10.00"), Tax: resolved("1.00")},
		"empty":       {},
	}

	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			result := newValidator().Check(rec)
			assert.Nil(t, result.IsConsistent)
			assert.Nil(t, result.Discrepancy)
			assert.Equal(t, "total = subtotal + tax", result.CheckedRule)
		})
	}
}

func TestCheck_ResolvedWithoutAmountIsIndeterminate(t *testing.T) {
	rec := record("10.00", "1.00", "11.00")
	rec.Total.Amount = nil

	result := newValidator().Check(rec)
	assert.Nil(t, result.IsConsistent)
	assert.Nil(t, result.Discrepancy)
}
