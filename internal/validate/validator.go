// Package validate checks the arithmetic consistency of an extracted record.
package validate

import (
	"github.com/shopspring/decimal"

	"docintel/internal/config"
	"docintel/internal/domain"
)

const ruleTotalSum = "total = subtotal + tax"

type Validator struct {
	cfg config.ValidationConfig
}

func NewValidator(cfg config.ValidationConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Check verifies total against subtotal plus tax. The verdict is
// indeterminate (nil) unless all three amounts were resolved; an OCR
// pipeline cannot tell a missing subtotal from a zero one, so it refuses to
// guess. Tolerance is the larger of the absolute epsilon and the configured
// percentage of the total, which keeps small receipts strict without
// flagging rounding drift on large invoices.
func (v *Validator) Check(record domain.ExtractedRecord) domain.ValidationResult {
	result := domain.ValidationResult{CheckedRule: ruleTotalSum}

	subtotal, ok := amountOf(record.Subtotal)
	if !ok {
		return result
	}
	tax, ok := amountOf(record.Tax)
	if !ok {
		return result
	}
	total, ok := amountOf(record.Total)
	if !ok {
		return result
	}

	discrepancy := total.Sub(subtotal.Add(tax)).Round(v.cfg.Precision)
	tolerance := v.tolerance(total)
	consistent := discrepancy.Abs().LessThanOrEqual(tolerance)

	result.IsConsistent = &consistent
	result.Discrepancy = &discrepancy
	return result
}

func (v *Validator) tolerance(total decimal.Decimal) decimal.Decimal {
	epsilon := decimal.NewFromFloat(v.cfg.Epsilon)
	relative := total.Abs().Mul(decimal.NewFromFloat(v.cfg.Percent)).Round(v.cfg.Precision)
	if relative.GreaterThan(epsilon) {
		return relative
	}
	return epsilon
}

func amountOf(fv domain.FieldValue) (decimal.Decimal, bool) {
	if !fv.Resolved || fv.Amount == nil {
		return decimal.Decimal{}, false
	}
	return *fv.Amount, true
}
