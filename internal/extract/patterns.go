package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// amountTokenRe matches a single currency-shaped token: optional symbol,
// optional thousands separators, optional cents.
var amountTokenRe = regexp.MustCompile(`^[$£€]?\s?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?$`)

// strictAmountTokenRe additionally requires a currency symbol or cents, so
// bare integers (quantities, street numbers) do not look like money.
var strictAmountTokenRe = regexp.MustCompile(`^(?:[$£€]\s?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d{1,3}(?:,\d{3})*\.\d{2})$`)

// datePatterns cover the date shapes seen on receipts: numeric with / or -
// separators in either order, and month-name forms.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`),
}

// dateLayouts are tried in order when normalizing a matched date string.
var dateLayouts = []string{
	"1/2/2006", "1-2-2006", "1/2/06", "1-2-06",
	"2006/1/2", "2006-1-2",
	"Jan 2, 2006", "Jan 2 2006", "Jan. 2, 2006",
	"January 2, 2006", "January 2 2006",
	"2 Jan 2006", "2 Jan. 2006", "2 January 2006",
}

// parseAmount strips currency symbols and separators and parses the rest at
// fixed two-decimal precision. Only positive amounts qualify.
func parseAmount(text string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '£', '€', ',', ' ':
			return -1
		}
		return r
	}, text)
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}

// parseDate normalizes a matched date string to ISO form. Years outside
// 2000..next-year are rejected as OCR misreads.
func parseDate(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		if t.Year() < 2000 || t.Year() > time.Now().Year()+1 {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}
	return "", false
}

// titleCase mirrors the vendor normalization of the extraction output:
// every word capitalized, rest lowered.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
