package extract

import (
	"regexp"
	"strings"

	"docintel/internal/domain"
)

// labelVocabulary maps each keyword-anchored field to the label phrases that
// introduce its value on receipts and invoices.
var labelVocabulary = map[domain.FieldName][]string{
	domain.FieldSubtotal: {"subtotal", "sub total", "sub-total", "amount before tax", "net amount"},
	domain.FieldTax:      {"tax", "sales tax", "vat", "gst", "hst", "tax amount"},
	domain.FieldTotal:    {"total", "amount due", "total amount", "grand total", "balance due", "total due"},
	domain.FieldDate:     {"date", "invoice date", "receipt date"},
}

// labelPatterns holds a word-boundary regexp per label so that "total" never
// matches inside "subtotal".
var labelPatterns = buildLabelPatterns()

func buildLabelPatterns() map[domain.FieldName][]*regexp.Regexp {
	patterns := make(map[domain.FieldName][]*regexp.Regexp, len(labelVocabulary))
	for field, labels := range labelVocabulary {
		res := make([]*regexp.Regexp, 0, len(labels))
		for _, label := range labels {
			res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(label)+`\b`))
		}
		patterns[field] = res
	}
	return patterns
}

// lowerASCII lowers only A-Z. Unlike strings.ToLower it never changes byte
// length (Turkish dotted I grows under full lowering), so offsets found in
// the lowered text stay valid against token spans built from the original.
// The label vocabulary is ASCII, so this is all the folding matching needs.
func lowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// matchesLabel reports whether any of the field's label patterns match the
// lowered text.
func matchesLabel(field domain.FieldName, lower string) bool {
	for _, re := range labelPatterns[field] {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// vendorStopWords disqualify a line from being a vendor-name candidate.
var vendorStopWords = map[string]bool{
	"receipt": true, "invoice": true, "bill": true, "statement": true,
	"order": true, "purchase": true, "sale": true,
	"date": true, "time": true, "total": true, "tax": true, "subtotal": true,
	"amount": true, "due": true, "paid": true,
	"cash": true, "credit": true, "card": true, "visa": true,
	"mastercard": true, "amex": true, "discover": true,
}

// containsLabel reports whether the lowercased line text matches any label
// of any field.
func containsLabel(lower string) bool {
	for _, res := range labelPatterns {
		for _, re := range res {
			if re.MatchString(lower) {
				return true
			}
		}
	}
	return false
}

// isVendorCandidate applies the vendor-shape filter: no stop words, not
// mostly digits, reasonable length.
func isVendorCandidate(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 || len(trimmed) > 100 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, word := range strings.Fields(lower) {
		if vendorStopWords[strings.Trim(word, ".,:;")] {
			return false
		}
	}
	digits := 0
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits) <= float64(len(trimmed))*0.5
}
