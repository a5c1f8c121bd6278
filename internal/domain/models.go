package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position locates a candidate in reading order: page first, then the line
// on the page, then the horizontal offset within the line. Earlier positions
// win resolution tie-breaks.
type Position struct {
	PageIndex int     `json:"page_index"`
	LineIndex int     `json:"line_index"`
	X         float64 `json:"x"`
}

// Before reports whether p comes earlier than other in reading order.
func (p Position) Before(other Position) bool {
	if p.PageIndex != other.PageIndex {
		return p.PageIndex < other.PageIndex
	}
	if p.LineIndex != other.LineIndex {
		return p.LineIndex < other.LineIndex
	}
	return p.X < other.X
}

// FieldCandidate is a provisional, scored guess that a token or token group
// fills a schema field. Candidates are produced by the heuristics, consumed
// by the resolver, and surfaced unchanged in diagnostics.
type FieldCandidate struct {
	Field FieldName `json:"field"`

	// Value is the canonical string form: title-cased text for vendor,
	// ISO date for date, a fixed two-decimal amount for money fields.
	Value string `json:"value"`

	// Amount is set for monetary fields, nil otherwise.
	Amount *decimal.Decimal `json:"amount,omitempty"`

	// Score is the combined heuristic score in (0,1]. Zero-score
	// candidates are filtered at the source and never emitted.
	Score float64 `json:"score"`

	// Confidence is the mean OCR confidence of the source tokens.
	Confidence float64 `json:"confidence"`

	// TokenIndexes reference the source tokens in the original input
	// sequence. Candidates never copy token data.
	TokenIndexes []int `json:"token_indexes"`

	Position  Position `json:"position"`
	Heuristic string   `json:"heuristic"`
	Rationale string   `json:"rationale"`
}

// FieldValue is a resolved field slot. Resolved distinguishes a real value
// from the unresolved sentinel so that an absent amount can never be
// mistaken for zero.
type FieldValue struct {
	Resolved     bool             `json:"resolved"`
	Value        string           `json:"value,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Score        float64          `json:"score,omitempty"`
	TokenIndexes []int            `json:"token_indexes,omitempty"`
}

// Unresolved is the sentinel for a field with no qualifying candidate.
func Unresolved() FieldValue { return FieldValue{} }

// ExtractedRecord maps field names to resolved values. At most one value per
// singular field; line items are an ordered sequence. The record is mutated
// only during resolution and is immutable once the pipeline returns it.
type ExtractedRecord struct {
	Vendor    FieldValue   `json:"vendor"`
	Date      FieldValue   `json:"date"`
	Subtotal  FieldValue   `json:"subtotal"`
	Tax       FieldValue   `json:"tax"`
	Total     FieldValue   `json:"total"`
	LineItems []FieldValue `json:"line_items"`
}

// Field returns a pointer to the slot for a singular field name, or nil for
// line_item and unknown names.
func (r *ExtractedRecord) Field(name FieldName) *FieldValue {
	switch name {
	case FieldVendor:
		return &r.Vendor
	case FieldDate:
		return &r.Date
	case FieldSubtotal:
		return &r.Subtotal
	case FieldTax:
		return &r.Tax
	case FieldTotal:
		return &r.Total
	default:
		return nil
	}
}

// ValidationResult reports the arithmetic consistency check for one record.
// IsConsistent is nil (indeterminate) unless subtotal, tax, and total were
// all resolved and parseable.
type ValidationResult struct {
	IsConsistent *bool            `json:"is_consistent"`
	Discrepancy  *decimal.Decimal `json:"discrepancy"`
	CheckedRule  string           `json:"checked_rule"`
}

// Diagnostics is the audit trail of one pipeline run: every candidate
// considered per field, with rationale, plus layout statistics.
type Diagnostics struct {
	Candidates map[FieldName][]FieldCandidate `json:"candidates"`
	TokenCount int                            `json:"token_count"`
	LineCount  int                            `json:"line_count"`
	BlockCount int                            `json:"block_count"`
	Elapsed    time.Duration                  `json:"elapsed_ns"`
}

// ExtractionRecord is the persisted form of one processed document.
type ExtractionRecord struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	DocumentName string          `db:"document_name" json:"document_name"`
	TokenCount   int             `db:"token_count" json:"token_count"`
	Record       json.RawMessage `db:"record" json:"record"`
	Validation   json.RawMessage `db:"validation" json:"validation"`
	Diagnostics  json.RawMessage `db:"diagnostics" json:"diagnostics"`
	IsConsistent *bool           `db:"is_consistent" json:"is_consistent"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
