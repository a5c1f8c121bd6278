// Package export renders persisted extraction records as downloadable CSV
// and XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"docintel/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Document Name",
	"Vendor",
	"Date",
	"Subtotal",
	"Tax",
	"Total",
	"Line Item Count",
	"Consistent",
	"Discrepancy",
	"Token Count",
	"Created At",
}

// Writer wraps csv.Writer for exporting extraction records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords converts a batch of extraction records to CSV rows and writes them.
func (w *Writer) WriteRecords(recs []domain.ExtractionRecord) error {
	for i := range recs {
		row := recordToRow(&recs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// recordToRow converts a single extraction record to a string slice. If the
// stored record or validation JSON is unreadable, metadata columns are still
// filled and field columns are left empty.
func recordToRow(rec *domain.ExtractionRecord) []string {
	row := make([]string, len(columns))

	row[0] = rec.DocumentName
	row[9] = strconv.Itoa(rec.TokenCount)
	row[10] = rec.CreatedAt.Format(time.RFC3339)

	var extracted domain.ExtractedRecord
	if err := json.Unmarshal(rec.Record, &extracted); err == nil {
		row[1] = fieldString(extracted.Vendor)
		row[2] = fieldString(extracted.Date)
		row[3] = fieldString(extracted.Subtotal)
		row[4] = fieldString(extracted.Tax)
		row[5] = fieldString(extracted.Total)
		row[6] = strconv.Itoa(len(extracted.LineItems))
	}

	var validation domain.ValidationResult
	if err := json.Unmarshal(rec.Validation, &validation); err == nil {
		row[7] = consistencyString(validation.IsConsistent)
		if validation.Discrepancy != nil {
			row[8] = validation.Discrepancy.StringFixed(2)
		}
	}

	return row
}

func fieldString(fv domain.FieldValue) string {
	if !fv.Resolved {
		return ""
	}
	if fv.Amount != nil {
		return fv.Amount.StringFixed(2)
	}
	return fv.Value
}

func consistencyString(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "Yes"
	}
	return "No"
}
