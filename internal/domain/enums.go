package domain

// FieldName identifies a schema field the pipeline tries to fill.
type FieldName string

const (
	FieldVendor   FieldName = "vendor"
	FieldDate     FieldName = "date"
	FieldSubtotal FieldName = "subtotal"
	FieldTax      FieldName = "tax"
	FieldTotal    FieldName = "total"
	FieldLineItem FieldName = "line_item"
)

// SingularFields lists the fields that resolve to at most one value.
// line_item is the only repeated field.
var SingularFields = []FieldName{
	FieldVendor,
	FieldDate,
	FieldSubtotal,
	FieldTax,
	FieldTotal,
}

// AmountFields marks the fields carrying monetary values.
var AmountFields = map[FieldName]bool{
	FieldSubtotal: true,
	FieldTax:      true,
	FieldTotal:    true,
}

// ExportFormat identifies a supported record export format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat validates a requested export format.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}
