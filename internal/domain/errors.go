package domain

import "errors"

var (
	// ErrStructuralInput marks a token sequence that violates its basic
	// contract (malformed box, confidence outside [0,1]). It is the only
	// error that crosses the pipeline boundary as a failure.
	ErrStructuralInput = errors.New("structurally invalid token input")

	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrEmptyDocumentBatch  = errors.New("document batch is empty")
	ErrDocumentNameMissing = errors.New("document name is required")
)
