package port

import (
	"context"

	"github.com/google/uuid"

	"docintel/internal/domain"
)

// RecordFilters narrows a listing of extraction records.
type RecordFilters struct {
	DocumentName string
	IsConsistent *bool
	Offset       int
	Limit        int
}

// RecordRepository persists processed extraction results.
type RecordRepository interface {
	Create(ctx context.Context, rec *domain.ExtractionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	List(ctx context.Context, filters RecordFilters) ([]domain.ExtractionRecord, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
