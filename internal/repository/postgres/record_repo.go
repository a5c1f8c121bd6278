package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docintel/internal/domain"
	"docintel/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordRepository.
func NewRecordRepo(db *sqlx.DB) port.RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now().UTC()

	query := `INSERT INTO extraction_records
		(id, document_name, token_count, record, validation, diagnostics, is_consistent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.DocumentName, rec.TokenCount, rec.Record, rec.Validation,
		rec.Diagnostics, rec.IsConsistent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM extraction_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *recordRepo) List(ctx context.Context, filters port.RecordFilters) ([]domain.ExtractionRecord, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	n := 0

	if filters.DocumentName != "" {
		n++
		where += fmt.Sprintf(" AND document_name ILIKE $%d", n)
		args = append(args, "%"+filters.DocumentName+"%")
	}
	if filters.IsConsistent != nil {
		n++
		where += fmt.Sprintf(" AND is_consistent = $%d", n)
		args = append(args, *filters.IsConsistent)
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM extraction_records "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		"SELECT * FROM extraction_records %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, n+1, n+2)
	args = append(args, limit, filters.Offset)

	var recs []domain.ExtractionRecord
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List: %w", err)
	}
	return recs, total, nil
}

func (r *recordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM extraction_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("recordRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
