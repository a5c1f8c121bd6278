package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/pipeline"
	"docintel/internal/port"
)

// ExtractionService runs the pipeline over token sequences and persists the
// results.
type ExtractionService interface {
	Extract(ctx context.Context, documentName string, tokens []domain.Token, overrides *pipeline.Overrides) (*domain.ExtractionRecord, *pipeline.Result, error)
	ExtractBatch(ctx context.Context, inputs []pipeline.BatchInput, overrides *pipeline.Overrides) ([]BatchOutcome, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	ListRecords(ctx context.Context, filters port.RecordFilters) ([]domain.ExtractionRecord, int, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

// BatchOutcome is the per-document result of a batch extraction. Failed
// documents carry Err and no record.
type BatchOutcome struct {
	DocumentName string                   `json:"document_name"`
	Record       *domain.ExtractionRecord `json:"record,omitempty"`
	Result       *pipeline.Result         `json:"result,omitempty"`
	Err          error                    `json:"-"`
	ErrMessage   string                   `json:"error,omitempty"`
}

type extractionService struct {
	pipe       *pipeline.Pipeline
	recordRepo port.RecordRepository
	batchCfg   config.BatchConfig
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(pipe *pipeline.Pipeline, recordRepo port.RecordRepository, batchCfg config.BatchConfig) ExtractionService {
	return &extractionService{
		pipe:       pipe,
		recordRepo: recordRepo,
		batchCfg:   batchCfg,
	}
}

func (s *extractionService) Extract(ctx context.Context, documentName string, tokens []domain.Token, overrides *pipeline.Overrides) (*domain.ExtractionRecord, *pipeline.Result, error) {
	if documentName == "" {
		return nil, nil, domain.ErrDocumentNameMissing
	}

	result, err := s.pipe.RunWith(ctx, tokens, overrides)
	if err != nil {
		return nil, nil, err
	}

	rec, err := buildRecord(documentName, len(tokens), result)
	if err != nil {
		return nil, nil, err
	}
	if err := s.recordRepo.Create(ctx, rec); err != nil {
		return nil, nil, err
	}

	log.Printf("extractionService: document %q processed (record=%s, tokens=%d, consistent=%v)",
		documentName, rec.ID, rec.TokenCount, formatConsistency(rec.IsConsistent))
	return rec, &result, nil
}

func (s *extractionService) ExtractBatch(ctx context.Context, inputs []pipeline.BatchInput, overrides *pipeline.Overrides) ([]BatchOutcome, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyDocumentBatch
	}
	for _, in := range inputs {
		if in.DocumentName == "" {
			return nil, domain.ErrDocumentNameMissing
		}
	}

	results := s.pipe.RunBatch(ctx, inputs, s.batchCfg.Concurrency, overrides)

	outcomes := make([]BatchOutcome, len(results))
	for i, br := range results {
		outcome := BatchOutcome{DocumentName: br.DocumentName}
		if br.Err != nil {
			outcome.Err = br.Err
			outcome.ErrMessage = br.Err.Error()
			outcomes[i] = outcome
			continue
		}

		rec, err := buildRecord(br.DocumentName, br.Result.Diagnostics.TokenCount, br.Result)
		if err == nil {
			err = s.recordRepo.Create(ctx, rec)
		}
		if err != nil {
			outcome.Err = err
			outcome.ErrMessage = err.Error()
			outcomes[i] = outcome
			continue
		}

		res := br.Result
		outcome.Record = rec
		outcome.Result = &res
		outcomes[i] = outcome
	}

	log.Printf("extractionService: batch processed (documents=%d)", len(inputs))
	return outcomes, nil
}

func (s *extractionService) GetRecord(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	return s.recordRepo.GetByID(ctx, id)
}

func (s *extractionService) ListRecords(ctx context.Context, filters port.RecordFilters) ([]domain.ExtractionRecord, int, error) {
	return s.recordRepo.List(ctx, filters)
}

func (s *extractionService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.recordRepo.Delete(ctx, id)
}

func buildRecord(documentName string, tokenCount int, result pipeline.Result) (*domain.ExtractionRecord, error) {
	recordJSON, err := json.Marshal(result.Record)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	validationJSON, err := json.Marshal(result.Validation)
	if err != nil {
		return nil, fmt.Errorf("marshaling validation: %w", err)
	}
	diagnosticsJSON, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return nil, fmt.Errorf("marshaling diagnostics: %w", err)
	}

	return &domain.ExtractionRecord{
		ID:           uuid.New(),
		DocumentName: documentName,
		TokenCount:   tokenCount,
		Record:       recordJSON,
		Validation:   validationJSON,
		Diagnostics:  diagnosticsJSON,
		IsConsistent: result.Validation.IsConsistent,
	}, nil
}

func formatConsistency(v *bool) string {
	if v == nil {
		return "indeterminate"
	}
	return fmt.Sprintf("%t", *v)
}
