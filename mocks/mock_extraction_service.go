package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docintel/internal/domain"
	"docintel/internal/pipeline"
	"docintel/internal/port"
	"docintel/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, documentName string, tokens []domain.Token, overrides *pipeline.Overrides) (*domain.ExtractionRecord, *pipeline.Result, error) {
	args := m.Called(ctx, documentName, tokens, overrides)
	var rec *domain.ExtractionRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*domain.ExtractionRecord)
	}
	var res *pipeline.Result
	if args.Get(1) != nil {
		res = args.Get(1).(*pipeline.Result)
	}
	return rec, res, args.Error(2)
}

func (m *MockExtractionService) ExtractBatch(ctx context.Context, inputs []pipeline.BatchInput, overrides *pipeline.Overrides) ([]service.BatchOutcome, error) {
	args := m.Called(ctx, inputs, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchOutcome), args.Error(1)
}

func (m *MockExtractionService) GetRecord(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionService) ListRecords(ctx context.Context, filters port.RecordFilters) ([]domain.ExtractionRecord, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExtractionRecord), args.Int(1), args.Error(2)
}

func (m *MockExtractionService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
