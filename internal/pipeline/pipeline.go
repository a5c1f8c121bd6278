// Package pipeline wires the extraction stages into one deterministic run:
// index the tokens into lines and blocks, find field candidates, resolve
// them into a record, then validate the record's arithmetic.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/extract"
	"docintel/internal/layout"
	"docintel/internal/resolve"
	"docintel/internal/validate"
)

// Result carries everything one run produces. Diagnostics retain every
// candidate considered, including losers, so a reviewer can see why a field
// resolved the way it did.
type Result struct {
	Record      domain.ExtractedRecord  `json:"record"`
	Validation  domain.ValidationResult `json:"validation"`
	Diagnostics domain.Diagnostics      `json:"diagnostics"`
}

type Pipeline struct {
	extraction config.ExtractionConfig
	validation config.ValidationConfig
	finder     *extract.Finder
}

func New(extraction config.ExtractionConfig, validation config.ValidationConfig) *Pipeline {
	return &Pipeline{
		extraction: extraction,
		validation: validation,
		finder:     extract.NewFinder(extract.DefaultHeuristics()...),
	}
}

// Run processes one document's token sequence with the configured settings.
func (p *Pipeline) Run(ctx context.Context, tokens []domain.Token) (Result, error) {
	return p.RunWith(ctx, tokens, nil)
}

// RunWith processes one document, applying any per-request overrides on top
// of the configured settings. Structurally invalid tokens fail the whole run
// before any stage executes; low OCR confidence is never an error, it just
// depresses scores.
func (p *Pipeline) RunWith(ctx context.Context, tokens []domain.Token, overrides *Overrides) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := domain.ValidateTokens(tokens); err != nil {
		return Result{}, fmt.Errorf("pipeline: %w", err)
	}

	extraction, validation := overrides.apply(p.extraction, p.validation)

	started := time.Now()

	doc := layout.NewIndexer(extraction).Index(tokens)
	candidates := p.finder.Find(doc, extraction)
	record := resolve.NewResolver(extraction).Resolve(candidates)
	checked := validate.NewValidator(validation).Check(record)

	byField := make(map[domain.FieldName][]domain.FieldCandidate)
	for _, c := range candidates {
		byField[c.Field] = append(byField[c.Field], c)
	}

	return Result{
		Record:     record,
		Validation: checked,
		Diagnostics: domain.Diagnostics{
			Candidates: byField,
			TokenCount: len(tokens),
			LineCount:  len(doc.Lines),
			BlockCount: len(doc.Blocks),
			Elapsed:    time.Since(started),
		},
	}, nil
}
