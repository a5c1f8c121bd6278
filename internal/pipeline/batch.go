package pipeline

import (
	"context"
	"sync"

	"docintel/internal/domain"
)

// BatchInput is one named document in a multi-document request.
type BatchInput struct {
	DocumentName string         `json:"document_name"`
	Tokens       []domain.Token `json:"tokens"`
}

// BatchResult pairs a document with its run outcome. Exactly one of Result
// and Err is meaningful; a structural failure in one document never aborts
// the rest of the batch.
type BatchResult struct {
	DocumentName string
	Result       Result
	Err          error
}

// RunBatch processes documents concurrently up to the given limit and
// returns results in input order. Overrides, when present, apply to every
// document in the batch. A canceled context stops dispatching new documents;
// in-flight ones finish.
func (p *Pipeline) RunBatch(ctx context.Context, inputs []BatchInput, concurrency int, overrides *Overrides) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(inputs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range inputs {
		if ctx.Err() != nil {
			results[i] = BatchResult{DocumentName: inputs[i].DocumentName, Err: ctx.Err()}
			continue
		}

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			in := inputs[i]
			res, err := p.RunWith(ctx, in.Tokens, overrides)
			results[i] = BatchResult{DocumentName: in.DocumentName, Result: res, Err: err}
		}(i)
	}

	wg.Wait()
	return results
}
