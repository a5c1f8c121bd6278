// Command evaluate scores the extraction pipeline against a labeled corpus.
// The corpus file is a JSON array of cases, each with a document name, its
// OCR tokens, and the expected field values.
// Usage: go run ./cmd/evaluate corpus.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/evaluate"
	"docintel/internal/pipeline"
)

type evalCase struct {
	DocumentName string               `json:"document_name"`
	Tokens       []domain.Token       `json:"tokens"`
	Truth        evaluate.GroundTruth `json:"truth"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println("Usage: evaluate <corpus.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}

	var cases []evalCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("parsing corpus: %w", err)
	}

	extraction := config.DefaultExtraction()
	validation := config.DefaultValidation()
	pipe := pipeline.New(extraction, validation)
	scorer := evaluate.NewScorer(validation)

	var scores []evaluate.DocumentScore
	failed := 0
	for _, ec := range cases {
		result, err := pipe.Run(context.Background(), ec.Tokens)
		if err != nil {
			log.Printf("%s: %v", ec.DocumentName, err)
			failed++
			continue
		}
		ds := scorer.Score(ec.DocumentName, result.Record, ec.Truth)
		scores = append(scores, ds)
		log.Printf("%s: %.3f", ec.DocumentName, ds.Mean)
	}

	report := evaluate.Summarize(scores)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if failed > 0 {
		log.Printf("%d of %d documents failed to process", failed, len(cases))
	}
	return nil
}
