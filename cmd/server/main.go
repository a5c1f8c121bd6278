package main

import (
	"fmt"
	"log"

	"docintel/internal/config"
	"docintel/internal/handler"
	"docintel/internal/pipeline"
	"docintel/internal/repository/postgres"
	"docintel/internal/router"
	"docintel/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := postgres.NewRecordRepo(db)

	// Initialize pipeline and services
	pipe := pipeline.New(cfg.Extraction, cfg.Validation)
	extractionSvc := service.NewExtractionService(pipe, recordRepo, cfg.Batch)

	// Initialize handlers
	extractH := handler.NewExtractHandler(extractionSvc)
	recordH := handler.NewRecordHandler(extractionSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, extractH, recordH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
