package main

import (
	"fmt"
	"log"

	"poflow/internal/config"
	"poflow/internal/delivery/noop"
	"poflow/internal/delivery/sap"
	"poflow/internal/docai"
	"poflow/internal/handler"
	"poflow/internal/port"
	"poflow/internal/repository/postgres"
	"poflow/internal/router"
	"poflow/internal/service"
	s3storage "poflow/internal/storage/s3"
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
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize external clients
	docaiClient := docai.NewClient(&cfg.DocAI)

	var deliverer port.Deliverer
	switch cfg.Delivery.Provider {
	case "sap":
		deliverer = sap.NewSender(&cfg.Delivery)
	default:
		deliverer = noop.NewNoopSender()
	}

	// Initialize services
	extractionSvc := service.NewExtractionService(recordRepo, s3Client, docaiClient, deliverer, &cfg.S3)
	processorSvc := service.NewProcessorService(docaiClient)
	statsSvc := service.NewStatsService(statsRepo)
	exportSvc := service.NewExportService(recordRepo)

	// Initialize handlers
	recordH := handler.NewRecordHandler(extractionSvc, exportSvc)
	processorH := handler.NewProcessorHandler(processorSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(recordH, processorH, statsH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
