package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pathwise-edu/pathwise/internal/api/genai"
	"github.com/pathwise-edu/pathwise/internal/config"
	"github.com/pathwise-edu/pathwise/internal/handler"
	"github.com/pathwise-edu/pathwise/internal/pipeline"
	"github.com/pathwise-edu/pathwise/internal/server"
	"github.com/pathwise-edu/pathwise/internal/storage"
	"github.com/pathwise-edu/pathwise/internal/storage/sqlite"
	"github.com/pathwise-edu/pathwise/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize OpenTelemetry
	shutdown, err := telemetry.InitTracer("pathwise", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	timeout, err := cfg.Generator.TimeoutDuration()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize persistence
	var store storage.ResultStore
	if cfg.Storage.Type == "sqlite" {
		store, err = sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer store.Close()
	}

	// Initialize generative client
	genOpts := []genai.ClientOption{
		genai.WithModel(cfg.Generator.Model),
		genai.WithMaxTokens(cfg.Generator.MaxTokens),
		genai.WithTimeout(timeout),
	}
	if cfg.Generator.BaseURL != "" {
		genOpts = append(genOpts, genai.WithBaseURL(cfg.Generator.BaseURL))
	}
	gen := genai.NewClient(cfg.Generator.APIKey, genOpts...)

	// Assemble the roadmap pipeline
	runner, err := pipeline.NewRoadmapPipelineWithOptions(gen, store, logger, pipeline.PipelineOptions{
		GenerateRetries:  cfg.Generator.MaxRetries,
		PromptTokenLimit: cfg.Generator.MaxPromptTokens,
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	// Initialize server and routes
	srv := server.New(cfg.Server.Port, logger)
	h := handler.NewRoadmapHandler(runner, store, logger)
	h.Register(srv.Router)
	srv.Router.Get("/healthz", handler.HandleHealth)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
