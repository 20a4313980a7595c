package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/ivanmoure/reelmind/internal/adapter/ai"
	"github.com/ivanmoure/reelmind/internal/adapter/catalog"
	"github.com/ivanmoure/reelmind/internal/adapter/poster"
	"github.com/ivanmoure/reelmind/internal/adapter/store"
	"github.com/ivanmoure/reelmind/internal/handler"
	"github.com/ivanmoure/reelmind/internal/service"
	"github.com/ivanmoure/reelmind/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🎬 Starting ReelMind",
		"port", cfg.Port,
		"catalog", cfg.CatalogPath,
		"ollama_embed", cfg.OllamaEmbedURL,
		"embed_model", cfg.OllamaEmbedModel,
	)

	// ── Catalog ──────────────────────────────────────────────────────────
	movies, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "movies", len(movies))

	// ── Adapters ─────────────────────────────────────────────────────────
	encoder := ai.NewOllamaEncoder(ai.OllamaConfig{
		BaseURL: cfg.OllamaEmbedURL,
		Model:   cfg.OllamaEmbedModel,
		Token:   cfg.OllamaEmbedToken,
	})

	if cfg.TMDBAPIKey == "" {
		slog.Warn("TMDB_API_KEY not set, poster enrichment disabled")
	}
	posterClient := poster.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	matrixStore := store.NewMatrixStore(cfg.EmbeddingsPath)

	// ── Services ─────────────────────────────────────────────────────────
	recommendService := service.NewRecommendService(
		encoder, posterClient, movies, matrixStore, cfg.ShortlistSize, cfg.TopK,
	)
	if err := recommendService.EnsureEmbeddings(context.Background()); err != nil {
		slog.Error("failed to prepare embeddings", "error", err)
		os.Exit(1)
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	recommendHandler := handler.NewRecommendHandler(recommendService)
	recommendHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
