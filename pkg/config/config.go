package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Catalog
	CatalogPath    string
	EmbeddingsPath string

	// Ollama — Embed endpoint
	OllamaEmbedURL   string
	OllamaEmbedModel string
	OllamaEmbedToken string // Bearer token for Ollama Cloud (empty = local)

	// TMDB poster lookup
	TMDBAPIKey  string // empty disables poster enrichment
	TMDBBaseURL string

	// Ranking
	ShortlistSize int
	TopK          int

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "5000"),
		AppName: envOrDefault("APP_NAME", "ReelMind"),

		CatalogPath:    envOrDefault("CATALOG_PATH", "IMDB-Movie-Data.csv"),
		EmbeddingsPath: envOrDefault("EMBEDDINGS_PATH", "embeddings.bin"),

		OllamaEmbedURL:   envOrDefault("OLLAMA_EMBED_URL", envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")),
		OllamaEmbedModel: envOrDefault("OLLAMA_EMBED_MODEL", "all-minilm"),
		OllamaEmbedToken: os.Getenv("OLLAMA_EMBED_TOKEN"),

		TMDBAPIKey:  os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL: envOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"),

		ShortlistSize: envOrDefaultInt("SHORTLIST_SIZE", 100),
		TopK:          envOrDefaultInt("TOP_K", 5),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
