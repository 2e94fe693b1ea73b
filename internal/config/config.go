package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Upload limits
	MaxUploadBytes int64

	// Row reconstruction
	RowOverlapRatio float64

	// Normalization
	VintagePivot int

	// OCR
	TesseractLang string

	// Gemini enrichment
	EnableEnrichment bool
	GeminiAPIKey     string
	GeminiModel      string
	EnrichTimeout    time.Duration

	// Persistent enrichment cache
	CacheDBPath string
}

func Load() Config {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8080"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		RowOverlapRatio: envFloat("ROW_OVERLAP_RATIO", 0.5),
		VintagePivot:    envInt("VINTAGE_PIVOT", 30),

		TesseractLang: envOr("TESSERACT_LANG", "eng"),

		EnableEnrichment: envBool("ENABLE_ENRICHMENT", false),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		EnrichTimeout:    envDuration("ENRICH_TIMEOUT", 30*time.Second),

		CacheDBPath: envOr("CACHE_DB_PATH", "data/enrichment.db"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.RowOverlapRatio <= 0 || cfg.RowOverlapRatio > 1 {
		cfg.RowOverlapRatio = 0.5
	}
	if cfg.VintagePivot < 0 || cfg.VintagePivot > 99 {
		cfg.VintagePivot = 30
	}
	if cfg.EnrichTimeout <= 0 {
		cfg.EnrichTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.EnableEnrichment && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when ENABLE_ENRICHMENT is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
