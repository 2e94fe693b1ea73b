package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"winescan/internal/api"
	"winescan/internal/config"
	"winescan/internal/enrich"
	"winescan/internal/ocr"
	"winescan/internal/pipeline"
	"winescan/internal/storage"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Enrichment is opt-in: without it the service still returns the
	// parsed wine list, just without filled-in blanks.
	var enricher *enrich.Enricher
	var db *storage.DB
	if cfg.EnableEnrichment {
		var err error
		db, err = storage.Open(cfg.CacheDBPath)
		if err != nil {
			log.Error("open enrichment cache", "path", cfg.CacheDBPath, "error", err)
			os.Exit(1)
		}
		gemini := enrich.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.EnrichTimeout)
		enricher = enrich.New(gemini, enrich.NewCache(db), log, cfg.EnrichTimeout)
	}

	var pipelineEnricher pipeline.Enricher
	if enricher != nil {
		pipelineEnricher = enricher
	}
	analyzer := pipeline.NewAnalyzer(cfg.RowOverlapRatio, cfg.VintagePivot, pipelineEnricher, log)

	srv := api.NewServer(
		analyzer,
		ocr.NewTesseract(cfg.TesseractLang),
		ocr.NewPDFText(),
		enricher,
		log,
		cfg,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if db != nil {
			db.Close()
		}
	}()

	log.Info("starting winescan", "port", cfg.Port, "enrichment", cfg.EnableEnrichment)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
