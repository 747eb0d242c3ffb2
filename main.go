package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"creditcard-scraper/config"
	"creditcard-scraper/models"
	"creditcard-scraper/scraper/cardtable"
	"creditcard-scraper/services"
	"creditcard-scraper/storage"
	"creditcard-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Credit Card Extraction System starting ===")
	logger.Info("Config — url: %s | strategy: %s | tooltip wait: %dms | nav timeout: %ds",
		cfg.SourceURL, cfg.ParserStrategy, cfg.TooltipWaitMs, cfg.NavTimeoutSeconds)

	session := cardtable.NewChromeSession(cfg, logger)
	defer session.Close()

	parser := services.NewOfferParser(cfg, logger)
	pipeline := cardtable.NewPipeline(session, parser, cfg, logger)

	ctx := context.Background()
	report := pipeline.Run(ctx, cfg.SourceURL)

	if report.Error {
		logger.Error("Extraction failed: %s — writing error report", report.ErrorMessage)
	} else {
		logger.Info("Extracted %d cards — persisting report...", report.TotalCardsFound)
	}

	if cfg.DebugScreenshot {
		saveScreenshot(ctx, session, cfg, report, logger)
	}

	jsonWriter, err := storage.NewJSONWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to create JSON writer: %v", err)
		os.Exit(1)
	}
	writers := []storage.ReportWriter{jsonWriter}

	if pgWriter, err := storage.NewPostgresWriter(cfg.DSN()); err != nil {
		logger.Warn("PostgreSQL unavailable, skipping DB persistence: %v", err)
	} else {
		writers = append(writers, pgWriter)
	}

	if cfg.RedisAddr != "" {
		if publisher, err := storage.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisChannel); err != nil {
			logger.Warn("Redis unavailable, skipping publish: %v", err)
		} else {
			writers = append(writers, publisher)
		}
	}

	for _, w := range writers {
		if err := w.Write(report); err != nil {
			logger.Error("Report write failed: %v", err)
		}
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			logger.Warn("Writer close failed: %v", err)
		}
	}

	logger.Info("Report saved to %s", jsonWriter.LastPath())

	if cfg.DownloadImages && !report.Error {
		services.NewImageDownloader(cfg, logger).DownloadAll(report, cfg.SourceURL)
	}

	if report.Error {
		os.Exit(1)
	}

	fmt.Printf("  Done. %d cards → %s\n\n", report.TotalCardsFound, jsonWriter.LastPath())
}

// saveScreenshot captures the page for debugging, next to the JSON report.
func saveScreenshot(ctx context.Context, session cardtable.PageSession, cfg *config.Config,
	report *models.ExtractionReport, logger *utils.Logger) {

	shot, err := session.Screenshot(ctx)
	if err != nil {
		logger.Warn("Screenshot failed: %v", err)
		return
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Warn("Cannot create output dir: %v", err)
		return
	}

	path := filepath.Join(cfg.OutputDir, fmt.Sprintf("page_%d.png", report.Timestamp.Unix()))
	if err := os.WriteFile(path, shot, 0644); err != nil {
		logger.Warn("Cannot write screenshot: %v", err)
		return
	}
	logger.Info("Debug screenshot saved to %s", path)
}
