package services

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"creditcard-scraper/config"
	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

// ImageDownloader fetches card art referenced by a report. It is auxiliary:
// failures are logged and skipped, never surfaced. Downloads go through the
// worker pool — plain HTTP, no page interaction.
type ImageDownloader struct {
	client  *resty.Client
	pool    *utils.WorkerPool
	visited *utils.URLSet
	retry   *utils.RetryConfig
	outDir  string
	logger  *utils.Logger
}

// NewImageDownloader creates a downloader writing under <OutputDir>/images.
func NewImageDownloader(cfg *config.Config, logger *utils.Logger) *ImageDownloader {
	return &ImageDownloader{
		client:  resty.New().SetTimeout(30 * time.Second),
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		outDir: filepath.Join(cfg.OutputDir, "images"),
		logger: logger,
	}
}

// DownloadAll fetches every distinct card image in the report. pageURL is
// the page the report was scraped from; relative image sources are resolved
// against it.
func (d *ImageDownloader) DownloadAll(report *models.ExtractionReport, pageURL string) {
	if err := os.MkdirAll(d.outDir, 0755); err != nil {
		d.logger.Error("[images] Cannot create %s: %v", d.outDir, err)
		return
	}

	for _, card := range report.CreditCards {
		if card.Image == nil || card.Image.Src == "" {
			continue
		}

		src := ResolveImageURL(card.Image.Src, pageURL)
		if src == "" || !d.visited.Add(src) {
			continue
		}

		dest := filepath.Join(d.outDir, card.Image.Filename)
		d.pool.Submit(func() {
			if err := d.download(src, dest); err != nil {
				d.logger.Warn("[images] %s: %v", src, err)
			}
		})
	}

	d.pool.Wait()
	d.logger.Info("[images] Downloaded %d unique images to %s", d.visited.Size(), d.outDir)
}

func (d *ImageDownloader) download(src, dest string) error {
	return d.retry.Do("download-image", func() error {
		resp, err := d.client.R().Get(src)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("status %s", resp.Status())
		}
		return os.WriteFile(dest, resp.Body(), 0644)
	})
}

// ResolveImageURL turns protocol-relative ("//host/x") and site-relative
// ("/x") image sources into absolute URLs against the scraped page.
func ResolveImageURL(src, pageURL string) string {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
