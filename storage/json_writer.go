package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"creditcard-scraper/models"
)

// JSONWriter persists each report verbatim as a timestamp-keyed JSON file.
type JSONWriter struct {
	dir      string
	lastPath string
}

// NewJSONWriter creates the output directory if needed.
func NewJSONWriter(dir string) (*JSONWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	return &JSONWriter{dir: dir}, nil
}

// Write serializes the report to <dir>/cards_<unix-ts>.json.
func (w *JSONWriter) Write(report *models.ExtractionReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal report: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("cards_%d.json", report.Timestamp.Unix()))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}

	w.lastPath = path
	return nil
}

// LastPath returns the path of the most recently written report file.
func (w *JSONWriter) LastPath() string { return w.lastPath }

// Close is a no-op; each Write is self-contained.
func (w *JSONWriter) Close() error { return nil }
