package storage

import "creditcard-scraper/models"

// ReportWriter is the interface any report sink must satisfy. The pipeline
// itself never persists; writers consume the report verbatim.
type ReportWriter interface {
	Write(report *models.ExtractionReport) error
	Close() error
}
