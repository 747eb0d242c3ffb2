package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"creditcard-scraper/models"
)

// PostgresWriter persists extracted cards to PostgreSQL, one flattened row
// per card with the parsed detail stored as JSONB.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS credit_cards (
			id                   SERIAL PRIMARY KEY,
			source_url           TEXT        NOT NULL,
			name                 TEXT        NOT NULL,
			rating               VARCHAR(8)  NOT NULL DEFAULT '',
			annual_fee           TEXT        NOT NULL DEFAULT '',
			rewards_text         TEXT        NOT NULL DEFAULT '',
			intro_offer_text     TEXT        NOT NULL DEFAULT '',
			image_src            TEXT        NOT NULL DEFAULT '',
			detailed_rewards     JSONB,
			detailed_intro_offer JSONB,
			row_index            INT         NOT NULL DEFAULT 0,
			scraped_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (source_url, name, annual_fee)
		);

		CREATE INDEX IF NOT EXISTS idx_credit_cards_name       ON credit_cards(name);
		CREATE INDEX IF NOT EXISTS idx_credit_cards_source_url ON credit_cards(source_url);
	`)
	return err
}

// Write batch-inserts every card in the report. Re-scrapes of the same page
// do not duplicate rows.
func (pw *PostgresWriter) Write(report *models.ExtractionReport) error {
	if len(report.CreditCards) == 0 {
		return nil
	}

	const batchSize = 50
	cards := report.CreditCards
	for i := 0; i < len(cards); i += batchSize {
		end := i + batchSize
		if end > len(cards) {
			end = len(cards)
		}
		if err := pw.insertBatch(report, cards[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(report *models.ExtractionReport, batch []*models.FinalCard) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, card := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		imageSrc := ""
		if card.Image != nil {
			imageSrc = card.Image.Src
		}

		valueArgs = append(valueArgs,
			report.URL,
			card.Name,
			card.Rating,
			card.AnnualFee,
			card.RewardsText,
			card.IntroOfferText,
			imageSrc,
			marshalDetail(card.DetailedRewards),
			marshalDetail(card.DetailedIntroOffer),
			card.RowIndex,
			report.Timestamp,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO credit_cards (
			source_url, name, rating, annual_fee, rewards_text, intro_offer_text,
			image_src, detailed_rewards, detailed_intro_offer, row_index, scraped_at
		)
		VALUES %s
		ON CONFLICT (source_url, name, annual_fee) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// marshalDetail renders a detail struct as JSONB input, or SQL NULL when the
// card has none.
func marshalDetail(detail any) any {
	switch d := detail.(type) {
	case *models.DetailedRewards:
		if d == nil {
			return nil
		}
	case *models.DetailedIntroOffer:
		if d == nil {
			return nil
		}
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return nil
	}
	return payload
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
