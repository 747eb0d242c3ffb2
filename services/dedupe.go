package services

import (
	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

// Deduplicator collapses cards sharing a composite identity key.
type Deduplicator struct {
	logger *utils.Logger
}

// NewDeduplicator creates a Deduplicator with the given logger.
func NewDeduplicator(logger *utils.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

type cardKey struct {
	name        string
	annualFee   string
	rewardsText string
}

// Dedupe removes duplicates, where two cards are duplicates iff
// (name, annualFee, rewardsText) are all equal. The first occurrence in
// input order wins; input order is preserved.
func (d *Deduplicator) Dedupe(cards []*models.FinalCard) []*models.FinalCard {
	seen := make(map[cardKey]struct{}, len(cards))
	result := make([]*models.FinalCard, 0, len(cards))

	for _, card := range cards {
		key := cardKey{card.Name, card.AnnualFee, card.RewardsText}
		if _, dup := seen[key]; dup {
			d.logger.Debug("[dedupe] Dropping duplicate card: %s (row %d)", card.Name, card.RowIndex)
			continue
		}
		seen[key] = struct{}{}
		result = append(result, card)
	}

	if dropped := len(cards) - len(result); dropped > 0 {
		d.logger.Info("[dedupe] %d → %d cards (dropped %d duplicates)", len(cards), len(result), dropped)
	}
	return result
}
