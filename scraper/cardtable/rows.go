package cardtable

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

// Column positions in the results table. Semantically fixed: rows that do
// not follow this layout are skipped, never reinterpreted.
const (
	colName = iota
	colRating
	colAnnualFee
	colRewards
	colIntroOffer

	minCells = 5
)

// ratingLength keeps only the leading score of ratings rendered as
// "4.5 / 5"-style strings.
const ratingLength = 3

// renderPlaceholders are texts a half-rendered name cell can contain.
var renderPlaceholders = map[string]struct{}{
	"...":        {},
	"…":          {},
	"-":          {},
	"—":          {},
	"loading":    {},
	"loading...": {},
	"n/a":        {},
}

// RowExtractor turns a snapshot of the results-table HTML into candidate
// cards. It is pure: the same snapshot always yields the same output.
type RowExtractor struct {
	logger *utils.Logger
}

// NewRowExtractor creates a RowExtractor with the given logger.
func NewRowExtractor(logger *utils.Logger) *RowExtractor {
	return &RowExtractor{logger: logger}
}

// Extract parses every body row of a results-table snapshot. Malformed rows
// (fewer than five cells, no usable name, neither fee nor rewards text) are
// skipped silently; that is a structural miss, not an error. Row indices
// are 1-based so they line up with nth-child selectors on the live page.
func (e *RowExtractor) Extract(tableHTML string) ([]*models.CandidateCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, fmt.Errorf("parse table snapshot: %w", err)
	}

	var cards []*models.CandidateCard
	doc.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		rowIndex := i + 1

		cells := row.Find("td")
		if cells.Length() < minCells {
			e.logger.Debug("[rows] Row %d skipped: %d cells", rowIndex, cells.Length())
			return
		}

		name := extractName(cells.Eq(colName))
		if name == "" {
			e.logger.Debug("[rows] Row %d skipped: no usable name", rowIndex)
			return
		}

		card := &models.CandidateCard{
			Name:     name,
			RowIndex: rowIndex,
		}

		if rating := normalizeText(cells.Eq(colRating).Text()); rating != "" {
			card.Rating = truncateRating(rating)
		}

		if fee := normalizeText(cells.Eq(colAnnualFee).Text()); fee != "" {
			card.AnnualFee = stripCurrencySymbol(fee)
		}

		rewardsCell := cells.Eq(colRewards)
		card.RewardsText = normalizeText(rewardsCell.Text())
		card.HasRewardsTooltip = rewardsCell.Find("button").Length() > 0

		introCell := cells.Eq(colIntroOffer)
		card.IntroOfferText = normalizeText(introCell.Text())
		card.HasIntroTooltip = introCell.Find("button").Length() > 0

		if img := row.Find("img").First(); img.Length() > 0 {
			src, _ := img.Attr("src")
			alt, _ := img.Attr("alt")
			card.Image = &models.CardImage{
				Src:      src,
				Alt:      alt,
				Filename: slugFilename(name, rowIndex),
			}
		}

		// A candidate must carry a name and at least one of fee/rewards —
		// anything less is an ad or layout row.
		if card.AnnualFee == "" && card.RewardsText == "" {
			e.logger.Debug("[rows] Row %d skipped: no fee or rewards text for %q", rowIndex, name)
			return
		}

		cards = append(cards, card)
	})

	e.logger.Info("[rows] Extracted %d candidate cards", len(cards))
	return cards, nil
}

// extractName pulls the card name out of the first cell: an explicitly
// tagged element first, then the first inline text element, then the raw
// cell text. Placeholder texts count as no name.
func extractName(cell *goquery.Selection) string {
	name := normalizeText(cell.Find("[data-card-name]").First().Text())
	if name == "" {
		name = normalizeText(cell.Find("a, strong, b, span").First().Text())
	}
	if name == "" {
		name = normalizeText(cell.Text())
	}

	if _, placeholder := renderPlaceholders[strings.ToLower(name)]; placeholder {
		return ""
	}
	return name
}

func truncateRating(rating string) string {
	runes := []rune(rating)
	if len(runes) > ratingLength {
		runes = runes[:ratingLength]
	}
	return strings.TrimSpace(string(runes))
}

// stripCurrencySymbol drops the leading currency symbol from a fee cell.
func stripCurrencySymbol(fee string) string {
	runes := []rune(fee)
	if len(runes) == 0 {
		return ""
	}
	return strings.TrimSpace(string(runes[1:]))
}

// slugFilename derives an image filename from the card name: lowercase,
// every non-alphanumeric rune replaced with '_'. Rows without a captured
// name fall back to the row number.
func slugFilename(name string, rowIndex int) string {
	if name == "" {
		return fmt.Sprintf("card_%d.jpg", rowIndex)
	}

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ".jpg"
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
