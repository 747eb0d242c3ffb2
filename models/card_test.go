package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *ExtractionReport {
	spend := 500.0
	return &ExtractionReport{
		URL: "https://example.com/cards",
		CreditCards: []*FinalCard{
			{
				CandidateCard: CandidateCard{
					Name:              "Sapphire Preferred",
					Rating:            "4.5",
					AnnualFee:         "95",
					RewardsText:       "5x on travel",
					HasRewardsTooltip: true,
					IntroOfferText:    "60,000 bonus points",
					HasIntroTooltip:   true,
					Image: &CardImage{
						Src:      "//cdn.example.com/sapphire.png",
						Alt:      "Sapphire Preferred",
						Filename: "sapphire_preferred.jpg",
					},
					RowIndex: 1,
				},
				DetailedRewards: &DetailedRewards{
					Raw: "5x on travel purchased through Chase Travel",
					Parsed: RewardSet{Categories: []RewardCategory{{
						Category:    "travel",
						Rate:        "5x",
						Currency:    CurrencyPoints,
						Platform:    "Chase Travel",
						RawCategory: "travel purchased through Chase Travel",
					}}},
				},
				DetailedIntroOffer: &DetailedIntroOffer{
					Raw: "Earn a $200 bonus after you spend $500 in the first 3 months",
					Parsed: IntroOffer{
						BonusAmount:        float64(200),
						Currency:           "dollars",
						SpendRequirement:   &spend,
						TimeLimit:          "3 months",
						AdditionalBenefits: []string{"no annual fee"},
					},
				},
			},
			{
				CandidateCard: CandidateCard{
					Name:        "Freedom Flex",
					AnnualFee:   "0",
					RewardsText: "5% rotating categories",
					RowIndex:    3,
				},
			},
		},
		TotalCardsFound: 2,
		Timestamp:       time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestExtractionReportRoundTrip(t *testing.T) {
	original := sampleReport()

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ExtractionReport
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, original, &decoded)
}

func TestErrorReportRoundTrip(t *testing.T) {
	original := &ExtractionReport{
		URL:          "https://example.com/cards",
		CreditCards:  []*FinalCard{},
		Timestamp:    time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Error:        true,
		ErrorMessage: "navigate: context deadline exceeded",
	}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ExtractionReport
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, original, &decoded)
}

func TestIntroOfferMatchRoundTrip(t *testing.T) {
	original := IntroOffer{BonusAmount: "match", Currency: "cashback"}

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded IntroOffer
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, original, decoded)
}

func TestIntroOfferOmitsAbsentFields(t *testing.T) {
	payload, err := json.Marshal(IntroOffer{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(payload))
}
