package models

import "time"

// Reward currency units.
const (
	CurrencyPercent = "percent"
	CurrencyPoints  = "points"
	CurrencyMiles   = "miles"
)

// CandidateCard holds unenriched data extracted from a single table row.
// Empty string fields mean the cell was absent or unreadable, not zero.
type CandidateCard struct {
	Name              string     `json:"name"`
	Rating            string     `json:"rating,omitempty"`
	AnnualFee         string     `json:"annualFee,omitempty"`
	RewardsText       string     `json:"rewardsText,omitempty"`
	HasRewardsTooltip bool       `json:"hasRewardsTooltip"`
	IntroOfferText    string     `json:"introOfferText,omitempty"`
	HasIntroTooltip   bool       `json:"hasIntroTooltip"`
	Image             *CardImage `json:"image,omitempty"`
	RowIndex          int        `json:"rowIndex"`
}

// CardImage describes card art found within a row.
type CardImage struct {
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Filename string `json:"filename"`
}

// RewardCategory is one parsed reward rate bound to a taxonomy category.
type RewardCategory struct {
	Category    string `json:"category"`
	Rate        string `json:"rate"`
	Currency    string `json:"currency"`
	Platform    string `json:"platform,omitempty"`
	RawCategory string `json:"rawCategory"`
}

// RewardSet is the ordered list of reward categories parsed from one text.
// Order follows source-text occurrence; overlapping entries are kept — the
// list is a best-effort superset, not a dedup set.
type RewardSet struct {
	Categories []RewardCategory `json:"categories"`
}

// IntroOffer is a parsed sign-up bonus. Every field is independently
// optional: a nil/empty value means "not stated".
//
// BonusAmount holds a float64 for dollar/points amounts, or the string
// "match" for cashback-match offers.
type IntroOffer struct {
	BonusAmount        any      `json:"bonusAmount,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	SpendRequirement   *float64 `json:"spendRequirement,omitempty"`
	TimeLimit          string   `json:"timeLimit,omitempty"`
	AprInfo            string   `json:"aprInfo,omitempty"`
	AdditionalBenefits []string `json:"additionalBenefits,omitempty"`
}

// DetailedRewards pairs raw tooltip text with its parsed form.
type DetailedRewards struct {
	Raw    string    `json:"raw"`
	Parsed RewardSet `json:"parsed"`
}

// DetailedIntroOffer pairs raw tooltip text with its parsed form.
type DetailedIntroOffer struct {
	Raw    string     `json:"raw"`
	Parsed IntroOffer `json:"parsed"`
}

// FinalCard is a CandidateCard enriched with tooltip-derived detail.
type FinalCard struct {
	CandidateCard
	DetailedRewards    *DetailedRewards    `json:"detailedRewards,omitempty"`
	DetailedIntroOffer *DetailedIntroOffer `json:"detailedIntroOffer,omitempty"`
}

// ExtractionReport is the sole output contract of a scrape attempt. A failed
// attempt still yields a report, with Error/ErrorMessage set and no cards.
type ExtractionReport struct {
	URL             string       `json:"url"`
	CreditCards     []*FinalCard `json:"creditCards"`
	TotalCardsFound int          `json:"totalCardsFound"`
	Timestamp       time.Time    `json:"timestamp"`
	Error           bool         `json:"error,omitempty"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
}
