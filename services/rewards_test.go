package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

func newTestParser() *PatternParser {
	return NewPatternParser(utils.NewLogger())
}

func TestParseRewardsGroceries(t *testing.T) {
	p := newTestParser()

	set := p.ParseRewards(context.Background(), "2% cash back at grocery stores on up to $6,000 per year")

	require.Len(t, set.Categories, 1)
	assert.Equal(t, CategoryGroceries, set.Categories[0].Category)
	assert.Equal(t, "2%", set.Categories[0].Rate)
	assert.Equal(t, models.CurrencyPercent, set.Categories[0].Currency)
}

func TestParseRewardsTravelPlatform(t *testing.T) {
	p := newTestParser()

	set := p.ParseRewards(context.Background(), "5% cash back on travel purchased through Chase Travel")

	require.Len(t, set.Categories, 1)
	assert.Equal(t, CategoryTravel, set.Categories[0].Category)
	assert.Equal(t, "5%", set.Categories[0].Rate)
	assert.Equal(t, "Chase Travel", set.Categories[0].Platform)
}

func TestParseRewardsMultipleInTextOrder(t *testing.T) {
	p := newTestParser()

	set := p.ParseRewards(context.Background(),
		"Earn 3x points on dining. Earn 2% cash back at gas stations.")

	require.Len(t, set.Categories, 2)

	assert.Equal(t, CategoryRestaurants, set.Categories[0].Category)
	assert.Equal(t, "3x", set.Categories[0].Rate)
	assert.Equal(t, models.CurrencyPoints, set.Categories[0].Currency)

	assert.Equal(t, CategoryGas, set.Categories[1].Category)
	assert.Equal(t, "2%", set.Categories[1].Rate)
	assert.Equal(t, models.CurrencyPercent, set.Categories[1].Currency)
}

func TestParseRewardsMiles(t *testing.T) {
	p := newTestParser()

	set := p.ParseRewards(context.Background(), "Earn 2 miles per dollar on every purchase")

	require.Len(t, set.Categories, 1)
	assert.Equal(t, CategoryGeneral, set.Categories[0].Category)
	assert.Equal(t, models.CurrencyMiles, set.Categories[0].Currency)
}

func TestParseRewardsEmptyInput(t *testing.T) {
	p := newTestParser()

	assert.Empty(t, p.ParseRewards(context.Background(), "").Categories)
	assert.Empty(t, p.ParseRewards(context.Background(), "   ").Categories)
	assert.Empty(t, p.ParseRewards(context.Background(), "Terms apply.").Categories)
}

func TestParseIntroOfferNotAvailable(t *testing.T) {
	p := newTestParser()

	for _, raw := range []string{"N/A", "n/a", "NA", " na "} {
		offer := p.ParseIntroOffer(context.Background(), raw)
		assert.Equal(t, models.IntroOffer{}, offer, "input %q", raw)
	}
}

func TestParseIntroOfferCashbackMatch(t *testing.T) {
	p := newTestParser()

	for _, raw := range []string{
		"Cashback Match: Discover will match all the cash back you earn",
		"Unlimited CASHBACK MATCH at the end of your first year",
		"cash back match for new cardmembers",
	} {
		offer := p.ParseIntroOffer(context.Background(), raw)
		assert.Equal(t, "match", offer.BonusAmount, "input %q", raw)
		assert.Equal(t, "cashback", offer.Currency, "input %q", raw)
		assert.Nil(t, offer.SpendRequirement)
		assert.Empty(t, offer.TimeLimit)
	}
}

func TestParseIntroOfferDollarBonus(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"Earn a $200 bonus after you spend $500 in the first 3 months")

	assert.Equal(t, float64(200), offer.BonusAmount)
	assert.Equal(t, "dollars", offer.Currency)
	require.NotNil(t, offer.SpendRequirement)
	assert.Equal(t, float64(500), *offer.SpendRequirement)
	assert.Equal(t, "3 months", offer.TimeLimit)
}

func TestParseIntroOfferSumsMultipleDollarAmounts(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"Earn a $100 statement credit plus a $150 bonus")

	assert.Equal(t, float64(250), offer.BonusAmount)
	assert.Equal(t, "dollars", offer.Currency)
	assert.Contains(t, offer.AdditionalBenefits, "statement credit")
	assert.Contains(t, offer.AdditionalBenefits, "credit")
}

func TestParseIntroOfferPoints(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"Earn 60,000 bonus points after you spend $4,000 on purchases in the first 3 months")

	assert.Equal(t, float64(60000), offer.BonusAmount)
	assert.Equal(t, "points", offer.Currency)
	require.NotNil(t, offer.SpendRequirement)
	assert.Equal(t, float64(4000), *offer.SpendRequirement)
	assert.Equal(t, "3 months", offer.TimeLimit)
}

func TestParseIntroOfferUngroupedAmounts(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"Earn a $5000 bonus after you spend $3000 in the first 3 months")

	assert.Equal(t, float64(5000), offer.BonusAmount)
	assert.Equal(t, "dollars", offer.Currency)
	require.NotNil(t, offer.SpendRequirement)
	assert.Equal(t, float64(3000), *offer.SpendRequirement)

	offer = p.ParseIntroOffer(context.Background(), "Earn 60000 bonus points")
	assert.Equal(t, float64(60000), offer.BonusAmount)
	assert.Equal(t, "points", offer.Currency)
}

func TestParseIntroOfferTimeLimitNeedsWholeWord(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"Earn a $150 bonus, redeemable again 3 months later")
	assert.Empty(t, offer.TimeLimit)

	offer = p.ParseIntroOffer(context.Background(),
		"Earn a $150 bonus within 90 days of account opening")
	assert.Equal(t, "90 days", offer.TimeLimit)
}

func TestParseIntroOfferApr(t *testing.T) {
	p := newTestParser()

	offer := p.ParseIntroOffer(context.Background(),
		"0% intro APR for 15 months on purchases, plus no annual fee")

	assert.NotEmpty(t, offer.AprInfo)
	assert.Contains(t, offer.AprInfo, "0% intro APR")
	assert.Contains(t, offer.AdditionalBenefits, "no annual fee")
	assert.Nil(t, offer.BonusAmount)
}

func TestParseIntroOfferEmptyInput(t *testing.T) {
	p := newTestParser()

	assert.Equal(t, models.IntroOffer{}, p.ParseIntroOffer(context.Background(), ""))
	assert.Equal(t, models.IntroOffer{}, p.ParseIntroOffer(context.Background(), "  "))
}
