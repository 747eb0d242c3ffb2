package services

import (
	"regexp"
	"strings"
)

// Taxonomy tags for reward categories.
const (
	CategoryRestaurants    = "restaurants"
	CategoryGroceries      = "groceries"
	CategoryGas            = "gas"
	CategoryDrugstore      = "drugstore"
	CategoryStreaming      = "streaming"
	CategoryTransit        = "transit"
	CategoryGeneral        = "general"
	CategoryTravel         = "travel"
	CategoryHotels         = "hotels"
	CategoryFlights        = "flights"
	CategoryRentalCars     = "rental-cars"
	CategoryVacationRental = "vacation-rentals"
)

// travelKeywords route a phrase into the travel branch.
var travelKeywords = []string{"travel", "flight", "hotel", "rental car", "vacation rental"}

// travelPlatforms are issuer-branded travel portals. Matching is
// case-insensitive; the canonical casing here is what gets reported.
var travelPlatforms = []string{
	"Chase Travel",
	"Chase Ultimate Rewards",
	"Capital One Travel",
	"Amex Travel",
	"American Express Travel",
	"Citi Travel",
	"Wells Fargo Travel",
	"US Bank Travel",
}

// travelSubTags map travel sub-keywords to their tags, in priority order.
var travelSubTags = []struct {
	keyword string
	tag     string
}{
	{"hotel", CategoryHotels},
	{"flight", CategoryFlights},
	{"rental car", CategoryRentalCars},
	{"vacation rental", CategoryVacationRental},
}

// categoryPhrases is the substring containment table for non-travel phrases.
// First match wins. The order is load-bearing: some phrases are substrings
// of others, so do not alphabetize.
var categoryPhrases = []struct {
	phrase string
	tag    string
}{
	{"restaurant", CategoryRestaurants},
	{"dining", CategoryRestaurants},
	{"grocery stores", CategoryGroceries},
	{"grocery", CategoryGroceries},
	{"supermarket", CategoryGroceries},
	{"gas stations", CategoryGas},
	{"gas station", CategoryGas},
	{"gas", CategoryGas},
	{"drugstore", CategoryDrugstore},
	{"drug store", CategoryDrugstore},
	{"pharmac", CategoryDrugstore},
	{"streaming", CategoryStreaming},
	{"transit", CategoryTransit},
	{"commut", CategoryTransit},
	{"rideshare", CategoryTransit},
	{"all other purchases", CategoryGeneral},
	{"everything else", CategoryGeneral},
	{"every purchase", CategoryGeneral},
	{"all purchases", CategoryGeneral},
	{"other purchases", CategoryGeneral},
	{"all eligible purchases", CategoryGeneral},
}

var purchaseWordRe = regexp.MustCompile(`(?i)\bpurchases?\b`)

// CategoryNormalizer maps noisy category phrases onto the closed taxonomy.
type CategoryNormalizer struct{}

// NewCategoryNormalizer creates a CategoryNormalizer.
func NewCategoryNormalizer() *CategoryNormalizer {
	return &CategoryNormalizer{}
}

// Normalize maps a raw category phrase to a taxonomy tag and, for purchases
// made through a branded travel portal, the portal name. Phrases matching
// nothing fall through to a cleaned-up version of the input itself.
func (n *CategoryNormalizer) Normalize(raw string) (category, platform string) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", ""
	}

	for _, kw := range travelKeywords {
		if strings.Contains(lower, kw) {
			return n.normalizeTravel(raw, lower)
		}
	}

	for _, entry := range categoryPhrases {
		if strings.Contains(lower, entry.phrase) {
			return entry.tag, ""
		}
	}

	return fallbackTag(lower), ""
}

func (n *CategoryNormalizer) normalizeTravel(raw, lower string) (string, string) {
	for _, portal := range travelPlatforms {
		if strings.Contains(lower, strings.ToLower(portal)) {
			return CategoryTravel, portal
		}
	}

	for _, sub := range travelSubTags {
		if strings.Contains(lower, sub.keyword) {
			return sub.tag, ""
		}
	}

	return CategoryTravel, ""
}

// fallbackTag strips "purchase(s)", collapses whitespace and trims trailing
// punctuation, returning the residue as an open-ended tag.
func fallbackTag(lower string) string {
	s := purchaseWordRe.ReplaceAllString(lower, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " .,;:!?-")
	return s
}
