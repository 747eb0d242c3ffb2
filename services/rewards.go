package services

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

// OfferParser turns raw marketing prose into structured reward/offer data.
// Implementations must tolerate empty input and must never fail: parse
// trouble yields an empty result, not an error.
type OfferParser interface {
	ParseRewards(ctx context.Context, text string) models.RewardSet
	ParseIntroOffer(ctx context.Context, text string) models.IntroOffer
}

// rewardTemplate kinds — which rate token a template captures.
const (
	rateKindPercent = iota
	rateKindMultiplier
	rateKindPerDollar
)

// rewardTemplates run in order over the rewards text. The category phrase
// group stops at clause punctuation so that several rate/category pairs in
// one sentence each get their own match.
var rewardTemplates = []struct {
	kind int
	re   *regexp.Regexp
}{
	// "2% cash back at grocery stores", "5% back on travel"
	{rateKindPercent, regexp.MustCompile(
		`(?i)(\d+(?:\.\d+)?)%\s+(?:cash\s?back\s+|cash\s+rewards\s+|back\s+|rewards\s+)?(?:on|at|in|for)\s+([^,.;:!?()]+)`)},
	// "3x points on dining", "5X miles on hotels"
	{rateKindMultiplier, regexp.MustCompile(
		`(?i)(\d+(?:\.\d+)?)[x×]\s+(?:total\s+)?(?:(points|miles)\s+)?(?:on|at|in|for)\s+([^,.;:!?()]+)`)},
	// "2 miles per dollar on every purchase"
	{rateKindPerDollar, regexp.MustCompile(
		`(?i)(\d+(?:\.\d+)?)\s+(points|miles)\s+per\s+(?:dollar|\$1)(?:\s+spent)?\s+(?:on|at|in)\s+([^,.;:!?()]+)`)},
}

// Intro-offer patterns.
var (
	notAvailableRe  = regexp.MustCompile(`(?i)^\s*n\s*/?\s*a\s*\.?\s*$`)
	cashbackMatchRe = regexp.MustCompile(`(?i)cash\s?back\s+match`)
	// Amounts appear both comma-grouped ("5,000") and plain ("5000"); the
	// grouped form is tried first so it is never split mid-number.
	dollarAmountRe = regexp.MustCompile(`\$((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)`)
	pointsAmountRe = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d+)\s+(?:bonus\s+)?(points|miles)`)
	spendRe        = regexp.MustCompile(
		`(?i)(?:after\s+(?:you\s+)?spend(?:ing)?|when\s+you\s+spend|spend)\s+\$((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)|\$((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)\s+in\s+purchases`)
	timeLimitRe = regexp.MustCompile(
		`(?i)\b(?:within|in)\b\s+(?:the\s+|your\s+)?(?:first\s+)?(\d+)\s+(month|day)s?`)
	aprRe = regexp.MustCompile(
		`(?i)\d+(?:\.\d+)?%\s+(?:intro(?:ductory)?\s+)?APR(?:\s+(?:for|on)\s+[^,.;:!?]+)?`)
)

// benefitKeywords are checked by substring containment, each hit appended.
// "statement credit" and "credit" intentionally both fire on the former.
var benefitKeywords = []string{
	"no annual fee",
	"no foreign transaction fees",
	"free",
	"statement credit",
	"credit",
}

// PatternParser is the deterministic OfferParser strategy: ordered regex
// templates plus the category taxonomy, no external calls.
type PatternParser struct {
	normalizer *CategoryNormalizer
	logger     *utils.Logger
}

// NewPatternParser creates the deterministic parser strategy.
func NewPatternParser(logger *utils.Logger) *PatternParser {
	return &PatternParser{
		normalizer: NewCategoryNormalizer(),
		logger:     logger,
	}
}

// ParseRewards extracts rate/category pairs from rewards prose. Entries are
// emitted in text order; overlapping matches from different templates are
// all kept — the result is a superset, never deduplicated here.
func (p *PatternParser) ParseRewards(_ context.Context, text string) models.RewardSet {
	if strings.TrimSpace(text) == "" {
		return models.RewardSet{}
	}

	type hit struct {
		offset   int
		category models.RewardCategory
	}
	var hits []hit

	for _, tpl := range rewardTemplates {
		for _, idx := range tpl.re.FindAllStringSubmatchIndex(text, -1) {
			m := submatches(text, idx)
			rate, currency, phrase := interpretTemplate(tpl.kind, m)

			phrase = clipCategoryPhrase(phrase)
			if phrase == "" {
				continue
			}

			category, platform := p.normalizer.Normalize(phrase)
			hits = append(hits, hit{
				offset: idx[0],
				category: models.RewardCategory{
					Category:    category,
					Rate:        rate,
					Currency:    currency,
					Platform:    platform,
					RawCategory: phrase,
				},
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	var set models.RewardSet
	for _, h := range hits {
		set.Categories = append(set.Categories, h.category)
	}
	p.logger.Debug("[parser] %d reward entries from %d chars", len(set.Categories), len(text))
	return set
}

// interpretTemplate maps template capture groups to a rate token and unit.
func interpretTemplate(kind int, m []string) (rate, currency, phrase string) {
	switch kind {
	case rateKindPercent:
		return m[1] + "%", models.CurrencyPercent, m[2]
	case rateKindMultiplier:
		currency = models.CurrencyPoints
		if strings.EqualFold(m[2], "miles") {
			currency = models.CurrencyMiles
		}
		return m[1] + "x", currency, m[3]
	default: // rateKindPerDollar
		currency = models.CurrencyPoints
		if strings.EqualFold(m[2], "miles") {
			currency = models.CurrencyMiles
		}
		return m[1] + "x", currency, m[3]
	}
}

// ParseIntroOffer extracts sign-up bonus terms. Every pattern applies
// independently; text that states nothing yields an all-null offer.
func (p *PatternParser) ParseIntroOffer(_ context.Context, text string) models.IntroOffer {
	var offer models.IntroOffer

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || notAvailableRe.MatchString(trimmed) {
		return offer
	}
	if cashbackMatchRe.MatchString(trimmed) {
		offer.BonusAmount = "match"
		offer.Currency = "cashback"
		return offer
	}

	spendSpans := spendRe.FindAllStringSubmatchIndex(trimmed, -1)

	// Spend requirement: first match only.
	if len(spendSpans) > 0 {
		m := submatches(trimmed, spendSpans[0])
		amountStr := m[1]
		if amountStr == "" {
			amountStr = m[2]
		}
		if v, ok := parseAmount(amountStr); ok {
			offer.SpendRequirement = &v
		}
	}

	// Bonus dollars: sum every dollar amount that is not part of a
	// spend-requirement phrase.
	var bonusTotal float64
	var sawBonus bool
	for _, idx := range dollarAmountRe.FindAllStringSubmatchIndex(trimmed, -1) {
		if withinAny(idx[0], spendSpans) {
			continue
		}
		if v, ok := parseAmount(trimmed[idx[2]:idx[3]]); ok {
			bonusTotal += v
			sawBonus = true
		}
	}
	if sawBonus {
		offer.BonusAmount = bonusTotal
		offer.Currency = "dollars"
	} else if m := pointsAmountRe.FindStringSubmatch(trimmed); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			offer.BonusAmount = v
			offer.Currency = strings.ToLower(m[2])
		}
	}

	if m := timeLimitRe.FindStringSubmatch(trimmed); m != nil {
		offer.TimeLimit = m[1] + " " + strings.ToLower(m[2]) + "s"
	}

	if apr := aprRe.FindString(trimmed); apr != "" {
		offer.AprInfo = strings.TrimSpace(apr)
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range benefitKeywords {
		if strings.Contains(lower, kw) {
			offer.AdditionalBenefits = append(offer.AdditionalBenefits, kw)
		}
	}

	return offer
}

// clipCategoryPhrase cuts a captured category phrase at the next clause
// boundary and drops dangling connector words left behind by the cut.
func clipCategoryPhrase(phrase string) string {
	lower := strings.ToLower(phrase)
	cut := len(phrase)
	for _, boundary := range []string{" and ", " up to ", " ("} {
		if i := strings.Index(lower, boundary); i >= 0 && i < cut {
			cut = i
		}
	}
	phrase = phrase[:cut]

	words := strings.Fields(phrase)
	for len(words) > 0 {
		switch strings.ToLower(words[len(words)-1]) {
		case "on", "at", "in", "for", "and", "per", "the", "up", "to":
			words = words[:len(words)-1]
		default:
			return strings.Join(words, " ")
		}
	}
	return ""
}

// submatches resolves a FindAllStringSubmatchIndex entry into group strings,
// with "" for groups that did not participate.
func submatches(s string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		start, end := idx[2*i], idx[2*i+1]
		if start >= 0 {
			out[i] = s[start:end]
		}
	}
	return out
}

func withinAny(pos int, spans [][]int) bool {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return true
		}
	}
	return false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
