package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-resty/resty/v2"

	"creditcard-scraper/config"
	"creditcard-scraper/models"
	"creditcard-scraper/utils"
)

const rewardsSystemPrompt = `You extract credit card reward structures from marketing text. ` +
	`Respond with a single JSON object of the shape ` +
	`{"categories":[{"category":string,"rate":string,"currency":"percent"|"points"|"miles","platform":string,"rawCategory":string}]}. ` +
	`Use the taxonomy: restaurants, groceries, gas, drugstore, streaming, transit, general, ` +
	`travel, hotels, flights, rental-cars, vacation-rentals. No prose, JSON only.`

const llmCacheTTL = 24 * time.Hour

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// ModelParser is the model-assisted OfferParser strategy for rewards text.
// It submits the raw tooltip text to a local text-understanding service and
// expects strict JSON back. Any transport or parse failure degrades to an
// empty RewardSet. Intro offers always go through the deterministic parser.
type ModelParser struct {
	client   *resty.Client
	endpoint string
	model    string
	cache    *memcache.Client
	fallback *PatternParser
	logger   *utils.Logger
}

// NewModelParser creates the model-assisted parser strategy. A memcache
// client is attached only when addr is non-empty.
func NewModelParser(cfg *config.Config, logger *utils.Logger) *ModelParser {
	var cache *memcache.Client
	if cfg.MemcacheAddr != "" {
		cache = memcache.New(cfg.MemcacheAddr)
	}

	client := resty.New().
		SetTimeout(60*time.Second).
		SetHeader("Content-Type", "application/json")

	return &ModelParser{
		client:   client,
		endpoint: cfg.LLMEndpoint,
		model:    cfg.LLMModel,
		cache:    cache,
		fallback: NewPatternParser(logger),
		logger:   logger,
	}
}

// ParseRewards asks the model for a structured RewardSet. Never errors:
// anything short of well-formed JSON in the expected shape yields an empty
// set.
func (p *ModelParser) ParseRewards(ctx context.Context, text string) models.RewardSet {
	if strings.TrimSpace(text) == "" {
		return models.RewardSet{}
	}

	cacheKey := "rewards:" + hashText(text)
	if set, ok := p.cacheGet(cacheKey); ok {
		return set
	}

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: rewardsSystemPrompt},
			{Role: "user", Content: text},
		},
		Format: "json",
		Stream: false,
	}

	var res chatResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		Post(p.endpoint)
	if err != nil {
		p.logger.Warn("[llm] request failed: %v — falling back to empty reward set", err)
		return models.RewardSet{}
	}
	if resp.IsError() {
		p.logger.Warn("[llm] service returned %s — falling back to empty reward set", resp.Status())
		return models.RewardSet{}
	}

	var set models.RewardSet
	if err := json.Unmarshal([]byte(res.Message.Content), &set); err != nil {
		p.logger.Warn("[llm] unparsable model output: %v", err)
		return models.RewardSet{}
	}

	p.cacheSet(cacheKey, set)
	return set
}

// ParseIntroOffer delegates to the deterministic strategy; the model is only
// used for rewards text.
func (p *ModelParser) ParseIntroOffer(ctx context.Context, text string) models.IntroOffer {
	return p.fallback.ParseIntroOffer(ctx, text)
}

func (p *ModelParser) cacheGet(key string) (models.RewardSet, bool) {
	if p.cache == nil {
		return models.RewardSet{}, false
	}
	item, err := p.cache.Get(key)
	if err != nil {
		return models.RewardSet{}, false
	}
	var set models.RewardSet
	if err := json.Unmarshal(item.Value, &set); err != nil {
		return models.RewardSet{}, false
	}
	return set, true
}

func (p *ModelParser) cacheSet(key string, set models.RewardSet) {
	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := p.cache.Set(&memcache.Item{
		Key:        key,
		Value:      payload,
		Expiration: int32(llmCacheTTL.Seconds()),
	}); err != nil {
		p.logger.Debug("[llm] cache set failed: %v", err)
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewOfferParser picks the parser strategy from configuration.
func NewOfferParser(cfg *config.Config, logger *utils.Logger) OfferParser {
	if cfg.ParserStrategy == config.StrategyModel {
		logger.Info("[parser] Using model-assisted strategy (%s via %s)", cfg.LLMModel, cfg.LLMEndpoint)
		return NewModelParser(cfg, logger)
	}
	return NewPatternParser(logger)
}
