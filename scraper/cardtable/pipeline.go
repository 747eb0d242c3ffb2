package cardtable

import (
	"context"
	"strings"
	"time"

	"creditcard-scraper/config"
	"creditcard-scraper/models"
	"creditcard-scraper/services"
	"creditcard-scraper/utils"
)

// tableSelector locates the single results table on the page.
const tableSelector = "table"

// State tracks pipeline progress. Failed is terminal and reachable from any
// state; failure is reported as data on the report, never as a returned
// error.
type State int

const (
	StateIdle State = iota
	StateSessionOpen
	StateRowsExtracted
	StateTooltipsHarvested
	StateParsed
	StateDeduplicated
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateSessionOpen:       "session-open",
	StateRowsExtracted:     "rows-extracted",
	StateTooltipsHarvested: "tooltips-harvested",
	StateParsed:            "parsed",
	StateDeduplicated:      "deduplicated",
	StateDone:              "done",
	StateFailed:            "failed",
}

func (s State) String() string { return stateNames[s] }

// Pipeline drives one scrape attempt: navigate, extract rows, harvest
// tooltips sequentially, parse, dedupe. One instance owns one session and
// runs single-threaded.
type Pipeline struct {
	session   PageSession
	extractor *RowExtractor
	harvester *TooltipHarvester
	parser    services.OfferParser
	deduper   *services.Deduplicator
	logger    *utils.Logger
	state     State
}

// NewPipeline wires a pipeline around an open session.
func NewPipeline(session PageSession, parser services.OfferParser, cfg *config.Config, logger *utils.Logger) *Pipeline {
	wait := time.Duration(cfg.TooltipWaitMs) * time.Millisecond
	return &Pipeline{
		session:   session,
		extractor: NewRowExtractor(logger),
		harvester: NewTooltipHarvester(session, wait, logger),
		parser:    parser,
		deduper:   services.NewDeduplicator(logger),
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State { return p.state }

// Run executes a full scrape attempt against url. A report is always
// returned: session-level failures set Error/ErrorMessage on it, and
// per-card tooltip or parse trouble just leaves that card without the
// corresponding detail field.
func (p *Pipeline) Run(ctx context.Context, url string) *models.ExtractionReport {
	report := &models.ExtractionReport{
		URL:         url,
		CreditCards: []*models.FinalCard{},
		Timestamp:   time.Now(),
	}

	p.logger.Info("[pipeline] Starting extraction: %s", url)

	if err := p.session.Navigate(ctx, url); err != nil {
		return p.fail(report, err)
	}
	p.transition(StateSessionOpen)

	snapshot, err := p.session.OuterHTML(ctx, tableSelector)
	if err != nil {
		return p.fail(report, err)
	}
	candidates, err := p.extractor.Extract(snapshot)
	if err != nil {
		return p.fail(report, err)
	}
	p.transition(StateRowsExtracted)

	cards := p.harvestTooltips(ctx, candidates)
	p.transition(StateTooltipsHarvested)

	p.parseDetails(ctx, cards)
	p.transition(StateParsed)

	cards = p.deduper.Dedupe(cards)
	p.transition(StateDeduplicated)

	report.CreditCards = cards
	report.TotalCardsFound = len(cards)
	p.transition(StateDone)

	p.logger.Info("[pipeline] Done: %d cards extracted from %s", len(cards), url)
	return report
}

// harvestTooltips runs the click/read/dismiss sequence for every flagged
// cell, one card at a time. Never concurrent: overlapping clicks would
// corrupt the page's open/close state.
func (p *Pipeline) harvestTooltips(ctx context.Context, candidates []*models.CandidateCard) []*models.FinalCard {
	cards := make([]*models.FinalCard, 0, len(candidates))

	for _, candidate := range candidates {
		card := &models.FinalCard{CandidateCard: *candidate}

		if candidate.HasRewardsTooltip {
			if raw := strings.TrimSpace(p.harvester.Harvest(ctx, candidate.RowIndex, colRewards)); raw != "" {
				card.DetailedRewards = &models.DetailedRewards{Raw: raw}
			}
		}
		if candidate.HasIntroTooltip {
			if raw := strings.TrimSpace(p.harvester.Harvest(ctx, candidate.RowIndex, colIntroOffer)); raw != "" {
				card.DetailedIntroOffer = &models.DetailedIntroOffer{Raw: raw}
			}
		}

		cards = append(cards, card)
	}
	return cards
}

func (p *Pipeline) parseDetails(ctx context.Context, cards []*models.FinalCard) {
	for _, card := range cards {
		if card.DetailedRewards != nil {
			card.DetailedRewards.Parsed = p.parser.ParseRewards(ctx, card.DetailedRewards.Raw)
		}
		if card.DetailedIntroOffer != nil {
			card.DetailedIntroOffer.Parsed = p.parser.ParseIntroOffer(ctx, card.DetailedIntroOffer.Raw)
		}
	}
}

func (p *Pipeline) transition(next State) {
	p.logger.Debug("[pipeline] %s → %s", p.state, next)
	p.state = next
}

// fail absorbs a session-level error into the report. A scrape attempt
// always yields a report.
func (p *Pipeline) fail(report *models.ExtractionReport, err error) *models.ExtractionReport {
	p.transition(StateFailed)
	p.logger.Error("[pipeline] Extraction failed: %v", err)
	report.Error = true
	report.ErrorMessage = err.Error()
	return report
}
