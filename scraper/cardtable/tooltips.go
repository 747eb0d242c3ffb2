package cardtable

import (
	"context"
	"fmt"
	"time"

	"creditcard-scraper/utils"
)

// tooltipSelector matches the disclosure element once its trigger has been
// activated.
const tooltipSelector = `[role="tooltip"], [data-tooltip-content], .tooltip-content`

// tooltipVisibleTimeout bounds how long we wait for a clicked tooltip to
// become visible before giving up on it.
const tooltipVisibleTimeout = 3 * time.Second

// TooltipHarvester retrieves text hidden behind disclosure triggers. All
// harvesting is strictly sequential: a click opens global per-page state
// that must be dismissed before the next one.
type TooltipHarvester struct {
	session PageSession
	wait    time.Duration
	logger  *utils.Logger
}

// NewTooltipHarvester creates a harvester. wait is the fixed delay between
// clicking a trigger and reading the tooltip, covering render latency.
func NewTooltipHarvester(session PageSession, wait time.Duration, logger *utils.Logger) *TooltipHarvester {
	return &TooltipHarvester{session: session, wait: wait, logger: logger}
}

// Harvest clicks the disclosure trigger in the given row and column, reads
// the revealed text, and dismisses the tooltip with Escape. Any failure —
// trigger missing, tooltip never visible — returns "" without erroring;
// missing disclosure text must not abort the run. rowIndex is 1-based,
// columnIndex 0-based.
func (h *TooltipHarvester) Harvest(ctx context.Context, rowIndex, columnIndex int) string {
	trigger := fmt.Sprintf("table tbody tr:nth-child(%d) td:nth-child(%d) button",
		rowIndex, columnIndex+1)

	// Triggers outside the viewport won't receive the click.
	scroll := fmt.Sprintf(
		`(function(){var el=document.querySelector(%q);if(el)el.scrollIntoView({block:"center"});})()`,
		trigger)
	if err := h.session.Evaluate(ctx, scroll, nil); err != nil {
		h.logger.Debug("[tooltips] Row %d col %d: scroll failed: %v", rowIndex, columnIndex, err)
	}

	if err := h.session.Click(ctx, trigger); err != nil {
		h.logger.Debug("[tooltips] Row %d col %d: trigger not clickable: %v", rowIndex, columnIndex, err)
		return ""
	}

	time.Sleep(h.wait)

	if err := h.session.WaitVisible(ctx, tooltipSelector, tooltipVisibleTimeout); err != nil {
		h.logger.Debug("[tooltips] Row %d col %d: tooltip never visible: %v", rowIndex, columnIndex, err)
		h.dismiss(ctx)
		return ""
	}

	text, err := h.session.Text(ctx, tooltipSelector)
	h.dismiss(ctx)
	if err != nil {
		h.logger.Debug("[tooltips] Row %d col %d: read failed: %v", rowIndex, columnIndex, err)
		return ""
	}

	return text
}

func (h *TooltipHarvester) dismiss(ctx context.Context) {
	if err := h.session.PressEscape(ctx); err != nil {
		h.logger.Debug("[tooltips] Escape failed: %v", err)
	}
}
