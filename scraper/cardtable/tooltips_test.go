package cardtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"creditcard-scraper/utils"
)

func TestHarvestReadsAndDismisses(t *testing.T) {
	session := &fakeSession{
		tooltips: map[string]string{
			triggerSelector(1, colRewards): "5x on travel purchased through Chase Travel",
		},
	}
	h := NewTooltipHarvester(session, 0, utils.NewLogger())

	text := h.Harvest(context.Background(), 1, colRewards)

	assert.Equal(t, "5x on travel purchased through Chase Travel", text)
	assert.Equal(t, 1, session.escapes, "tooltip must be dismissed after reading")
}

func TestHarvestMissingTriggerReturnsEmpty(t *testing.T) {
	session := &fakeSession{tooltips: map[string]string{}}
	h := NewTooltipHarvester(session, 0, utils.NewLogger())

	assert.Empty(t, h.Harvest(context.Background(), 2, colRewards))
	assert.Zero(t, session.escapes)
}

func TestHarvestInvisibleTooltipReturnsEmptyAndDismisses(t *testing.T) {
	session := &fakeSession{
		tooltips: map[string]string{
			// Trigger exists but the tooltip has no content, so it never
			// becomes visible.
			triggerSelector(1, colIntroOffer): "",
		},
	}
	h := NewTooltipHarvester(session, 0, utils.NewLogger())

	assert.Empty(t, h.Harvest(context.Background(), 1, colIntroOffer))
	assert.Equal(t, 1, session.escapes, "state must be reset even when nothing was read")
}
