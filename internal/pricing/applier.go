package pricing

import (
	"context"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/sirupsen/logrus"
)

// ApplyResult maps each game of a period to whether its prices were written.
type ApplyResult struct {
	Updates map[string]bool
	Updated int
	Skipped int
}

// ApplyPeriodPrices writes the period's prices onto every game it covers, overwriting the
// stored prices. A failed write is logged and counted but never stops the other writes.
// A period without pricing writes nothing and reports all of its games as skipped.
func ApplyPeriodPrices(ctx context.Context, store dao.GameStore, period *PricePeriod) ApplyResult {
	result := ApplyResult{Updates: make(map[string]bool)}
	log := logrus.WithField("period_id", period.PeriodID)

	prices := period.Prices()
	if prices == nil {
		result.Skipped = period.TotalGameCount()
		log.Warnf("Period has no pricing information, skipping %d games", result.Skipped)
		return result
	}

	for _, gameID := range period.GameIDs() {
		if err := store.WriteGamePrices(ctx, gameID, *prices); err != nil {
			log.WithError(err).Warnf("Failed to update pricing for game %s", gameID)
			result.Updates[gameID] = false
			result.Skipped++
			continue
		}
		log.Debugf("Updated pricing for game %s to %s", gameID, prices)
		result.Updates[gameID] = true
		result.Updated++
	}

	log.Infof("Period %s pricing update complete: %d/%d games updated",
		period.Boundaries(), result.Updated, period.TotalGameCount())
	return result
}
