package pricing

import (
	"context"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/sirupsen/logrus"
)

// resolvePricing attaches a price snapshot to a period that has no starting price change.
// The store picks the most recent snapshot inside the safe window; lookup failures leave the
// period without pricing.
func resolvePricing(ctx context.Context, store dao.GameStore, teamID string, period *PricePeriod) {
	if period.StartBoundary != nil || period.PriceSnapshot != nil {
		return
	}

	snapshot, err := store.GetPriceSnapshotInRange(ctx, teamID, period.safeStart, period.safeEnd)
	if err != nil {
		logrus.WithError(err).WithField("team_id", teamID).
			Warnf("Failed to look up a price snapshot for %s", period.Boundaries())
		return
	}
	if snapshot == nil {
		logrus.WithField("team_id", teamID).
			Debugf("No price snapshot between %s and %s", period.safeStart, period.safeEnd)
		return
	}
	period.PriceSnapshot = snapshot
}
