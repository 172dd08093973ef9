// Package pricing reconstructs the ticket price periods of a team from its arena attendance
// log and writes each period's prices onto the games it covers.
package pricing

import (
	"context"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/models"
)

// BuildPricePeriods sequences events and builds the priced periods without writing anything.
func BuildPricePeriods(
	ctx context.Context,
	store dao.GameStore,
	events []models.ArenaEvent,
	teamID, timezone string,
	requestTime time.Time,
) ([]*PricePeriod, error) {
	seq, err := Sequence(events)
	if err != nil {
		return nil, err
	}
	return NewBuilder(store, teamID, timezone, requestTime).Build(ctx, seq)
}

// BuildAndApplyPricePeriods builds the periods of events and writes their prices onto every
// attributed game. A *ReconciliationError means nothing was written.
func BuildAndApplyPricePeriods(
	ctx context.Context,
	store dao.GameStore,
	events []models.ArenaEvent,
	teamID, timezone string,
	requestTime time.Time,
) ([]models.PeriodSummary, error) {
	periods, err := BuildPricePeriods(ctx, store, events, teamID, timezone, requestTime)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PeriodSummary, 0, len(periods))
	for _, period := range periods {
		result := ApplyPeriodPrices(ctx, store, period)
		summaries = append(summaries, period.Summary(result))
	}
	return summaries, nil
}
