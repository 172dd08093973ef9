package pricing

import (
	"fmt"
	"time"

	"github.com/alceccentric/arena-pricing-cron/models"
)

const (
	PriceSourceChange   = "price_change"
	PriceSourceSnapshot = "snapshot"
	PriceSourceNone     = "none"
)

// PricePeriod is a time range in which a team's ticket prices did not change.
//
// StartBoundary is nil only for the oldest period and EndBoundary only for the open,
// most recent one. Periods are built by Builder and never persisted.
type PricePeriod struct {
	PeriodID      int
	GameEvents    []models.GameOccurrence
	StartBoundary *models.PriceChange
	EndBoundary   *models.PriceChange
	PriceSnapshot *models.PriceSnapshot
	OtherGames    []models.GameRecord
	Timezone      string

	safeStart time.Time
	safeEnd   time.Time
}

// SafeStart is the instant from which the period's pricing is guaranteed to apply.
func (p *PricePeriod) SafeStart() time.Time { return p.safeStart }

// SafeEnd is the instant until which the period's pricing is guaranteed to apply.
func (p *PricePeriod) SafeEnd() time.Time { return p.safeEnd }

func (p *PricePeriod) HasValidPricing() bool {
	return p.StartBoundary != nil || p.PriceSnapshot != nil
}

// Prices returns the period's ticket prices, or nil when it has none.
func (p *PricePeriod) Prices() *models.SeatingPrices {
	switch {
	case p.StartBoundary != nil:
		prices := p.StartBoundary.Prices
		return &prices
	case p.PriceSnapshot != nil:
		prices := p.PriceSnapshot.SeatingPrices
		return &prices
	default:
		return nil
	}
}

func (p *PricePeriod) PriceSource() string {
	switch {
	case p.StartBoundary != nil:
		return PriceSourceChange
	case p.PriceSnapshot != nil:
		return PriceSourceSnapshot
	default:
		return PriceSourceNone
	}
}

// Boundaries describes the period by the dates of its bounding price changes.
func (p *PricePeriod) Boundaries() string {
	start, end := "initial", "open"
	if p.StartBoundary != nil {
		start = p.StartBoundary.Date
	}
	if p.EndBoundary != nil {
		end = p.EndBoundary.Date
	}
	return fmt.Sprintf("%s -> %s", start, end)
}

func (p *PricePeriod) OfficialGameCount() int { return len(p.GameEvents) }

func (p *PricePeriod) TotalGameCount() int { return len(p.GameEvents) + len(p.OtherGames) }

// GameIDs lists the arena table games first, then the games only known to the store.
func (p *PricePeriod) GameIDs() []string {
	ids := make([]string, 0, p.TotalGameCount())
	for _, game := range p.GameEvents {
		ids = append(ids, game.GameID)
	}
	for _, game := range p.OtherGames {
		ids = append(ids, game.GameID)
	}
	return ids
}

// Summary reports the period together with the outcome of applying its prices.
func (p *PricePeriod) Summary(result ApplyResult) models.PeriodSummary {
	return models.PeriodSummary{
		PeriodID:      p.PeriodID,
		Boundaries:    p.Boundaries(),
		Prices:        p.Prices(),
		PriceSource:   p.PriceSource(),
		SafeStart:     p.safeStart,
		SafeEnd:       p.safeEnd,
		OfficialGames: p.OfficialGameCount(),
		OtherGames:    len(p.OtherGames),
		GamesUpdated:  result.Updated,
		GamesSkipped:  result.Skipped,
	}
}

func (p *PricePeriod) String() string {
	return fmt.Sprintf("period %d [%s] %d+%d games", p.PeriodID, p.Boundaries(), len(p.GameEvents), len(p.OtherGames))
}

// validateShape rejects periods that would be empty or meaningless.
func validateShape(games []models.GameOccurrence, start, end *models.PriceChange) error {
	if len(games) > 0 {
		return nil
	}
	if start == nil {
		pos := models.Position(0)
		if end != nil {
			pos = end.Pos
		}
		return &ReconciliationError{Kind: ErrEmptyPeriod, Position: pos}
	}
	if end != nil && start.Date == end.Date {
		return &ReconciliationError{
			Kind:     ErrDegeneratePeriod,
			Position: start.Pos,
			Err:      fmt.Errorf("no games between two price changes on %s", start.Date),
		}
	}
	return nil
}

// safeWindow brackets the instants in which a period's prices are known to apply.
//
// The start is the earlier of the first game and the last instant of the starting price
// change's day; the end is the later of the last game and the first instant of the ending
// price change's day. The open period ends at requestTime, raised to the start when the
// starting price change was posted on the request day.
func safeWindow(
	games []models.GameOccurrence,
	timestamps map[string]time.Time,
	start, end *models.PriceChange,
	loc *time.Location,
	requestTime time.Time,
) (time.Time, time.Time, error) {
	var first, last time.Time
	for i, game := range games {
		t := timestamps[game.GameID]
		if i == 0 || t.Before(first) {
			first = t
		}
		if i == 0 || t.After(last) {
			last = t
		}
	}
	hasGames := len(games) > 0

	var safeStart time.Time
	switch {
	case start != nil:
		boundary, err := latestInstantIn(start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, &ReconciliationError{Kind: ErrInvalidCivilDate, Position: start.Pos, Err: err}
		}
		safeStart = boundary
		if hasGames {
			safeStart = minTime(safeStart, first)
		}
	case hasGames:
		safeStart = first
	default:
		return time.Time{}, time.Time{}, &ReconciliationError{Kind: ErrEmptyPeriod}
	}

	if end == nil {
		return safeStart, maxTime(requestTime, safeStart), nil
	}

	safeEnd, err := earliestInstantIn(end.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, &ReconciliationError{Kind: ErrInvalidCivilDate, Position: end.Pos, Err: err}
	}
	if hasGames {
		safeEnd = maxTime(safeEnd, last)
	}
	if safeEnd.Before(safeStart) {
		return time.Time{}, time.Time{}, &ReconciliationError{
			Kind:     ErrDegeneratePeriod,
			Position: end.Pos,
			Err:      fmt.Errorf("safe window starts at %s after it ends at %s", safeStart.Format(time.RFC3339), safeEnd.Format(time.RFC3339)),
		}
	}
	return safeStart, safeEnd, nil
}
