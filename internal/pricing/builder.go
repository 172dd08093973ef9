package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/sirupsen/logrus"
)

type candidateKind int

const (
	candidateOnly candidateKind = iota
	candidateInitial
	candidateInterior
	candidateOpen
)

type candidate struct {
	kind  candidateKind
	games []models.GameOccurrence
	start *models.PriceChange
	end   *models.PriceChange
}

// Builder partitions the arena log of one team into price periods.
// A Builder is used for a single request and is not safe for concurrent use.
type Builder struct {
	store       dao.GameStore
	teamID      string
	timezone    string
	location    *time.Location
	requestTime time.Time

	timestamps map[string]time.Time
	claimed    map[string]struct{}
}

// NewBuilder prepares a builder for teamID. A zero requestTime means now.
func NewBuilder(store dao.GameStore, teamID, timezone string, requestTime time.Time) *Builder {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if requestTime.IsZero() {
		requestTime = time.Now()
	}
	return &Builder{
		store:       store,
		teamID:      teamID,
		timezone:    timezone,
		location:    LoadTimezone(timezone),
		requestTime: requestTime.UTC(),
	}
}

// Build returns the priced periods of seq ordered from oldest to newest, numbered from 0.
//
// Every game occurrence is resolved against the store before any period is built, so an
// unknown game fails the request without side effects. Periods that end up without pricing
// are dropped; an empty result with a nil error means no period could be priced.
func (b *Builder) Build(ctx context.Context, seq SequencedEvents) ([]*PricePeriod, error) {
	if len(seq.Games) == 0 && len(seq.PriceChanges) == 0 {
		return nil, &ReconciliationError{Kind: ErrEmptyPeriod}
	}

	timestamps, err := resolveGameTimes(ctx, b.store, seq.Games)
	if err != nil {
		return nil, err
	}
	b.timestamps = timestamps
	b.claimed = make(map[string]struct{}, len(seq.Games))
	for _, game := range seq.Games {
		b.claimed[game.GameID] = struct{}{}
	}

	periods := make([]*PricePeriod, 0, len(seq.PriceChanges)+1)
	for _, c := range b.candidates(seq) {
		period, err := b.newPeriod(ctx, c)
		if err != nil {
			return nil, err
		}
		if period != nil {
			periods = append(periods, period)
		}
	}

	for i, period := range periods {
		period.PeriodID = i
	}

	log := logrus.WithField("team_id", b.teamID)
	if len(periods) == 0 {
		log.Info("No period could be assigned a trustworthy price")
		return periods, nil
	}
	log.Infof("Built %d price periods from %d games and %d price changes",
		len(periods), len(seq.Games), len(seq.PriceChanges))
	return periods, nil
}

// candidates splits the games on the price changes, oldest candidate first.
func (b *Builder) candidates(seq SequencedEvents) []candidate {
	switch len(seq.PriceChanges) {
	case 0:
		return []candidate{{kind: candidateOnly, games: seq.Games}}
	case 1:
		change := seq.PriceChanges[0]
		return []candidate{
			{kind: candidateInitial, games: gamesBefore(seq.Games, change.Pos), end: &change},
			{kind: candidateOpen, games: gamesAfter(seq.Games, change.Pos), start: &change},
		}
	}

	changes := chronological(seq.PriceChanges)
	first, last := changes[0], changes[len(changes)-1]

	candidates := make([]candidate, 0, len(changes)+1)
	candidates = append(candidates, candidate{kind: candidateInitial, games: gamesBefore(seq.Games, first.Pos), end: &first})
	for i := 1; i < len(changes); i++ {
		older, newer := changes[i-1], changes[i]
		candidates = append(candidates, candidate{
			kind:  candidateInterior,
			games: gamesBetween(seq.Games, older.Pos, newer.Pos),
			start: &older,
			end:   &newer,
		})
	}
	candidates = append(candidates, candidate{kind: candidateOpen, games: gamesAfter(seq.Games, last.Pos), start: &last})
	return candidates
}

// newPeriod constructs the period of c. It returns nil without error when c is dropped.
func (b *Builder) newPeriod(ctx context.Context, c candidate) (*PricePeriod, error) {
	log := logrus.WithField("team_id", b.teamID)

	if c.kind == candidateInitial && len(c.games) == 0 {
		log.Debugf("Dropping initial period ending on %s: no games", c.end.Date)
		return nil, nil
	}
	if err := validateShape(c.games, c.start, c.end); err != nil {
		if c.kind == candidateInterior && errors.Is(err, ErrDegeneratePeriod) {
			log.Debugf("Skipping empty period between price changes on %s", c.start.Date)
			return nil, nil
		}
		return nil, err
	}

	safeStart, safeEnd, err := safeWindow(c.games, b.timestamps, c.start, c.end, b.location, b.requestTime)
	if err != nil {
		return nil, err
	}

	period := &PricePeriod{
		GameEvents:    c.games,
		StartBoundary: c.start,
		EndBoundary:   c.end,
		Timezone:      b.timezone,
		safeStart:     safeStart,
		safeEnd:       safeEnd,
	}

	resolvePricing(ctx, b.store, b.teamID, period)
	if !period.HasValidPricing() {
		log.Infof("Dropping period %s: no price change or snapshot", period.Boundaries())
		return nil, nil
	}

	period.OtherGames = findOtherGames(ctx, b.store, b.teamID, period, b.claimed)
	log.Debugf("Constructed %s", period)
	return period, nil
}
