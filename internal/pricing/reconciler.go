package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/sirupsen/logrus"
)

// resolveGameTimes looks up the start time of every arena table game.
// Any game missing from the store fails the request.
func resolveGameTimes(ctx context.Context, store dao.GameStore, games []models.GameOccurrence) (map[string]time.Time, error) {
	timestamps := make(map[string]time.Time, len(games))
	for _, game := range games {
		if _, ok := timestamps[game.GameID]; ok {
			continue
		}
		t, err := store.GetGameTimestamp(ctx, game.GameID)
		if err != nil {
			if errors.Is(err, dao.ErrGameNotFound) {
				return nil, &ReconciliationError{Kind: ErrUnresolvedGameOccurrence, Position: game.Pos, GameID: game.GameID}
			}
			return nil, fmt.Errorf("resolve game %s: %w", game.GameID, err)
		}
		timestamps[game.GameID] = t.UTC()
	}
	return timestamps, nil
}

// findOtherGames returns the team's home games inside the period's safe window that were
// not listed in the arena table and are not attributed to another period yet.
// Lookup failures are logged and yield no games.
func findOtherGames(ctx context.Context, store dao.GameStore, teamID string, period *PricePeriod, claimed map[string]struct{}) []models.GameRecord {
	candidates, err := store.GetGamesInRange(ctx, teamID, period.safeStart, period.safeEnd, true)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"team_id":   teamID,
			"boundary":  period.Boundaries(),
			"safe_from": period.safeStart,
			"safe_to":   period.safeEnd,
		}).Warn("Failed to look up other home games, continuing without them")
		return nil
	}

	others := make([]models.GameRecord, 0)
	for _, game := range candidates {
		if _, taken := claimed[game.GameID]; taken {
			continue
		}
		claimed[game.GameID] = struct{}{}
		others = append(others, game)
	}
	return others
}
