package pricing

import (
	"sort"

	"github.com/alceccentric/arena-pricing-cron/models"
)

// SequencedEvents is the arena log split by row kind. Both slices are sorted by ascending
// position, i.e. from the most recent row to the oldest.
type SequencedEvents struct {
	Games        []models.GameOccurrence
	PriceChanges []models.PriceChange
}

// Sequence splits classified arena rows into games and price changes.
// A game without an id fails the whole log since it could never be matched against the store.
func Sequence(events []models.ArenaEvent) (SequencedEvents, error) {
	var seq SequencedEvents

	for _, event := range events {
		switch e := event.(type) {
		case models.GameOccurrence:
			if err := appendGame(&seq, e); err != nil {
				return SequencedEvents{}, err
			}
		case *models.GameOccurrence:
			if e == nil {
				continue
			}
			if err := appendGame(&seq, *e); err != nil {
				return SequencedEvents{}, err
			}
		case models.PriceChange:
			seq.PriceChanges = append(seq.PriceChanges, e)
		case *models.PriceChange:
			if e == nil {
				continue
			}
			seq.PriceChanges = append(seq.PriceChanges, *e)
		}
	}

	sortGames(seq.Games)
	sort.Slice(seq.PriceChanges, func(i, j int) bool {
		return seq.PriceChanges[i].Pos.After(seq.PriceChanges[j].Pos)
	})
	return seq, nil
}

func appendGame(seq *SequencedEvents, game models.GameOccurrence) error {
	if game.GameID == "" {
		return &ReconciliationError{Kind: ErrMissingGameIdentifier, Position: game.Pos}
	}
	seq.Games = append(seq.Games, game)
	return nil
}

func sortGames(games []models.GameOccurrence) {
	sort.Slice(games, func(i, j int) bool {
		return games[i].Pos.After(games[j].Pos)
	})
}

// chronological returns the price changes ordered oldest first.
func chronological(changes []models.PriceChange) []models.PriceChange {
	sorted := make([]models.PriceChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Pos.Before(sorted[j].Pos)
	})
	return sorted
}

func gamesBefore(games []models.GameOccurrence, pivot models.Position) []models.GameOccurrence {
	return filterGames(games, func(p models.Position) bool { return p.Before(pivot) })
}

func gamesAfter(games []models.GameOccurrence, pivot models.Position) []models.GameOccurrence {
	return filterGames(games, func(p models.Position) bool { return p.After(pivot) })
}

func gamesBetween(games []models.GameOccurrence, older, newer models.Position) []models.GameOccurrence {
	return filterGames(games, func(p models.Position) bool { return p.Between(older, newer) })
}

func filterGames(games []models.GameOccurrence, keep func(models.Position) bool) []models.GameOccurrence {
	matched := make([]models.GameOccurrence, 0)
	for _, game := range games {
		if keep(game.Pos) {
			matched = append(matched, game)
		}
	}
	return matched
}
