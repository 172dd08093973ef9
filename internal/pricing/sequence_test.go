package pricing

import (
	"errors"
	"testing"

	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_SortsByPosition(t *testing.T) {
	prices := models.NewSeatingPrices(10, 20, 30, 40)
	events := []models.ArenaEvent{
		models.GameOccurrence{Pos: 4, GameID: "g4", Date: "05/01/2025"},
		models.PriceChange{Pos: 2, Date: "05/03/2025", Prices: prices},
		&models.GameOccurrence{Pos: 0, GameID: "g0", Date: "05/05/2025"},
		models.GameOccurrence{Pos: 3, GameID: "g3", Date: "05/02/2025"},
		&models.PriceChange{Pos: 1, Date: "05/04/2025", Prices: prices},
	}

	seq, err := Sequence(events)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, positions(seq.Games))
	require.Len(t, seq.PriceChanges, 2)
	assert.Equal(t, models.Position(1), seq.PriceChanges[0].Pos)
	assert.Equal(t, models.Position(2), seq.PriceChanges[1].Pos)
}

func TestSequence_MissingGameID(t *testing.T) {
	events := []models.ArenaEvent{
		models.GameOccurrence{Pos: 0, GameID: "g0", Date: "05/05/2025"},
		models.GameOccurrence{Pos: 1, Date: "05/04/2025"},
	}

	_, err := Sequence(events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingGameIdentifier))

	var recErr *ReconciliationError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, models.Position(1), recErr.Position)
}

func TestSequence_Empty(t *testing.T) {
	seq, err := Sequence(nil)
	assert.NoError(t, err)
	assert.Empty(t, seq.Games)
	assert.Empty(t, seq.PriceChanges)
}

func TestChronological(t *testing.T) {
	changes := []models.PriceChange{{Pos: 1}, {Pos: 7}, {Pos: 3}}

	sorted := chronological(changes)
	assert.Equal(t, models.Position(7), sorted[0].Pos)
	assert.Equal(t, models.Position(3), sorted[1].Pos)
	assert.Equal(t, models.Position(1), sorted[2].Pos)
	assert.Equal(t, models.Position(1), changes[0].Pos, "input must not be reordered")
}

func TestGamePartitions(t *testing.T) {
	games := []models.GameOccurrence{{Pos: 0}, {Pos: 3}, {Pos: 4}, {Pos: 6}, {Pos: 7}}

	assert.Equal(t, []int{6, 7}, positions(gamesBefore(games, 5)))
	assert.Equal(t, []int{0, 3, 4}, positions(gamesAfter(games, 5)))
	assert.Equal(t, []int{3, 4}, positions(gamesBetween(games, 5, 2)))
	assert.Empty(t, gamesBetween(games, 6, 4))
}

func TestPositionComparators(t *testing.T) {
	assert.True(t, models.Position(5).Before(2))
	assert.False(t, models.Position(2).Before(5))
	assert.True(t, models.Position(2).After(5))
	assert.True(t, models.Position(3).Between(5, 1))
	assert.False(t, models.Position(5).Between(5, 1))
}

func TestReconciliationError_Format(t *testing.T) {
	err := &ReconciliationError{Kind: ErrUnresolvedGameOccurrence, Position: 3, GameID: "g3"}
	assert.Equal(t, "game occurrence not found in store (row 3, game g3)", err.Error())

	wrapped := &ReconciliationError{Kind: ErrInvalidCivilDate, Position: 1, Err: errors.New("bad")}
	assert.Equal(t, "invalid civil date (row 1): bad", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrInvalidCivilDate)
}
