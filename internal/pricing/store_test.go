package pricing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/stretchr/testify/mock"
)

const testTeamID = "12345"

// memStore is an in-memory GameStore.
type memStore struct {
	games     map[string]models.GameRecord
	snapshots []models.PriceSnapshot

	alwaysSnapshot *models.SeatingPrices
	snapshotErr    error
	rangeErr       error
	failWrites     map[string]bool

	writes []string
}

func newMemStore() *memStore {
	return &memStore{
		games:      make(map[string]models.GameRecord),
		failWrites: make(map[string]bool),
	}
}

func (s *memStore) addGame(id string, date time.Time, home bool) {
	s.games[id] = models.GameRecord{GameID: id, TeamID: testTeamID, Date: date.UTC(), IsHome: home}
}

func (s *memStore) addSnapshot(createdAt time.Time, prices models.SeatingPrices) {
	s.snapshots = append(s.snapshots, models.PriceSnapshot{TeamID: testTeamID, SeatingPrices: prices, CreatedAt: createdAt.UTC()})
}

func (s *memStore) GetGameTimestamp(_ context.Context, gameID string) (time.Time, error) {
	game, ok := s.games[gameID]
	if !ok {
		return time.Time{}, dao.ErrGameNotFound
	}
	return game.Date, nil
}

func (s *memStore) GetPriceSnapshotInRange(_ context.Context, teamID string, start, end time.Time) (*models.PriceSnapshot, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	if s.alwaysSnapshot != nil {
		return &models.PriceSnapshot{TeamID: teamID, SeatingPrices: *s.alwaysSnapshot, CreatedAt: start}, nil
	}
	var latest *models.PriceSnapshot
	for i := range s.snapshots {
		snapshot := s.snapshots[i]
		if snapshot.TeamID != teamID || snapshot.CreatedAt.Before(start) || snapshot.CreatedAt.After(end) {
			continue
		}
		if latest == nil || snapshot.CreatedAt.After(latest.CreatedAt) {
			latest = &snapshot
		}
	}
	return latest, nil
}

func (s *memStore) GetGamesInRange(_ context.Context, teamID string, start, end time.Time, homeOnly bool) ([]models.GameRecord, error) {
	if s.rangeErr != nil {
		return nil, s.rangeErr
	}
	games := make([]models.GameRecord, 0)
	for _, game := range s.games {
		if game.TeamID != teamID || (homeOnly && !game.IsHome) {
			continue
		}
		if game.Date.Before(start) || game.Date.After(end) {
			continue
		}
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Date.Before(games[j].Date) })
	return games, nil
}

func (s *memStore) WriteGamePrices(_ context.Context, gameID string, prices models.SeatingPrices) error {
	if s.failWrites[gameID] {
		return errors.New("write failed")
	}
	game, ok := s.games[gameID]
	if !ok {
		return dao.ErrGameNotFound
	}
	game.SeatingPrices = prices
	s.games[gameID] = game
	s.writes = append(s.writes, gameID)
	return nil
}

// MockGameStore is a testify mock of dao.GameStore.
type MockGameStore struct {
	mock.Mock
}

func (m *MockGameStore) GetGameTimestamp(ctx context.Context, gameID string) (time.Time, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockGameStore) GetPriceSnapshotInRange(ctx context.Context, teamID string, start, end time.Time) (*models.PriceSnapshot, error) {
	args := m.Called(ctx, teamID, start, end)
	snapshot, _ := args.Get(0).(*models.PriceSnapshot)
	return snapshot, args.Error(1)
}

func (m *MockGameStore) GetGamesInRange(ctx context.Context, teamID string, start, end time.Time, homeOnly bool) ([]models.GameRecord, error) {
	args := m.Called(ctx, teamID, start, end, homeOnly)
	games, _ := args.Get(0).([]models.GameRecord)
	return games, args.Error(1)
}

func (m *MockGameStore) WriteGamePrices(ctx context.Context, gameID string, prices models.SeatingPrices) error {
	args := m.Called(ctx, gameID, prices)
	return args.Error(0)
}

// eastern is the arena page zone used by most tests.
var eastern = LoadTimezone(DefaultTimezone)

// localTime returns hour:00 on the given day in loc.
func localTime(loc *time.Location, year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, loc)
}

func civil(t time.Time) string {
	return t.Format("01/02/2006")
}

func game(pos int, id string, at time.Time) models.GameOccurrence {
	return models.GameOccurrence{Pos: models.Position(pos), GameID: id, Date: civil(at)}
}

func change(pos int, date string, prices models.SeatingPrices) models.PriceChange {
	return models.PriceChange{Pos: models.Position(pos), Date: date, Prices: prices}
}

func positions(games []models.GameOccurrence) []int {
	out := make([]int, 0, len(games))
	for _, g := range games {
		out = append(out, int(g.Pos))
	}
	return out
}
