package dao

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "localdao_test")
	assert.NoError(t, err)
	return dir
}

func writeJSONFile(t *testing.T, path string, v interface{}) {
	f, err := os.Create(path)
	assert.NoError(t, err)
	defer f.Close()
	enc := json.NewEncoder(f)
	assert.NoError(t, enc.Encode(v))
}

var day = time.Date(2025, 5, 17, 23, 0, 0, 0, time.UTC)

func seedGames(t *testing.T, dao *LocalDAO) {
	games := []models.GameRecord{
		{GameID: "g1", TeamID: "42", Date: day.Add(-48 * time.Hour), IsHome: true, Opponent: "Rodon"},
		{GameID: "g2", TeamID: "42", Date: day.Add(-24 * time.Hour), IsHome: false},
		{GameID: "g3", TeamID: "42", Date: day, IsHome: true},
		{GameID: "g4", TeamID: "7", Date: day, IsHome: true},
	}
	for _, game := range games {
		require.NoError(t, dao.SaveGame(game))
	}
}

func TestLocalGetGameTimestamp(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	seedGames(t, dao)

	ts, err := dao.GetGameTimestamp(context.Background(), "g3")
	assert.NoError(t, err)
	assert.True(t, day.Equal(ts))

	_, err = dao.GetGameTimestamp(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLocalGetGameTimestamp_NoFile(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")

	_, err := dao.GetGameTimestamp(context.Background(), "g1")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLocalSaveGame_Upsert(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	seedGames(t, dao)

	require.NoError(t, dao.SaveGame(models.GameRecord{GameID: "g1", TeamID: "42", Date: day, Opponent: "Red Pirates"}))
	game, err := dao.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "Red Pirates", game.Opponent)

	games, err := dao.loadGames()
	require.NoError(t, err)
	assert.Len(t, games, 4)
}

func TestLocalGetGamesInRange(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	seedGames(t, dao)

	all, err := dao.GetGamesInRange(context.Background(), "42", day.Add(-72*time.Hour), day, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "g1", all[0].GameID)
	assert.Equal(t, "g3", all[2].GameID)

	home, err := dao.GetGamesInRange(context.Background(), "42", day.Add(-72*time.Hour), day, true)
	require.NoError(t, err)
	assert.Len(t, home, 2)

	narrow, err := dao.GetGamesInRange(context.Background(), "42", day.Add(-47*time.Hour), day.Add(-time.Second), true)
	require.NoError(t, err)
	assert.Empty(t, narrow)
}

func TestLocalWriteGamePrices(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	seedGames(t, dao)
	prices := models.NewSeatingPrices(9, 18, 78, 410)

	require.NoError(t, dao.WriteGamePrices(context.Background(), "g3", prices))
	require.NoError(t, dao.WriteGamePrices(context.Background(), "g3", prices))

	game, err := dao.GetGame("g3")
	require.NoError(t, err)
	assert.True(t, prices.Equal(game.SeatingPrices))
	assert.False(t, game.UpdatedAt.IsZero())

	other, err := dao.GetGame("g1")
	require.NoError(t, err)
	assert.Nil(t, other.Bleachers)

	err = dao.WriteGamePrices(context.Background(), "missing", prices)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLocalGetPriceSnapshotInRange(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")

	older := models.PriceSnapshot{TeamID: "42", SeatingPrices: models.NewSeatingPrices(1, 2, 3, 4), CreatedAt: day.Add(-2 * time.Hour)}
	newer := models.PriceSnapshot{TeamID: "42", SeatingPrices: models.NewSeatingPrices(5, 6, 7, 8), CreatedAt: day.Add(-time.Hour)}
	otherTeam := models.PriceSnapshot{TeamID: "7", SeatingPrices: models.NewSeatingPrices(0, 0, 0, 0), CreatedAt: day.Add(-30 * time.Minute)}
	for _, snapshot := range []models.PriceSnapshot{newer, older, otherTeam} {
		require.NoError(t, dao.SavePriceSnapshot(snapshot))
	}

	found, err := dao.GetPriceSnapshotInRange(context.Background(), "42", day.Add(-3*time.Hour), day)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, newer.SeatingPrices.Equal(found.SeatingPrices))

	found, err = dao.GetPriceSnapshotInRange(context.Background(), "42", day.Add(-3*time.Hour), day.Add(-90*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, older.SeatingPrices.Equal(found.SeatingPrices))

	found, err = dao.GetPriceSnapshotInRange(context.Background(), "42", day, day.Add(time.Hour))
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestLocalGetLatestRunInfo_FileNotExist(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")

	info, err := dao.GetLatestRunInfo("42")
	assert.NoError(t, err)
	assert.True(t, info.RequestTime.IsZero())
}

func TestLocalGetLatestRunInfo_FileExists_Valid(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	expected := models.RunInfo{RunID: "r1", TeamID: "42", RequestTime: day, Periods: 2}
	writeJSONFile(t, filepath.Join(tmp, "m", "latest_run_42.json"), expected)

	info, err := dao.GetLatestRunInfo("42")
	assert.NoError(t, err)
	assert.Equal(t, "r1", info.RunID)
	assert.True(t, day.Equal(info.RequestTime))
}

func TestLocalGetLatestRunInfo_FileExists_Invalid(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	os.WriteFile(filepath.Join(tmp, "m", "latest_run_42.json"), []byte("not json"), 0644)

	_, err := dao.GetLatestRunInfo("42")
	assert.Error(t, err)
}

func TestLocalSaveLatestRunInfo(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	info := models.RunInfo{RunID: "r2", TeamID: "42", RequestTime: day, GamesUpdated: 5}

	require.NoError(t, dao.SaveLatestRunInfo(info))
	loaded, err := dao.GetLatestRunInfo("42")
	assert.NoError(t, err)
	assert.Equal(t, 5, loaded.GamesUpdated)
	assert.Equal(t, "r2", loaded.RunID)
}

func TestLocalSavePeriodSummaries(t *testing.T) {
	tmp := createTempDir(t)
	defer os.RemoveAll(tmp)
	dao := NewLocalDAO(tmp, "s", "m")
	prices := models.NewSeatingPrices(13, 36, 128, 830)
	summaries := []models.PeriodSummary{
		{PeriodID: 0, Boundaries: "initial -> 05/15/2025", PriceSource: "none", GamesSkipped: 2},
		{PeriodID: 1, Boundaries: "05/15/2025 -> open", Prices: &prices, PriceSource: "price_change", GamesUpdated: 3},
	}

	require.NoError(t, dao.SavePeriodSummaries("r1", "42", summaries))

	file, err := os.Open(filepath.Join(tmp, "s", "42", "period_summary_r1.csv"))
	require.NoError(t, err)
	defer file.Close()
	var rows []models.PeriodSummaryRow
	require.NoError(t, gocsv.UnmarshalFile(file, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "r1", rows[0].RunID)
	assert.Nil(t, rows[0].Bleachers)
	assert.Equal(t, 3, rows[1].GamesUpdated)
	require.NotNil(t, rows[1].LuxuryBoxes)
	assert.Equal(t, 830, *rows[1].LuxuryBoxes)
}
