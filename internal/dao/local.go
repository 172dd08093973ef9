package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/utils"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// LocalDAO keeps games and price snapshots in csv files and archives runs on the local disk.
type LocalDAO struct {
	outputPath  string
	summaryDir  string
	metadataDir string

	mu sync.RWMutex
}

func NewLocalDAO(outputPath, summaryDir, metadataDir string) *LocalDAO {
	var err error
	err = multierr.Append(err, utils.CreateDirectoryIfNotExists(outputPath))
	err = multierr.Append(err, utils.CreateDirectoryIfNotExists(filepath.Join(outputPath, summaryDir)))
	err = multierr.Append(err, utils.CreateDirectoryIfNotExists(filepath.Join(outputPath, metadataDir)))

	if err != nil {
		logrus.WithError(err).Fatal("Failed to create output directories")
	}

	return &LocalDAO{
		outputPath:  outputPath,
		summaryDir:  summaryDir,
		metadataDir: metadataDir,
	}
}

func (u *LocalDAO) GetGameTimestamp(_ context.Context, gameID string) (time.Time, error) {
	game, err := u.GetGame(gameID)
	if err != nil {
		return time.Time{}, err
	}
	return game.Date.UTC(), nil
}

func (u *LocalDAO) GetGame(gameID string) (models.GameRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	games, err := u.loadGames()
	if err != nil {
		return models.GameRecord{}, err
	}
	for _, game := range games {
		if game.GameID == gameID {
			return game, nil
		}
	}
	return models.GameRecord{}, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
}

func (u *LocalDAO) GetPriceSnapshotInRange(_ context.Context, teamID string, start, end time.Time) (*models.PriceSnapshot, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	snapshots, err := load[models.PriceSnapshot](u.path(PRICE_SNAPSHOTS_FILENAME))
	if err != nil {
		return nil, err
	}

	var latest *models.PriceSnapshot
	for i := range snapshots {
		snapshot := snapshots[i]
		if snapshot.TeamID != teamID || !inRange(snapshot.CreatedAt, start, end) {
			continue
		}
		if latest == nil || snapshot.CreatedAt.After(latest.CreatedAt) {
			latest = &snapshot
		}
	}
	return latest, nil
}

func (u *LocalDAO) GetGamesInRange(_ context.Context, teamID string, start, end time.Time, homeOnly bool) ([]models.GameRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	games, err := u.loadGames()
	if err != nil {
		return nil, err
	}

	matched := make([]models.GameRecord, 0)
	for _, game := range games {
		if game.TeamID != teamID || !inRange(game.Date, start, end) {
			continue
		}
		if homeOnly && !game.IsHome {
			continue
		}
		matched = append(matched, game)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (u *LocalDAO) WriteGamePrices(_ context.Context, gameID string, prices models.SeatingPrices) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	games, err := u.loadGames()
	if err != nil {
		return err
	}
	for i := range games {
		if games[i].GameID == gameID {
			games[i].SeatingPrices = prices
			games[i].UpdatedAt = time.Now().UTC()
			return save(u.path(GAMES_FILENAME), games, false)
		}
	}
	return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
}

// SaveGame inserts the game or replaces the stored game with the same id.
func (u *LocalDAO) SaveGame(game models.GameRecord) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	games, err := u.loadGames()
	if err != nil {
		return err
	}
	replaced := false
	for i := range games {
		if games[i].GameID == game.GameID {
			games[i] = game
			replaced = true
		}
	}
	if !replaced {
		games = append(games, game)
	}
	return save(u.path(GAMES_FILENAME), games, false)
}

func (u *LocalDAO) SavePriceSnapshot(snapshot models.PriceSnapshot) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	path := u.path(PRICE_SNAPSHOTS_FILENAME)
	return save(path, []models.PriceSnapshot{snapshot}, utils.LocalFileExists(path))
}

func (u *LocalDAO) SavePeriodSummaries(runID, teamID string, summaries []models.PeriodSummary) error {
	dir := filepath.Join(u.outputPath, u.summaryDir, teamID)
	if err := utils.CreateDirectoryIfNotExists(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf(SUMMARY_FILENAME_FORMAT, runID))
	logrus.Infof("Saving %d period summaries of team %s to %s", len(summaries), teamID, path)
	return save(path, toSummaryRows(runID, teamID, summaries), false)
}

func (u *LocalDAO) GetLatestRunInfo(teamID string) (models.RunInfo, error) {
	path := u.latestRunInfoPath(teamID)
	if !utils.LocalFileExists(path) {
		return models.RunInfo{}, nil
	}
	var info models.RunInfo
	if err := utils.ReadJSONFile(path, &info); err != nil {
		return models.RunInfo{}, err
	}
	return info, nil
}

func (u *LocalDAO) SaveLatestRunInfo(info models.RunInfo) error {
	file, err := os.Create(u.latestRunInfoPath(info.TeamID))
	if err != nil {
		return err
	}
	defer file.Close()
	return utils.WriteJSONFile(file, info, true)
}

func (u *LocalDAO) latestRunInfoPath(teamID string) string {
	return filepath.Join(u.outputPath, u.metadataDir, fmt.Sprintf(LATEST_RUN_INFO_FILENAME_FORMAT, teamID))
}

func (u *LocalDAO) path(name string) string {
	return filepath.Join(u.outputPath, name)
}

func (u *LocalDAO) loadGames() ([]models.GameRecord, error) {
	return load[models.GameRecord](u.path(GAMES_FILENAME))
}

func load[T any](path string) ([]T, error) {
	records := make([]T, 0)
	if !utils.LocalFileExists(path) {
		return records, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return records, nil
}

func save[T any](path string, records []T, append bool) error {
	var file *os.File
	var err error

	if len(records) == 0 && append {
		logrus.Warnf("No data to save to %s", path)
		return nil
	}

	flag := os.O_CREATE | os.O_WRONLY
	if append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	if file, err = os.OpenFile(path, flag, 0644); err != nil {
		return err
	}
	defer file.Close()

	if !append {
		return gocsv.MarshalFile(records, file)
	}
	return gocsv.MarshalWithoutHeaders(records, file)
}
