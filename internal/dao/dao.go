package dao

import (
	"context"
	"errors"
	"time"

	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	GAMES_FILENAME                  = "games.csv"
	PRICE_SNAPSHOTS_FILENAME        = "price_snapshots.csv"
	SUMMARY_FILENAME_FORMAT         = "period_summary_%s.csv"
	LATEST_RUN_INFO_FILENAME_FORMAT = "latest_run_%s.json"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

type S3Uploader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// GameStore is the durable store the price reconciliation reads games and snapshots from
// and writes game prices to.
type GameStore interface {
	// GetGameTimestamp returns ErrGameNotFound when the game is unknown.
	GetGameTimestamp(ctx context.Context, gameID string) (time.Time, error)
	// GetPriceSnapshotInRange returns the most recent snapshot of the team taken in [start, end],
	// or nil when there is none.
	GetPriceSnapshotInRange(ctx context.Context, teamID string, start, end time.Time) (*models.PriceSnapshot, error)
	GetGamesInRange(ctx context.Context, teamID string, start, end time.Time, homeOnly bool) ([]models.GameRecord, error)
	// WriteGamePrices overwrites the stored prices of the game.
	WriteGamePrices(ctx context.Context, gameID string, prices models.SeatingPrices) error
}

// RunArchive keeps the outcome of reconciliation runs.
type RunArchive interface {
	SavePeriodSummaries(runID, teamID string, summaries []models.PeriodSummary) error
	// GetLatestRunInfo returns a zero RunInfo when the team was never reconciled.
	GetLatestRunInfo(teamID string) (models.RunInfo, error)
	SaveLatestRunInfo(info models.RunInfo) error
}

func toSummaryRows(runID, teamID string, summaries []models.PeriodSummary) []models.PeriodSummaryRow {
	rows := make([]models.PeriodSummaryRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, models.NewPeriodSummaryRow(runID, teamID, summary))
	}
	return rows
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
