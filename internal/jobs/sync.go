package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/arena"
	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/internal/pricing"
	utils "github.com/alceccentric/arena-pricing-cron/internal/utils"
	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	DEFAULT_CONCURRENCY = 4
)

var ErrRecentlySynced = errors.New("team was reconciled recently")

type SyncOptions struct {
	TeamIDs  []string
	Timezone string
	// Concurrency bounds the number of teams reconciled at the same time.
	Concurrency int
	// RequestDelay spaces out the arena page requests.
	RequestDelay time.Duration
	// MinInterval skips teams whose latest run is more recent. Zero always reconciles.
	MinInterval time.Duration
	Now         func() time.Time
}

// RunSync reconciles the ticket prices of every team in options.TeamIDs.
// A failing team does not stop the others; the returned error aggregates all failures.
func RunSync(
	ctx context.Context,
	client arena.ArenaClient,
	store dao.GameStore,
	archive dao.RunArchive,
	options SyncOptions,
) error {
	if len(options.TeamIDs) == 0 {
		logrus.Info("No teams to process.")
		return nil
	}
	if options.Concurrency < 1 {
		options.Concurrency = DEFAULT_CONCURRENCY
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	logrus.Infof("Got %d teams to process with concurrency %d", len(options.TeamIDs), options.Concurrency)
	logrus.Debugf("Teams: %s", utils.JoinSlice(options.TeamIDs, ","))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    error
		synced  int
		skipped int
	)
	sem := make(chan struct{}, options.Concurrency)

	for i, teamID := range options.TeamIDs {
		if i > 0 && options.RequestDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(options.RequestDelay):
			}
		}
		if ctx.Err() != nil {
			mu.Lock()
			errs = multierr.Append(errs, fmt.Errorf("team %s: %w", teamID, ctx.Err()))
			mu.Unlock()
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(teamID string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := syncTeam(ctx, client, store, archive, teamID, options)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrRecentlySynced):
				skipped++
			case err != nil:
				logrus.WithField("team_id", teamID).Warnf("Failed to reconcile team: %s", err.Error())
				errs = multierr.Append(errs, fmt.Errorf("team %s: %w", teamID, err))
			default:
				synced++
			}
		}(teamID)
	}
	wg.Wait()

	if errs != nil {
		logrus.Warnf("Job finished with %d failed teams, %d reconciled, %d skipped",
			len(multierr.Errors(errs)), synced, skipped)
		return errs
	}
	logrus.Infof("Job completed successfully: %d reconciled, %d skipped", synced, skipped)
	return nil
}

func syncTeam(
	ctx context.Context,
	client arena.ArenaClient,
	store dao.GameStore,
	archive dao.RunArchive,
	teamID string,
	options SyncOptions,
) (models.RunInfo, error) {
	log := logrus.WithField("team_id", teamID)
	now := options.Now().UTC()

	latest, err := archive.GetLatestRunInfo(teamID)
	if err != nil {
		return models.RunInfo{}, errors.New("get latest run info: " + err.Error())
	}
	if options.MinInterval > 0 && !latest.RequestTime.IsZero() && now.Sub(latest.RequestTime) < options.MinInterval {
		log.Infof("Skipped team, last reconciled at %s", latest.RequestTime.Format(time.RFC3339))
		return latest, ErrRecentlySynced
	}

	html, err := client.FetchArenaPage(teamID)
	if err != nil {
		return models.RunInfo{}, errors.New("fetch arena page: " + err.Error())
	}
	events, err := arena.ParseArenaEvents(html)
	if err != nil {
		return models.RunInfo{}, fmt.Errorf("parse arena page: %w", err)
	}
	log.Debugf("Parsed %d arena rows", len(events))

	summaries, err := pricing.BuildAndApplyPricePeriods(ctx, store, events, teamID, options.Timezone, now)
	if err != nil {
		return models.RunInfo{}, fmt.Errorf("reconcile prices: %w", err)
	}

	info := models.RunInfo{
		RunID:       uuid.NewString(),
		TeamID:      teamID,
		RequestTime: now,
		Periods:     len(summaries),
	}
	for _, summary := range summaries {
		info.GamesUpdated += summary.GamesUpdated
		info.GamesSkipped += summary.GamesSkipped
	}

	if len(summaries) > 0 {
		if err := archive.SavePeriodSummaries(info.RunID, teamID, summaries); err != nil {
			return models.RunInfo{}, errors.New("save period summaries: " + err.Error())
		}
	}
	if err := archive.SaveLatestRunInfo(info); err != nil {
		return models.RunInfo{}, errors.New("save latest run info: " + err.Error())
	}

	log.Infof("Reconciled %d periods, %d games updated, %d skipped", info.Periods, info.GamesUpdated, info.GamesSkipped)
	return info, nil
}
