package main

import (
	"context"
	"flag"
	"path"

	"github.com/alceccentric/arena-pricing-cron/internal/arena"
	"github.com/alceccentric/arena-pricing-cron/internal/config"
	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/internal/dao/migrations"
	"github.com/alceccentric/arena-pricing-cron/internal/jobs"
	"github.com/alceccentric/arena-pricing-cron/internal/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	storeMode := flag.String("store", "local", "Game store: local or postgres")
	archiveMode := flag.String("archive", "local", "Run archive: local or r2")
	teams := flag.String("teams", "", "Comma separated team ids to reconcile")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Invalid configuration: ", err)
	}
	ctx := context.Background()

	var localDAO *dao.LocalDAO
	local := func() *dao.LocalDAO {
		if localDAO == nil {
			localDAO = dao.NewLocalDAO(cfg.DataDir, "period_summary", "metadata")
		}
		return localDAO
	}

	var store dao.GameStore
	switch *storeMode {
	case "local":
		store = local()
	case "postgres":
		if cfg.DatabaseURL == "" {
			logrus.Fatal("DATABASE_URL is required with -store postgres")
		}
		pool, err := dao.OpenPostgresPool(ctx, cfg.DatabaseURL, int32(cfg.Concurrency)+1)
		if err != nil {
			logrus.Fatal("Failed to open database: ", err)
		}
		defer pool.Close()
		if err := migrations.Apply(ctx, pool); err != nil {
			logrus.Fatal("Failed to apply migrations: ", err)
		}
		store = dao.NewPostgresStore(pool)
	default:
		logrus.Fatalf("Unknown store mode: %s", *storeMode)
	}

	if redisClient := cfg.NewRedisClient(ctx); redisClient != nil {
		defer redisClient.Close()
		logrus.Infof("Caching game start times in redis at %s", cfg.RedisAddr)
		store = dao.NewCachedStore(store, redisClient, cfg.GameTimeTTL)
	}

	var archive dao.RunArchive
	switch *archiveMode {
	case "local":
		archive = local()
	case "r2":
		r2, err := dao.NewR2DAO(cfg.R2, cfg.R2Bucket, path.Join(cfg.R2Prefix, "period_summary"), path.Join(cfg.R2Prefix, "metadata"))
		if err != nil {
			logrus.Fatal("Failed to create r2 client: ", err)
		}
		archive = r2
	default:
		logrus.Fatalf("Unknown archive mode: %s", *archiveMode)
	}

	client := arena.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	options := jobs.SyncOptions{
		TeamIDs:      utils.SplitList(*teams, ","),
		Timezone:     cfg.Timezone,
		Concurrency:  cfg.Concurrency,
		RequestDelay: cfg.RequestDelay,
		MinInterval:  cfg.MinInterval,
	}

	if err := jobs.RunSync(ctx, client, store, archive, options); err != nil {
		logrus.Fatal("Job failed: ", err)
	}
}
