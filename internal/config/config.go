// Package config loads the cron configuration from the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

const (
	DEFAULT_BASE_URL        = "https://www.buzzerbeater.com"
	DEFAULT_TIMEZONE        = "US/Eastern"
	DEFAULT_REQUEST_TIMEOUT = 30 * time.Second
	DEFAULT_CONCURRENCY     = 4
	DEFAULT_REQUEST_DELAY   = time.Second
	DEFAULT_DATA_DIR        = "data"
	DEFAULT_GAME_TIME_TTL   = 24 * time.Hour
	DEFAULT_R2_PREFIX       = "arena-pricing"
)

type Config struct {
	BaseURL        string
	Timezone       string
	RequestTimeout time.Duration

	Concurrency  int
	RequestDelay time.Duration
	MinInterval  time.Duration

	DataDir     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GameTimeTTL   time.Duration

	R2       dao.R2Credentials
	R2Bucket string
	R2Prefix string
}

// Load reads the configuration from the environment, after loading a .env file if present.
// Every malformed value is reported at once.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs error
	cfg := Config{
		BaseURL:       getString("ARENA_BASE_URL", DEFAULT_BASE_URL),
		Timezone:      getString("ARENA_TIMEZONE", DEFAULT_TIMEZONE),
		DataDir:       getString("DATA_DIR", DEFAULT_DATA_DIR),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		R2: dao.R2Credentials{
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		},
		R2Bucket: os.Getenv("R2_BUCKET"),
		R2Prefix: getString("R2_PREFIX", DEFAULT_R2_PREFIX),
	}

	cfg.RequestTimeout = getDuration("ARENA_REQUEST_TIMEOUT", DEFAULT_REQUEST_TIMEOUT, &errs)
	cfg.Concurrency = getInt("SYNC_CONCURRENCY", DEFAULT_CONCURRENCY, &errs)
	cfg.RequestDelay = getDuration("SYNC_REQUEST_DELAY", DEFAULT_REQUEST_DELAY, &errs)
	cfg.MinInterval = getDuration("SYNC_MIN_INTERVAL", 0, &errs)
	cfg.RedisDB = getInt("REDIS_DB", 0, &errs)
	cfg.GameTimeTTL = getDuration("GAME_TIME_CACHE_TTL", DEFAULT_GAME_TIME_TTL, &errs)

	if cfg.Concurrency < 1 {
		errs = multierr.Append(errs, fmt.Errorf("SYNC_CONCURRENCY must be at least 1, got %d", cfg.Concurrency))
	}
	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}

// NewRedisClient connects to REDIS_ADDR. It returns nil when no address is configured or the
// server does not answer, in which case game times are read from the store directly.
func (c Config) NewRedisClient(ctx context.Context) *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *error) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("invalid int for %s: %q", key, v))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *error) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("invalid duration for %s: %q", key, v))
		return fallback
	}
	return d
}
