package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gameColumns = `game_id, team_id, date, opponent, is_home, game_type, season,
	bleachers_attendance, lower_tier_attendance, courtside_attendance, luxury_boxes_attendance, ticket_revenue,
	bleachers_price, lower_tier_price, courtside_price, luxury_boxes_price, updated_at`

// PostgresStore is the GameStore backed by the games and price_snapshots tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgresPool connects to databaseURL and verifies the connection.
func OpenPostgresPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) GetGameTimestamp(ctx context.Context, gameID string) (time.Time, error) {
	const query = `SELECT date FROM games WHERE game_id = $1`

	var date time.Time
	if err := s.pool.QueryRow(ctx, query, gameID).Scan(&date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
		}
		return time.Time{}, fmt.Errorf("get game timestamp: %w", err)
	}
	return date.UTC(), nil
}

func (s *PostgresStore) GetGame(ctx context.Context, gameID string) (models.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(s.pool.QueryRow(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GameRecord{}, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
		}
		return models.GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

func (s *PostgresStore) GetPriceSnapshotInRange(ctx context.Context, teamID string, start, end time.Time) (*models.PriceSnapshot, error) {
	const query = `
SELECT team_id, game_id, bleachers_price, lower_tier_price, courtside_price, luxury_boxes_price, created_at
FROM price_snapshots
WHERE team_id = $1 AND created_at >= $2 AND created_at <= $3
ORDER BY created_at DESC
LIMIT 1`

	var snapshot models.PriceSnapshot
	err := s.pool.QueryRow(ctx, query, teamID, start, end).Scan(
		&snapshot.TeamID,
		&snapshot.GameID,
		&snapshot.Bleachers,
		&snapshot.LowerTier,
		&snapshot.Courtside,
		&snapshot.LuxuryBoxes,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price snapshot in range: %w", err)
	}
	snapshot.CreatedAt = snapshot.CreatedAt.UTC()
	return &snapshot, nil
}

func (s *PostgresStore) GetGamesInRange(ctx context.Context, teamID string, start, end time.Time, homeOnly bool) ([]models.GameRecord, error) {
	query := `SELECT ` + gameColumns + `
FROM games
WHERE team_id = $1 AND date >= $2 AND date <= $3 AND ($4 = FALSE OR is_home)
ORDER BY date`

	rows, err := s.pool.Query(ctx, query, teamID, start, end, homeOnly)
	if err != nil {
		return nil, fmt.Errorf("get games in range: %w", err)
	}
	defer rows.Close()

	games := make([]models.GameRecord, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get games in range: %w", err)
	}
	return games, nil
}

func (s *PostgresStore) WriteGamePrices(ctx context.Context, gameID string, prices models.SeatingPrices) error {
	const stmt = `
UPDATE games
SET bleachers_price = $2, lower_tier_price = $3, courtside_price = $4, luxury_boxes_price = $5, updated_at = NOW()
WHERE game_id = $1`

	tag, err := s.pool.Exec(ctx, stmt, gameID, prices.Bleachers, prices.LowerTier, prices.Courtside, prices.LuxuryBoxes)
	if err != nil {
		return fmt.Errorf("write game prices: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return nil
}

// SaveGame inserts the game or replaces the stored game with the same id.
func (s *PostgresStore) SaveGame(ctx context.Context, game models.GameRecord) error {
	const stmt = `
INSERT INTO games (game_id, team_id, date, opponent, is_home, game_type, season,
	bleachers_attendance, lower_tier_attendance, courtside_attendance, luxury_boxes_attendance, ticket_revenue,
	bleachers_price, lower_tier_price, courtside_price, luxury_boxes_price, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
ON CONFLICT (game_id) DO UPDATE SET
	team_id = EXCLUDED.team_id,
	date = EXCLUDED.date,
	opponent = EXCLUDED.opponent,
	is_home = EXCLUDED.is_home,
	game_type = EXCLUDED.game_type,
	season = EXCLUDED.season,
	bleachers_attendance = EXCLUDED.bleachers_attendance,
	lower_tier_attendance = EXCLUDED.lower_tier_attendance,
	courtside_attendance = EXCLUDED.courtside_attendance,
	luxury_boxes_attendance = EXCLUDED.luxury_boxes_attendance,
	ticket_revenue = EXCLUDED.ticket_revenue,
	bleachers_price = EXCLUDED.bleachers_price,
	lower_tier_price = EXCLUDED.lower_tier_price,
	courtside_price = EXCLUDED.courtside_price,
	luxury_boxes_price = EXCLUDED.luxury_boxes_price,
	updated_at = NOW()`

	_, err := s.pool.Exec(ctx, stmt,
		game.GameID,
		game.TeamID,
		game.Date,
		game.Opponent,
		game.IsHome,
		game.GameType,
		game.Season,
		game.BleachersAttendance,
		game.LowerTierAttendance,
		game.CourtsideAttendance,
		game.LuxuryBoxesAttendance,
		game.TicketRevenue,
		game.Bleachers,
		game.LowerTier,
		game.Courtside,
		game.LuxuryBoxes,
	)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *PostgresStore) SavePriceSnapshot(ctx context.Context, snapshot models.PriceSnapshot) error {
	const stmt = `
INSERT INTO price_snapshots (team_id, game_id, bleachers_price, lower_tier_price, courtside_price, luxury_boxes_price, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, stmt,
		snapshot.TeamID,
		snapshot.GameID,
		snapshot.Bleachers,
		snapshot.LowerTier,
		snapshot.Courtside,
		snapshot.LuxuryBoxes,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("save price snapshot: %w", err)
	}
	return nil
}

func scanGame(row pgx.Row) (models.GameRecord, error) {
	var g models.GameRecord
	err := row.Scan(
		&g.GameID,
		&g.TeamID,
		&g.Date,
		&g.Opponent,
		&g.IsHome,
		&g.GameType,
		&g.Season,
		&g.BleachersAttendance,
		&g.LowerTierAttendance,
		&g.CourtsideAttendance,
		&g.LuxuryBoxesAttendance,
		&g.TicketRevenue,
		&g.Bleachers,
		&g.LowerTier,
		&g.Courtside,
		&g.LuxuryBoxes,
		&g.UpdatedAt,
	)
	if err != nil {
		return models.GameRecord{}, err
	}
	g.Date = g.Date.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}
