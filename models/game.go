package models

import "time"

// GameRecord is a game as stored in the durable store.
type GameRecord struct {
	GameID   string    `csv:"game_id"`
	TeamID   string    `csv:"team_id"`
	Date     time.Time `csv:"date"`
	Opponent string    `csv:"opponent"`
	IsHome   bool      `csv:"is_home"`
	GameType string    `csv:"game_type"`
	Season   int       `csv:"season"`

	BleachersAttendance   *int     `csv:"bleachers_attendance,omitempty"`
	LowerTierAttendance   *int     `csv:"lower_tier_attendance,omitempty"`
	CourtsideAttendance   *int     `csv:"courtside_attendance,omitempty"`
	LuxuryBoxesAttendance *int     `csv:"luxury_boxes_attendance,omitempty"`
	TicketRevenue         *float64 `csv:"ticket_revenue,omitempty"`

	SeatingPrices

	UpdatedAt time.Time `csv:"updated_at"`
}

// PriceSnapshot is a point-in-time observation of a team's ticket prices.
type PriceSnapshot struct {
	TeamID string `csv:"team_id"`
	GameID string `csv:"game_id"`

	SeatingPrices

	CreatedAt time.Time `csv:"created_at"`
}
