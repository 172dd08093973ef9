package models

import "time"

// PeriodSummary reports what a reconciliation did for one price period.
type PeriodSummary struct {
	PeriodID      int            `csv:"period_id" json:"period_id"`
	Boundaries    string         `csv:"boundaries" json:"boundaries"`
	Prices        *SeatingPrices `csv:"-" json:"prices,omitempty"`
	PriceSource   string         `csv:"price_source" json:"price_source"`
	SafeStart     time.Time      `csv:"safe_start" json:"safe_start"`
	SafeEnd       time.Time      `csv:"safe_end" json:"safe_end"`
	OfficialGames int            `csv:"official_games" json:"official_games"`
	OtherGames    int            `csv:"other_games" json:"other_games"`
	GamesUpdated  int            `csv:"games_updated" json:"games_updated"`
	GamesSkipped  int            `csv:"games_skipped" json:"games_skipped"`
}

// PeriodSummaryRow is the flattened form of PeriodSummary written to csv archives.
type PeriodSummaryRow struct {
	RunID  string `csv:"run_id"`
	TeamID string `csv:"team_id"`
	PeriodSummary
	SeatingPrices
}

func NewPeriodSummaryRow(runID, teamID string, summary PeriodSummary) PeriodSummaryRow {
	row := PeriodSummaryRow{RunID: runID, TeamID: teamID, PeriodSummary: summary}
	if summary.Prices != nil {
		row.SeatingPrices = *summary.Prices
	}
	return row
}

// RunInfo describes the latest reconciliation run of a team.
type RunInfo struct {
	RunID        string    `json:"run_id"`
	TeamID       string    `json:"team_id"`
	RequestTime  time.Time `json:"request_time"`
	Periods      int       `json:"periods"`
	GamesUpdated int       `json:"games_updated"`
	GamesSkipped int       `json:"games_skipped"`
}
