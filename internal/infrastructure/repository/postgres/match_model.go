package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID              int64         `db:"id"`
	CompetitionID   int64         `db:"competition_id"`
	SeasonID        int64         `db:"season_id"`
	HomeTeamID      sql.NullInt64 `db:"home_team_id"`
	AwayTeamID      sql.NullInt64 `db:"away_team_id"`
	HomeScore       sql.NullInt64 `db:"home_score"`
	AwayScore       sql.NullInt64 `db:"away_score"`
	MatchDate       sql.NullTime  `db:"match_date"`
	Venue           string        `db:"venue"`
	Status          string        `db:"status"`
	SubmittedByID   sql.NullInt64 `db:"submitted_by_id"`
	ConfirmedByID   sql.NullInt64 `db:"confirmed_by_id"`
	Matchday        sql.NullInt64 `db:"matchday"`
	Stage           string        `db:"stage"`
	GroupName       string        `db:"group_name"`
	Leg             sql.NullInt64 `db:"leg"`
	RoundNumber     sql.NullInt64 `db:"round_number"`
	BracketPosition sql.NullInt64 `db:"bracket_position"`
	PenaltyWinnerID sql.NullInt64 `db:"penalty_winner_id"`
	CreatedAt       time.Time     `db:"created_at"`
}
