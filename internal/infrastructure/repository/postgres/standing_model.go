package postgres

import "time"

type standingTableModel struct {
	ID             int64     `db:"id"`
	TeamID         int64     `db:"team_id"`
	CompetitionID  int64     `db:"competition_id"`
	SeasonID       int64     `db:"season_id"`
	Played         int       `db:"played"`
	Won            int       `db:"won"`
	Drawn          int       `db:"drawn"`
	Lost           int       `db:"lost"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	Points         int       `db:"points"`
	GroupName      string    `db:"group_name"`
	UpdatedAt      time.Time `db:"updated_at"`
}
