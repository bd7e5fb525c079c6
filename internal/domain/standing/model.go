package standing

import (
	"fmt"
	"time"
)

// Standing is one league-table row, unique per (team, competition, season).
// All counting fields are derived from confirmed matches by the standings
// calculator; rows are never edited by hand.
type Standing struct {
	ID             int64
	TeamID         int64
	CompetitionID  int64
	SeasonID       int64
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	GroupName      string
	UpdatedAt      time.Time
}

// CheckInvariants verifies the arithmetic identities every row must satisfy.
func (s Standing) CheckInvariants() error {
	if s.Played != s.Won+s.Drawn+s.Lost {
		return fmt.Errorf("played %d != won+drawn+lost %d", s.Played, s.Won+s.Drawn+s.Lost)
	}
	if s.Points != 3*s.Won+s.Drawn {
		return fmt.Errorf("points %d != 3*won+drawn %d", s.Points, 3*s.Won+s.Drawn)
	}
	if s.GoalDifference != s.GoalsFor-s.GoalsAgainst {
		return fmt.Errorf("goal difference %d != gf-ga %d", s.GoalDifference, s.GoalsFor-s.GoalsAgainst)
	}
	return nil
}
