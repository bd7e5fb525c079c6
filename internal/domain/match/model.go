package match

import (
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusConfirmed = "CONFIRMED"
)

const (
	StageLeague       = "LEAGUE"
	StageGroup        = "GROUP"
	StageRound1       = "ROUND_1"
	StageRound2       = "ROUND_2"
	StageRound3       = "ROUND_3"
	StageRoundOf16    = "ROUND_OF_16"
	StageQuarterFinal = "QUARTER_FINAL"
	StageSemiFinal    = "SEMI_FINAL"
	StageFinal        = "FINAL"
	StageSuper        = "SUPER"
)

// submissionGrace is how long after kickoff a result may first be submitted
// by a non-admin. A full match plus stoppage fits comfortably in 90 minutes
// of nominal playing time measured from the scheduled date.
const submissionGrace = 90 * time.Minute

// Match is one fixture. Team slots are nullable only for bracket placeholders
// that fill as earlier rounds confirm; Leg is set only on two-legged ties.
type Match struct {
	ID              int64
	CompetitionID   int64
	SeasonID        int64
	HomeTeamID      *int64
	AwayTeamID      *int64
	HomeScore       *int
	AwayScore       *int
	MatchDate       *time.Time
	Venue           string
	Status          string
	SubmittedByID   *int64
	ConfirmedByID   *int64
	Matchday        *int
	Stage           string
	GroupName       string
	Leg             *int
	RoundNumber     *int
	BracketPosition *int
	PenaltyWinnerID *int64
	CreatedAt       time.Time
}

// IsBracket reports whether the match belongs to a knockout bracket.
func (m Match) IsBracket() bool {
	return m.BracketPosition != nil
}

// IsTwoLegged reports whether the match is one leg of a two-legged tie.
func (m Match) IsTwoLegged() bool {
	return m.Leg != nil
}

// IsDraw reports whether both scores are present and equal.
func (m Match) IsDraw() bool {
	return m.HomeScore != nil && m.AwayScore != nil && *m.HomeScore == *m.AwayScore
}

// HasParticipant reports whether teamID occupies either slot.
func (m Match) HasParticipant(teamID int64) bool {
	if m.HomeTeamID != nil && *m.HomeTeamID == teamID {
		return true
	}
	return m.AwayTeamID != nil && *m.AwayTeamID == teamID
}

// CountsForStandings reports whether the match's stage feeds the league
// table. Matches with no stage are legacy fixtures that predate staging and
// still count.
func (m Match) CountsForStandings() bool {
	switch m.Stage {
	case StageLeague, StageGroup, "":
		return true
	default:
		return false
	}
}

// SubmittableAt returns when a non-admin may submit the result. Advisory
// only: admins submit regardless, and the zero time means "any time" for
// fixtures without a scheduled date.
func (m Match) SubmittableAt() time.Time {
	if m.MatchDate == nil {
		return time.Time{}
	}
	return m.MatchDate.Add(submissionGrace)
}

// ParentPosition returns the bracket slot this match feeds, or 0 at the root.
func (m Match) ParentPosition() int {
	if m.BracketPosition == nil || *m.BracketPosition <= 1 {
		return 0
	}
	return *m.BracketPosition / 2
}

// FeedsHomeSlot reports whether the winner lands in the parent's home slot.
// Even positions feed home, odd positions feed away.
func (m Match) FeedsHomeSlot() bool {
	return m.BracketPosition != nil && *m.BracketPosition%2 == 0
}

func ValidStatus(value string) bool {
	switch value {
	case StatusScheduled, StatusCompleted, StatusConfirmed:
		return true
	default:
		return false
	}
}

func ValidStage(value string) bool {
	switch value {
	case StageLeague, StageGroup, StageRound1, StageRound2, StageRound3,
		StageRoundOf16, StageQuarterFinal, StageSemiFinal, StageFinal, StageSuper:
		return true
	default:
		return false
	}
}

// StageForDepth maps a bracket depth (0 = final) to its stage name. Brackets
// deeper than six rounds bottom out at ROUND_1.
func StageForDepth(depth int) string {
	switch depth {
	case 0:
		return StageFinal
	case 1:
		return StageSemiFinal
	case 2:
		return StageQuarterFinal
	case 3:
		return StageRoundOf16
	case 4:
		return StageRound3
	case 5:
		return StageRound2
	default:
		return StageRound1
	}
}

// DepthOf returns the depth of a bracket position: floor(log2(position)).
func DepthOf(position int) int {
	depth := 0
	for position > 1 {
		position >>= 1
		depth++
	}
	return depth
}

// NextPowerOfTwo returns the smallest power of two >= n, with n >= 1.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
