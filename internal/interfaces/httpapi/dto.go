package httpapi

import (
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

type regionDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func regionToDTO(r region.Region) regionDTO {
	return regionDTO{ID: r.ID, Name: r.Name, Code: r.Code, CreatedAt: r.CreatedAt}
}

type countyDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      int       `json:"code"`
	RegionID  int64     `json:"region_id"`
	CreatedAt time.Time `json:"created_at"`
}

func countyToDTO(c county.County) countyDTO {
	return countyDTO{ID: c.ID, Name: c.Name, Code: c.Code, RegionID: c.RegionID, CreatedAt: c.CreatedAt}
}

type seasonDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func seasonToDTO(s season.Season) seasonDTO {
	return seasonDTO{ID: s.ID, Name: s.Name, Year: s.Year, IsActive: s.IsActive, CreatedAt: s.CreatedAt}
}

type teamDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CountyID  int64     `json:"county_id"`
	RegionID  int64     `json:"region_id"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:        t.ID,
		Name:      t.Name,
		CountyID:  t.CountyID,
		RegionID:  t.RegionID,
		Category:  t.Category,
		Status:    t.Status,
		LogoURL:   t.LogoURL,
		CreatedAt: t.CreatedAt,
	}
}

func teamsToDTOs(rows []team.Team) []teamDTO {
	items := make([]teamDTO, 0, len(rows))
	for _, t := range rows {
		items = append(items, teamToDTO(t))
	}
	return items
}

type competitionDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	SeasonID  int64     `json:"season_id"`
	RegionID  *int64    `json:"region_id"`
	CountyID  *int64    `json:"county_id"`
	CreatedAt time.Time `json:"created_at"`
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		Category:  c.Category,
		SeasonID:  c.SeasonID,
		RegionID:  c.RegionID,
		CountyID:  c.CountyID,
		CreatedAt: c.CreatedAt,
	}
}

type matchDTO struct {
	ID              int64      `json:"id"`
	CompetitionID   int64      `json:"competition_id"`
	SeasonID        int64      `json:"season_id"`
	HomeTeamID      *int64     `json:"home_team_id"`
	AwayTeamID      *int64     `json:"away_team_id"`
	HomeScore       *int       `json:"home_score"`
	AwayScore       *int       `json:"away_score"`
	MatchDate       *time.Time `json:"match_date"`
	SubmittableAt   *time.Time `json:"submittable_at,omitempty"`
	Venue           string     `json:"venue,omitempty"`
	Status          string     `json:"status"`
	Stage           string     `json:"stage"`
	GroupName       string     `json:"group_name,omitempty"`
	Matchday        *int       `json:"matchday,omitempty"`
	Leg             *int       `json:"leg,omitempty"`
	RoundNumber     *int       `json:"round_number,omitempty"`
	BracketPosition *int       `json:"bracket_position,omitempty"`
	PenaltyWinnerID *int64     `json:"penalty_winner_id,omitempty"`
	SubmittedByID   *int64     `json:"submitted_by_id,omitempty"`
	ConfirmedByID   *int64     `json:"confirmed_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func matchToDTO(m match.Match) matchDTO {
	var submittableAt *time.Time
	if at := m.SubmittableAt(); !at.IsZero() {
		submittableAt = &at
	}
	return matchDTO{
		ID:              m.ID,
		CompetitionID:   m.CompetitionID,
		SeasonID:        m.SeasonID,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		MatchDate:       m.MatchDate,
		SubmittableAt:   submittableAt,
		Venue:           m.Venue,
		Status:          m.Status,
		Stage:           m.Stage,
		GroupName:       m.GroupName,
		Matchday:        m.Matchday,
		Leg:             m.Leg,
		RoundNumber:     m.RoundNumber,
		BracketPosition: m.BracketPosition,
		PenaltyWinnerID: m.PenaltyWinnerID,
		SubmittedByID:   m.SubmittedByID,
		ConfirmedByID:   m.ConfirmedByID,
		CreatedAt:       m.CreatedAt,
	}
}

func matchesToDTOs(rows []match.Match) []matchDTO {
	items := make([]matchDTO, 0, len(rows))
	for _, m := range rows {
		items = append(items, matchToDTO(m))
	}
	return items
}

type standingDTO struct {
	Position       int       `json:"position"`
	TeamID         int64     `json:"team_id"`
	Played         int       `json:"played"`
	Won            int       `json:"won"`
	Drawn          int       `json:"drawn"`
	Lost           int       `json:"lost"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	Points         int       `json:"points"`
	GroupName      string    `json:"group_name,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func standingsToDTOs(rows []standing.Standing) []standingDTO {
	items := make([]standingDTO, 0, len(rows))
	for i, row := range rows {
		items = append(items, standingDTO{
			Position:       i + 1,
			TeamID:         row.TeamID,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			GroupName:      row.GroupName,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return items
}
