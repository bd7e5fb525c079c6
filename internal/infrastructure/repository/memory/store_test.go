package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

func seedCompetition(t *testing.T, s *Store) (season.Season, competition.Competition, []team.Team) {
	t.Helper()
	ctx := context.Background()

	reg := region.Region{Name: "Nairobi", Code: "NRB"}
	if err := s.Regions().Create(ctx, &reg); err != nil {
		t.Fatalf("create region: %v", err)
	}
	cty := county.County{Name: "Nairobi", Code: 47, RegionID: reg.ID}
	if err := s.Counties().Create(ctx, &cty); err != nil {
		t.Fatalf("create county: %v", err)
	}
	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := s.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}
	comp := competition.Competition{
		Name:     "Nairobi County League",
		Type:     competition.TypeCounty,
		Category: team.CategoryMen,
		SeasonID: sea.ID,
		RegionID: &reg.ID,
		CountyID: &cty.ID,
	}
	if err := s.Competitions().Create(ctx, &comp); err != nil {
		t.Fatalf("create competition: %v", err)
	}

	teams := make([]team.Team, 0, 3)
	for _, name := range []string{"Kariobangi Sharks", "Dagoretti Stars", "Embakasi United"} {
		tm := team.Team{Name: name, CountyID: cty.ID, RegionID: reg.ID, Category: team.CategoryMen, Status: team.StatusActive}
		if err := s.Teams().Create(ctx, &tm); err != nil {
			t.Fatalf("create team %s: %v", name, err)
		}
		if _, err := s.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
			t.Fatalf("add team: %v", err)
		}
		teams = append(teams, tm)
	}
	return sea, comp, teams
}

func TestStore_AddTeamIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, comp, teams := seedCompetition(t, s)
	ctx := context.Background()

	added, err := s.Competitions().AddTeam(ctx, comp.ID, teams[0].ID)
	if err != nil {
		t.Fatalf("AddTeam error: %v", err)
	}
	if added {
		t.Fatalf("expected re-add to report added=false")
	}

	roster, err := s.Competitions().Teams(ctx, comp.ID)
	if err != nil {
		t.Fatalf("Teams error: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("expected roster of 3, got %d", len(roster))
	}
	if roster[0].ID != teams[0].ID || roster[2].ID != teams[2].ID {
		t.Fatalf("roster not in registration order: %+v", roster)
	}
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := NewStore()
	sea, comp, teams := seedCompetition(t, s)
	ctx := context.Background()

	failure := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		m := match.Match{
			CompetitionID: comp.ID,
			SeasonID:      sea.ID,
			HomeTeamID:    &teams[0].ID,
			AwayTeamID:    &teams[1].ID,
			Stage:         match.StageLeague,
		}
		if err := tx.Matches().Create(ctx, &m); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected tx error, got %v", err)
	}

	n, err := s.Matches().Count(ctx, match.Filter{CompetitionID: comp.ID})
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 0 {
		t.Fatalf("rolled-back match leaked: count=%d", n)
	}
}

func TestStore_WithinTxCommits(t *testing.T) {
	t.Parallel()

	s := NewStore()
	sea, comp, teams := seedCompetition(t, s)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		for i := 0; i < 2; i++ {
			m := match.Match{
				CompetitionID: comp.ID,
				SeasonID:      sea.ID,
				HomeTeamID:    &teams[i].ID,
				AwayTeamID:    &teams[i+1].ID,
				Stage:         match.StageLeague,
			}
			if err := tx.Matches().Create(ctx, &m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx error: %v", err)
	}

	rows, err := s.Matches().List(ctx, match.Filter{CompetitionID: comp.ID})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 committed matches, got %d", len(rows))
	}
}

func TestStore_StandingUniqueViolation(t *testing.T) {
	t.Parallel()

	s := NewStore()
	sea, comp, teams := seedCompetition(t, s)
	ctx := context.Background()

	row := standing.Standing{TeamID: teams[0].ID, CompetitionID: comp.ID, SeasonID: sea.ID}
	if err := s.Standings().Create(ctx, &row); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	dup := standing.Standing{TeamID: teams[0].ID, CompetitionID: comp.ID, SeasonID: sea.ID}
	err := s.Standings().Create(ctx, &dup)
	if !errors.Is(err, store.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
}

func TestStore_MatchFilterByDateAndStage(t *testing.T) {
	t.Parallel()

	s := NewStore()
	sea, comp, teams := seedCompetition(t, s)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	for _, md := range []time.Time{day1, day2} {
		date := md
		m := match.Match{
			CompetitionID: comp.ID,
			SeasonID:      sea.ID,
			HomeTeamID:    &teams[0].ID,
			AwayTeamID:    &teams[1].ID,
			MatchDate:     &date,
			Stage:         match.StageLeague,
		}
		if err := s.Matches().Create(ctx, &m); err != nil {
			t.Fatalf("create match: %v", err)
		}
	}
	pos := 1
	final := match.Match{
		CompetitionID:   comp.ID,
		SeasonID:        sea.ID,
		Stage:           match.StageFinal,
		BracketPosition: &pos,
	}
	if err := s.Matches().Create(ctx, &final); err != nil {
		t.Fatalf("create final: %v", err)
	}

	rows, err := s.Matches().List(ctx, match.Filter{CompetitionID: comp.ID, Date: &day1})
	if err != nil {
		t.Fatalf("List by date error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 match on %v, got %d", day1, len(rows))
	}

	hasBracket := true
	rows, err = s.Matches().List(ctx, match.Filter{CompetitionID: comp.ID, HasBracketPosition: &hasBracket})
	if err != nil {
		t.Fatalf("List bracket error: %v", err)
	}
	if len(rows) != 1 || rows[0].Stage != match.StageFinal {
		t.Fatalf("expected only the final, got %+v", rows)
	}
}
