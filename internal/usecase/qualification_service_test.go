package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

// seedPyramid creates one season, 7 regions with a regional league of 4 teams
// each, and a national target competition. Fixtures are generated but not
// played.
func seedPyramid(t *testing.T, env *testEnv) (season.Season, competition.Competition, []competition.Competition) {
	t.Helper()
	ctx := context.Background()

	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := env.store.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}

	target := competition.Competition{
		Name:     "Dimba Champions League",
		Type:     competition.TypeNational,
		Category: team.CategoryMen,
		SeasonID: sea.ID,
	}
	if err := env.store.Competitions().Create(ctx, &target); err != nil {
		t.Fatalf("create national competition: %v", err)
	}

	var feeders []competition.Competition
	for r := 0; r < 7; r++ {
		reg := region.Region{Name: fmt.Sprintf("Region %d", r+1), Code: fmt.Sprintf("R%d", r+1)}
		if err := env.store.Regions().Create(ctx, &reg); err != nil {
			t.Fatalf("create region: %v", err)
		}
		cty := county.County{Name: fmt.Sprintf("County %d", r+1), Code: r + 1, RegionID: reg.ID}
		if err := env.store.Counties().Create(ctx, &cty); err != nil {
			t.Fatalf("create county: %v", err)
		}

		comp := competition.Competition{
			Name:     fmt.Sprintf("%s League", reg.Name),
			Type:     competition.TypeRegional,
			Category: team.CategoryMen,
			SeasonID: sea.ID,
			RegionID: &reg.ID,
		}
		if err := env.store.Competitions().Create(ctx, &comp); err != nil {
			t.Fatalf("create regional competition: %v", err)
		}

		for _, tm := range env.seedTeams(t, cty, 4) {
			if _, err := env.store.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
				t.Fatalf("add team: %v", err)
			}
		}
		if _, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7); err != nil {
			t.Fatalf("generate fixtures for %s: %v", comp.Name, err)
		}
		feeders = append(feeders, comp)
	}
	return sea, target, feeders
}

func (e *testEnv) playOut(t *testing.T, comp competition.Competition) {
	t.Helper()

	fixtures, err := e.store.Matches().List(context.Background(), match.Filter{CompetitionID: comp.ID})
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	e.confirmAll(t, fixtures, func(match.Match) (int, int) { return 2, 1 })
}

func TestQualificationService_ChampionsLeaguePromotion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 40)
	sea, target, feeders := seedPyramid(t, env)
	ctx := context.Background()

	for _, comp := range feeders {
		env.playOut(t, comp)
	}

	result, err := env.qualifiers.QualifyForChampionsLeague(ctx, sea.ID, target.ID, 3)
	if err != nil {
		t.Fatalf("QualifyForChampionsLeague error: %v", err)
	}
	if result.QualifiedCount != 21 || result.Added != 21 || result.AlreadyPresent != 0 {
		t.Fatalf("first run: qualified=%d added=%d already=%d", result.QualifiedCount, result.Added, result.AlreadyPresent)
	}
	if len(result.Sources) != 7 {
		t.Fatalf("expected 7 sources, got %d", len(result.Sources))
	}
	for _, src := range result.Sources {
		if len(src.QualifiedTeamIDs) != 3 {
			t.Fatalf("source %s sent %d teams, expected 3", src.Competition, len(src.QualifiedTeamIDs))
		}
	}

	// Re-running must not duplicate roster entries.
	again, err := env.qualifiers.QualifyForChampionsLeague(ctx, sea.ID, target.ID, 3)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if again.Added != 0 || again.AlreadyPresent != 21 {
		t.Fatalf("second run: added=%d already=%d", again.Added, again.AlreadyPresent)
	}

	roster, err := env.store.Competitions().Teams(ctx, target.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 21 {
		t.Fatalf("expected 21 teams in the champions league, got %d", len(roster))
	}

	// A full field straight from promotion seeds a valid group draw.
	draw, err := env.scheduler.GenerateCLGroups(ctx, target.ID, testStart.AddDate(0, 6, 0), 7)
	if err != nil {
		t.Fatalf("GenerateCLGroups after promotion error: %v", err)
	}
	if len(draw.Groups) != 7 || len(draw.Matches) != 42 {
		t.Fatalf("expected 7 groups / 42 matches, got %d/%d", len(draw.Groups), len(draw.Matches))
	}
}

func TestQualificationService_BlocksIncompleteFeeders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 41)
	sea, target, feeders := seedPyramid(t, env)
	ctx := context.Background()

	// Play out all but the last regional league.
	for _, comp := range feeders[:len(feeders)-1] {
		env.playOut(t, comp)
	}

	_, err := env.qualifiers.QualifyForChampionsLeague(ctx, sea.ID, target.ID, 3)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for incomplete feeder, got %v", err)
	}
}

func TestQualificationService_RegionalPromotion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 42)
	ctx := context.Background()

	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := env.store.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}
	reg := region.Region{Name: "Nyanza", Code: "NYZ"}
	if err := env.store.Regions().Create(ctx, &reg); err != nil {
		t.Fatalf("create region: %v", err)
	}

	target := competition.Competition{
		Name:     "Nyanza Regional League",
		Type:     competition.TypeRegional,
		Category: team.CategoryMen,
		SeasonID: sea.ID,
		RegionID: &reg.ID,
	}
	if err := env.store.Competitions().Create(ctx, &target); err != nil {
		t.Fatalf("create regional competition: %v", err)
	}

	for c := 0; c < 2; c++ {
		cty := county.County{Name: fmt.Sprintf("County %d", c+1), Code: c + 1, RegionID: reg.ID}
		if err := env.store.Counties().Create(ctx, &cty); err != nil {
			t.Fatalf("create county: %v", err)
		}
		comp := competition.Competition{
			Name:     fmt.Sprintf("%s League", cty.Name),
			Type:     competition.TypeCounty,
			Category: team.CategoryMen,
			SeasonID: sea.ID,
			RegionID: &reg.ID,
			CountyID: &cty.ID,
		}
		if err := env.store.Competitions().Create(ctx, &comp); err != nil {
			t.Fatalf("create county competition: %v", err)
		}
		for _, tm := range env.seedTeams(t, cty, 5) {
			if _, err := env.store.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
				t.Fatalf("add team: %v", err)
			}
		}
		if _, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7); err != nil {
			t.Fatalf("generate county fixtures: %v", err)
		}
		env.playOut(t, comp)
	}

	result, err := env.qualifiers.QualifyForRegional(ctx, sea.ID, target.ID, 4)
	if err != nil {
		t.Fatalf("QualifyForRegional error: %v", err)
	}
	if result.QualifiedCount != 8 || result.Added != 8 {
		t.Fatalf("expected 8 promoted teams, got qualified=%d added=%d", result.QualifiedCount, result.Added)
	}
}

func TestQualificationService_CompetitionStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 43)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}

	status, err := env.qualifiers.CompetitionStatus(ctx, comp.ID)
	if err != nil {
		t.Fatalf("CompetitionStatus error: %v", err)
	}
	if status.Total != 12 || status.Confirmed != 0 || status.Complete {
		t.Fatalf("fresh league: %+v", status)
	}

	env.submitAndConfirm(t, fixtures[0].ID, 1, 0, nil)
	status, err = env.qualifiers.CompetitionStatus(ctx, comp.ID)
	if err != nil {
		t.Fatalf("CompetitionStatus error: %v", err)
	}
	if status.Confirmed != 1 || status.Remaining != 11 || status.Complete {
		t.Fatalf("after one confirmation: %+v", status)
	}
}

func TestQualificationService_TopTeamsFromGroups(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 44)
	comp, _ := env.seedNationalField(t)
	ctx := context.Background()

	draw, err := env.scheduler.GenerateCLGroups(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateCLGroups error: %v", err)
	}
	env.confirmAll(t, draw.Matches, func(match.Match) (int, int) { return 3, 0 })

	groupOf := make(map[int64]string)
	for letter, teamIDs := range draw.Groups {
		for _, id := range teamIDs {
			groupOf[id] = letter
		}
	}

	top, err := env.qualifiers.TopTeamsFromGroups(ctx, comp.ID, comp.SeasonID, 8)
	if err != nil {
		t.Fatalf("TopTeamsFromGroups error: %v", err)
	}
	if len(top) != 8 {
		t.Fatalf("expected 8 teams, got %d", len(top))
	}

	// The first seven come one per group: winners before any runner-up.
	winners := make(map[string]bool)
	for _, id := range top[:7] {
		letter := groupOf[id]
		if winners[letter] {
			t.Fatalf("two teams from group %s before all winners were taken", letter)
		}
		winners[letter] = true
	}
	if len(winners) != 7 {
		t.Fatalf("expected one winner per group, got %d groups", len(winners))
	}
}
