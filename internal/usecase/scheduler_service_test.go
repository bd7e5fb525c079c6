package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

func TestSchedulerService_RoundRobinEvenTeams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10)
	comp, teams := env.seedLeague(t, competition.TypeRegional, 8)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	// 8 teams: 14 matchdays, 56 matches.
	if len(fixtures) != 56 {
		t.Fatalf("expected 56 fixtures, got %d", len(fixtures))
	}

	home := make(map[int64]int)
	away := make(map[int64]int)
	pair := make(map[[2]int64]int)
	for _, m := range fixtures {
		home[*m.HomeTeamID]++
		away[*m.AwayTeamID]++
		pair[[2]int64{*m.HomeTeamID, *m.AwayTeamID}]++
		if m.Stage != match.StageLeague {
			t.Fatalf("expected LEAGUE stage, got %s", m.Stage)
		}
		if m.Matchday == nil || *m.Matchday < 1 || *m.Matchday > 14 {
			t.Fatalf("matchday out of range: %+v", m.Matchday)
		}
	}
	for _, tm := range teams {
		if home[tm.ID] != 7 || away[tm.ID] != 7 {
			t.Fatalf("team %d: expected 7 home and 7 away, got %d/%d", tm.ID, home[tm.ID], away[tm.ID])
		}
	}
	for key, n := range pair {
		if n != 1 {
			t.Fatalf("ordered pair %v emitted %d times", key, n)
		}
	}

	rows, err := env.store.Standings().ListByCompetition(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected 8 zeroed standings, got %d", len(rows))
	}
}

func TestSchedulerService_RoundRobinOddTeams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 11)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 5)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	// Odd n keeps the pair count: 5*4 = 20 after bye elimination.
	if len(fixtures) != 20 {
		t.Fatalf("expected 20 fixtures, got %d", len(fixtures))
	}

	perTeam := make(map[int64]int)
	for _, m := range fixtures {
		perTeam[*m.HomeTeamID]++
		perTeam[*m.AwayTeamID]++
	}
	for teamID, n := range perTeam {
		if n != 8 {
			t.Fatalf("team %d plays %d matches, expected 8", teamID, n)
		}
	}
}

func TestSchedulerService_RoundRobinAlreadyGenerated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 12)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	if _, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7); err != nil {
		t.Fatalf("first generation error: %v", err)
	}
	_, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSchedulerService_RoundRobinRejectsCup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 13)
	comp, _ := env.seedLeague(t, competition.TypeCup, 4)
	ctx := context.Background()

	_, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSchedulerService_CountyRoundRobin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 14)
	comp, _ := env.seedLeague(t, competition.TypeCounty, 4)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures, got %d", len(fixtures))
	}
}

func TestSchedulerService_CLGroupDraw(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 15)
	comp, _ := env.seedNationalField(t)
	ctx := context.Background()

	draw, err := env.scheduler.GenerateCLGroups(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateCLGroups error: %v", err)
	}

	if len(draw.Groups) != 7 {
		t.Fatalf("expected 7 groups, got %d", len(draw.Groups))
	}
	if len(draw.Matches) != 42 {
		t.Fatalf("expected 42 group matches, got %d", len(draw.Matches))
	}

	regionOf := make(map[int64]int64)
	teams, err := env.store.Teams().List(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	for _, tm := range teams {
		regionOf[tm.ID] = tm.RegionID
	}

	for letter, teamIDs := range draw.Groups {
		if len(teamIDs) != 3 {
			t.Fatalf("group %s has %d teams", letter, len(teamIDs))
		}
		seen := make(map[int64]bool)
		for _, id := range teamIDs {
			if seen[regionOf[id]] {
				t.Fatalf("group %s has two teams from region %d", letter, regionOf[id])
			}
			seen[regionOf[id]] = true
		}
	}

	// Each team hosts twice and travels twice within its group.
	home := make(map[int64]int)
	away := make(map[int64]int)
	for _, m := range draw.Matches {
		home[*m.HomeTeamID]++
		away[*m.AwayTeamID]++
	}
	for _, tm := range teams {
		if home[tm.ID] != 2 || away[tm.ID] != 2 {
			t.Fatalf("team %d: expected 2 home / 2 away, got %d/%d", tm.ID, home[tm.ID], away[tm.ID])
		}
	}
}

func TestSchedulerService_CLGroupDrawDeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	first := newTestEnv(t, 99)
	comp1, _ := first.seedNationalField(t)
	draw1, err := first.scheduler.GenerateCLGroups(context.Background(), comp1.ID, testStart, 7)
	if err != nil {
		t.Fatalf("first draw error: %v", err)
	}

	second := newTestEnv(t, 99)
	comp2, _ := second.seedNationalField(t)
	draw2, err := second.scheduler.GenerateCLGroups(context.Background(), comp2.ID, testStart, 7)
	if err != nil {
		t.Fatalf("second draw error: %v", err)
	}

	for letter, ids := range draw1.Groups {
		other := draw2.Groups[letter]
		if len(other) != len(ids) {
			t.Fatalf("group %s sizes differ", letter)
		}
		for i := range ids {
			if ids[i] != other[i] {
				t.Fatalf("group %s differs under identical seed: %v vs %v", letter, ids, other)
			}
		}
	}
}

func TestSchedulerService_CLGroupDrawRequires21(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 16)
	comp, _ := env.seedLeague(t, competition.TypeNational, 20)
	ctx := context.Background()

	_, err := env.scheduler.GenerateCLGroups(ctx, comp.ID, testStart, 7)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// seedCountySeason creates one season with two county leagues in different
// counties, holding 4 and 3 teams respectively.
func seedCountySeason(t *testing.T, env *testEnv) (int64, competition.Competition, competition.Competition) {
	t.Helper()
	ctx := context.Background()

	reg := region.Region{Name: "Rift Valley", Code: "RFT"}
	if err := env.store.Regions().Create(ctx, &reg); err != nil {
		t.Fatalf("create region: %v", err)
	}
	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := env.store.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}

	newLeague := func(name string, code, n int) competition.Competition {
		cty := county.County{Name: name, Code: code, RegionID: reg.ID}
		if err := env.store.Counties().Create(ctx, &cty); err != nil {
			t.Fatalf("create county: %v", err)
		}
		comp := competition.Competition{
			Name:     name + " League",
			Type:     competition.TypeCounty,
			Category: team.CategoryMen,
			SeasonID: sea.ID,
			RegionID: &reg.ID,
			CountyID: &cty.ID,
		}
		if err := env.store.Competitions().Create(ctx, &comp); err != nil {
			t.Fatalf("create competition: %v", err)
		}
		for _, tm := range env.seedTeams(t, cty, n) {
			if _, err := env.store.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
				t.Fatalf("add team: %v", err)
			}
		}
		return comp
	}

	return sea.ID, newLeague("Nakuru", 32, 4), newLeague("Kericho", 35, 3)
}

func TestSchedulerService_CountyFixturesAcrossSeason(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 21)
	seasonID, nakuru, kericho := seedCountySeason(t, env)
	ctx := context.Background()

	generated, err := env.scheduler.GenerateCountyFixtures(ctx, seasonID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateCountyFixtures error: %v", err)
	}
	// Double round robin: 4 teams -> 12 matches, 3 teams -> 6.
	if generated[nakuru.ID] != 12 || generated[kericho.ID] != 6 {
		t.Fatalf("unexpected fixture counts: %v", generated)
	}
}

func TestSchedulerService_CountyFixturesSkipsGenerated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 22)
	seasonID, nakuru, kericho := seedCountySeason(t, env)
	ctx := context.Background()

	if _, err := env.scheduler.GenerateRoundRobin(ctx, nakuru.ID, testStart, 7); err != nil {
		t.Fatalf("pre-generate nakuru: %v", err)
	}

	generated, err := env.scheduler.GenerateCountyFixtures(ctx, seasonID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateCountyFixtures error: %v", err)
	}
	if _, ok := generated[nakuru.ID]; ok {
		t.Fatalf("expected nakuru to be skipped, got %v", generated)
	}
	if generated[kericho.ID] != 6 {
		t.Fatalf("unexpected kericho count: %v", generated)
	}
}

func TestSchedulerService_CountyFixturesEmptySeason(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 23)
	_, err := env.scheduler.GenerateCountyFixtures(context.Background(), 404, testStart, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedulerService_ResetFixturesCountyOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 24)
	seasonID, nakuru, _ := seedCountySeason(t, env)
	ctx := context.Background()

	if _, err := env.scheduler.GenerateCountyFixtures(ctx, seasonID, testStart, 7); err != nil {
		t.Fatalf("generate county fixtures: %v", err)
	}

	deleted, err := env.scheduler.ResetFixtures(ctx, true)
	if err != nil {
		t.Fatalf("ResetFixtures error: %v", err)
	}
	if deleted != 18 {
		t.Fatalf("expected 18 deleted fixtures, got %d", deleted)
	}

	remaining, err := env.store.Matches().List(ctx, match.Filter{CompetitionID: nakuru.ID})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no fixtures left, got %d", len(remaining))
	}
	rows, err := env.store.Standings().ListByCompetition(ctx, nakuru.ID, seasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected standings wiped, got %d rows", len(rows))
	}
}
