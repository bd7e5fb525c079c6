package usecase

import (
	"context"
	"testing"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/match"
)

func TestStandingsService_HomeAlwaysWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures, got %d", len(fixtures))
	}

	env.confirmAll(t, fixtures, func(match.Match) (int, int) { return 2, 1 })

	rows, err := env.standings.Table(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Played != 6 || row.Won != 3 || row.Drawn != 0 || row.Lost != 3 {
			t.Fatalf("unexpected record for team %d: %+v", row.TeamID, row)
		}
		if row.Points != 9 || row.GoalsFor != 9 || row.GoalsAgainst != 9 || row.GoalDifference != 0 {
			t.Fatalf("unexpected totals for team %d: %+v", row.TeamID, row)
		}
		if err := row.CheckInvariants(); err != nil {
			t.Fatalf("invariant violated for team %d: %v", row.TeamID, err)
		}
	}
}

func TestStandingsService_AllDraws(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	env.confirmAll(t, fixtures, func(match.Match) (int, int) { return 0, 0 })

	rows, err := env.standings.Table(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	for _, row := range rows {
		if row.Played != 6 || row.Drawn != 6 || row.Points != 6 {
			t.Fatalf("unexpected record for team %d: %+v", row.TeamID, row)
		}
		if row.GoalsFor != 0 || row.GoalsAgainst != 0 {
			t.Fatalf("unexpected goals for team %d: %+v", row.TeamID, row)
		}
	}
}

// Four teams where A and B finish level on points and overall goal
// difference; A beat B twice, so the head-to-head mini-table splits them.
func TestStandingsService_HeadToHeadTiebreak(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	comp, teams := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	a, b, c, d := teams[0].ID, teams[1].ID, teams[2].ID, teams[3].ID
	type result struct {
		home, away         int64
		homeGoal, awayGoal int
	}
	results := []result{
		{a, b, 1, 0}, {b, a, 0, 1},
		{a, c, 0, 1}, {c, a, 1, 0},
		{a, d, 1, 1}, {d, a, 1, 1},
		{b, c, 1, 1}, {c, b, 1, 1},
		{b, d, 1, 0}, {d, b, 0, 1},
		{c, d, 0, 0}, {d, c, 0, 0},
	}

	for _, r := range results {
		m, err := env.matches.CreateMatch(ctx, CreateMatchInput{
			CompetitionID: comp.ID,
			SeasonID:      comp.SeasonID,
			HomeTeamID:    r.home,
			AwayTeamID:    r.away,
		})
		if err != nil {
			t.Fatalf("CreateMatch error: %v", err)
		}
		env.submitAndConfirm(t, m.ID, r.homeGoal, r.awayGoal, nil)
	}

	rows, err := env.standings.Table(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	wantOrder := []int64{c, a, b, d}
	wantPoints := []int{10, 8, 8, 4}
	for i, row := range rows {
		if row.TeamID != wantOrder[i] {
			t.Fatalf("rank %d: expected team %d, got %d (rows: %+v)", i+1, wantOrder[i], row.TeamID, rows)
		}
		if row.Points != wantPoints[i] {
			t.Fatalf("rank %d: expected %d points, got %d", i+1, wantPoints[i], row.Points)
		}
	}
}

func TestStandingsService_RecalculateIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 4)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 4)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	env.confirmAll(t, fixtures[:5], func(match.Match) (int, int) { return 3, 1 })

	if err := env.standings.Recalculate(ctx, comp.ID, comp.SeasonID); err != nil {
		t.Fatalf("first Recalculate error: %v", err)
	}
	first, err := env.store.Standings().ListByCompetition(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}

	if err := env.standings.Recalculate(ctx, comp.ID, comp.SeasonID); err != nil {
		t.Fatalf("second Recalculate error: %v", err)
	}
	second, err := env.store.Standings().ListByCompetition(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("row count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.UpdatedAt = b.UpdatedAt
		if a != b {
			t.Fatalf("row %d changed between recomputes: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestStandingsService_SortDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 5)
	comp, _ := env.seedLeague(t, competition.TypeRegional, 3)
	ctx := context.Background()

	fixtures, err := env.scheduler.GenerateRoundRobin(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateRoundRobin error: %v", err)
	}
	env.confirmAll(t, fixtures, func(m match.Match) (int, int) { return 1, 0 })

	rows, err := env.store.Standings().ListByCompetition(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	var snapshot []int64
	for _, row := range rows {
		snapshot = append(snapshot, row.TeamID)
	}

	if _, err := env.standings.Sort(ctx, rows, comp.ID, comp.SeasonID); err != nil {
		t.Fatalf("Sort error: %v", err)
	}
	for i, row := range rows {
		if row.TeamID != snapshot[i] {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}

func TestStandingsService_GroupNamePropagates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 6)
	comp, allTeams := env.seedNationalField(t)
	ctx := context.Background()

	draw, err := env.scheduler.GenerateCLGroups(ctx, comp.ID, testStart, 7)
	if err != nil {
		t.Fatalf("GenerateCLGroups error: %v", err)
	}
	env.confirmAll(t, draw.Matches, func(match.Match) (int, int) { return 2, 0 })

	rows, err := env.store.Standings().ListByCompetition(ctx, comp.ID, comp.SeasonID, "")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != len(allTeams) {
		t.Fatalf("expected %d rows, got %d", len(allTeams), len(rows))
	}
	for _, row := range rows {
		if row.GroupName == "" {
			t.Fatalf("standing for team %d lost its group name", row.TeamID)
		}
		if row.Played != 4 {
			t.Fatalf("expected 4 played for team %d, got %d", row.TeamID, row.Played)
		}
	}
}
