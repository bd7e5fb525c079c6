package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/domain/user"
	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/infrastructure/repository/memory"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/rng"
)

var testStart = time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	store      *memory.Store
	bus        *eventbus.Bus
	standings  *StandingsService
	scheduler  *SchedulerService
	brackets   *BracketService
	matches    *MatchService
	qualifiers *QualificationService
	admin      user.User
}

func newTestEnv(t *testing.T, seed int64) *testEnv {
	t.Helper()

	st := memory.NewStore()
	logger := logging.NewNop()
	bus := eventbus.New(eventbus.DefaultBufferSize, logger)
	src := rng.New(seed)

	standings := NewStandingsService(st, logger)
	brackets := NewBracketService(st, standings, src, logger)

	env := &testEnv{
		store:      st,
		bus:        bus,
		standings:  standings,
		scheduler:  NewSchedulerService(st, src, logger),
		brackets:   brackets,
		matches:    NewMatchService(st, standings, brackets, bus, logger),
		qualifiers: NewQualificationService(st, standings, logger),
	}

	env.admin = user.User{Email: "admin@dimba.example", Role: user.RoleSuperAdmin}
	if err := st.Users().Create(context.Background(), &env.admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return env
}

// seedLeague creates one region/county/season and a league competition of the
// given type with n teams.
func (e *testEnv) seedLeague(t *testing.T, compType string, n int) (competition.Competition, []team.Team) {
	t.Helper()
	ctx := context.Background()

	reg := region.Region{Name: "Nairobi", Code: "NRB"}
	if err := e.store.Regions().Create(ctx, &reg); err != nil {
		t.Fatalf("create region: %v", err)
	}
	cty := county.County{Name: "Nairobi", Code: 47, RegionID: reg.ID}
	if err := e.store.Counties().Create(ctx, &cty); err != nil {
		t.Fatalf("create county: %v", err)
	}
	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := e.store.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}

	comp := competition.Competition{
		Name:     "Test League",
		Type:     compType,
		Category: team.CategoryMen,
		SeasonID: sea.ID,
	}
	switch compType {
	case competition.TypeCounty:
		comp.RegionID = &reg.ID
		comp.CountyID = &cty.ID
	case competition.TypeRegional:
		comp.RegionID = &reg.ID
	}
	if err := e.store.Competitions().Create(ctx, &comp); err != nil {
		t.Fatalf("create competition: %v", err)
	}

	teams := e.seedTeams(t, cty, n)
	for _, tm := range teams {
		if _, err := e.store.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
			t.Fatalf("add team: %v", err)
		}
	}
	return comp, teams
}

func (e *testEnv) seedTeams(t *testing.T, cty county.County, n int) []team.Team {
	t.Helper()
	ctx := context.Background()

	teams := make([]team.Team, 0, n)
	for i := 0; i < n; i++ {
		tm := team.Team{
			Name:     fmt.Sprintf("%s FC %d", cty.Name, i+1),
			CountyID: cty.ID,
			RegionID: cty.RegionID,
			Category: team.CategoryMen,
			Status:   team.StatusActive,
		}
		if err := e.store.Teams().Create(ctx, &tm); err != nil {
			t.Fatalf("create team: %v", err)
		}
		teams = append(teams, tm)
	}
	return teams
}

// seedNationalField creates 7 regions with 3 teams each, an active season,
// and a NATIONAL competition holding all 21 teams.
func (e *testEnv) seedNationalField(t *testing.T) (competition.Competition, []team.Team) {
	t.Helper()
	ctx := context.Background()

	sea := season.Season{Name: "2026", Year: 2026, IsActive: true}
	if err := e.store.Seasons().Create(ctx, &sea); err != nil {
		t.Fatalf("create season: %v", err)
	}
	comp := competition.Competition{
		Name:     "Dimba Champions League",
		Type:     competition.TypeNational,
		Category: team.CategoryMen,
		SeasonID: sea.ID,
	}
	if err := e.store.Competitions().Create(ctx, &comp); err != nil {
		t.Fatalf("create competition: %v", err)
	}

	var all []team.Team
	for r := 0; r < 7; r++ {
		reg := region.Region{Name: fmt.Sprintf("Region %d", r+1), Code: fmt.Sprintf("R%d", r+1)}
		if err := e.store.Regions().Create(ctx, &reg); err != nil {
			t.Fatalf("create region: %v", err)
		}
		cty := county.County{Name: fmt.Sprintf("County %d", r+1), Code: r + 1, RegionID: reg.ID}
		if err := e.store.Counties().Create(ctx, &cty); err != nil {
			t.Fatalf("create county: %v", err)
		}
		teams := e.seedTeams(t, cty, 3)
		for _, tm := range teams {
			if _, err := e.store.Competitions().AddTeam(ctx, comp.ID, tm.ID); err != nil {
				t.Fatalf("add team: %v", err)
			}
		}
		all = append(all, teams...)
	}
	return comp, all
}

// confirmAll submits and confirms every match in the slice with the given
// scoreline function.
func (e *testEnv) confirmAll(t *testing.T, matches []match.Match, score func(match.Match) (int, int)) {
	t.Helper()
	ctx := context.Background()

	for _, m := range matches {
		hs, as := score(m)
		if _, err := e.matches.SubmitResult(ctx, m.ID, hs, as, e.admin.ID); err != nil {
			t.Fatalf("submit match %d: %v", m.ID, err)
		}
		if _, err := e.matches.ConfirmResult(ctx, m.ID, e.admin.ID, nil); err != nil {
			t.Fatalf("confirm match %d: %v", m.ID, err)
		}
	}
}

// submitAndConfirm pushes one match through both transitions, with an
// optional penalty winner at confirmation.
func (e *testEnv) submitAndConfirm(t *testing.T, matchID int64, hs, as int, penaltyWinnerID *int64) match.Match {
	t.Helper()
	ctx := context.Background()

	if _, err := e.matches.SubmitResult(ctx, matchID, hs, as, e.admin.ID); err != nil {
		t.Fatalf("submit match %d: %v", matchID, err)
	}
	m, err := e.matches.ConfirmResult(ctx, matchID, e.admin.ID, penaltyWinnerID)
	if err != nil {
		t.Fatalf("confirm match %d: %v", matchID, err)
	}
	return m
}
