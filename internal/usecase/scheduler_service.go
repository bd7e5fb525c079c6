package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/rng"
)

// GroupLetters names the seven groups of a 21-team draw.
var GroupLetters = []string{"A", "B", "C", "D", "E", "F", "G"}

const defaultIntervalDays = 7

// GroupDraw is the outcome of a group-stage draw: team ids per group letter
// plus the fixtures emitted for them.
type GroupDraw struct {
	Groups  map[string][]int64
	Matches []match.Match
}

// SchedulerService emits fixtures: double round-robin leagues and the
// constrained seven-group draws. Bracket construction lives in
// BracketService.
type SchedulerService struct {
	store  store.Store
	rand   *rng.Source
	logger *logging.Logger
}

func NewSchedulerService(st store.Store, rand *rng.Source, logger *logging.Logger) *SchedulerService {
	if rand == nil {
		rand = rng.NewFromTime()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulerService{store: st, rand: rand, logger: logger}
}

// GenerateRoundRobin emits a full home-and-away round-robin for a county or
// regional league. Rounds are ordered so matchdays with more same-county
// pairings come first: local derbies early, long travel later in the season.
func (s *SchedulerService) GenerateRoundRobin(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) ([]match.Match, error) {
	if intervalDays <= 0 {
		intervalDays = defaultIntervalDays
	}

	var created []match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		comp, ok, err := tx.Competitions().GetByID(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if !competition.SupportsLeaguePlay(comp.Type) {
			return fmt.Errorf("%w: round-robin requires a county or regional competition", ErrInvalidInput)
		}

		teams, err := tx.Competitions().Teams(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("list competition teams: %w", err)
		}
		if len(teams) < 2 {
			return fmt.Errorf("%w: competition must have at least 2 teams", ErrInvalidInput)
		}

		existing, err := tx.Matches().Count(ctx, match.Filter{CompetitionID: competitionID, Stage: match.StageLeague})
		if err != nil {
			return fmt.Errorf("count league matches: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: fixtures already generated for this competition", ErrConflict)
		}

		rounds := circleRounds(len(teams))
		sortRoundsByCountyScore(rounds, teams)

		matchday := 0
		emit := func(homeIdx, awayIdx int) error {
			homeID, awayID := teams[homeIdx].ID, teams[awayIdx].ID
			date := startDate.AddDate(0, 0, (matchday-1)*intervalDays)
			m := match.Match{
				CompetitionID: competitionID,
				SeasonID:      comp.SeasonID,
				HomeTeamID:    &homeID,
				AwayTeamID:    &awayID,
				MatchDate:     &date,
				Stage:         match.StageLeague,
				Matchday:      intPtr(matchday),
				Status:        match.StatusScheduled,
			}
			if err := tx.Matches().Create(ctx, &m); err != nil {
				return fmt.Errorf("create fixture: %w", err)
			}
			created = append(created, m)
			return nil
		}

		// First pass keeps the drawn orientation, second pass swaps it. Both
		// passes walk the reordered rounds so derbies stay early twice over.
		for _, round := range rounds {
			matchday++
			for _, p := range round {
				if p.home >= len(teams) || p.away >= len(teams) {
					continue // bye
				}
				if err := emit(p.home, p.away); err != nil {
					return err
				}
			}
		}
		for _, round := range rounds {
			matchday++
			for _, p := range round {
				if p.home >= len(teams) || p.away >= len(teams) {
					continue
				}
				if err := emit(p.away, p.home); err != nil {
					return err
				}
			}
		}

		for _, t := range teams {
			row := standing.Standing{TeamID: t.ID, CompetitionID: competitionID, SeasonID: comp.SeasonID}
			if err := tx.Standings().Create(ctx, &row); err != nil {
				return fmt.Errorf("seed standing team=%d: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round-robin generated",
		"competition_id", competitionID, "matches", len(created))
	return created, nil
}

// GenerateCountyFixtures runs the round-robin generator over every county
// league of a season in one pass. Competitions that already have fixtures are
// skipped rather than failing the batch.
func (s *SchedulerService) GenerateCountyFixtures(ctx context.Context, seasonID int64, startDate time.Time, intervalDays int) (map[int64]int, error) {
	comps, err := s.store.Competitions().ListBySeasonAndType(ctx, seasonID, competition.TypeCounty)
	if err != nil {
		return nil, fmt.Errorf("list county competitions: %w", err)
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("%w: no county competitions in season=%d", ErrNotFound, seasonID)
	}

	generated := make(map[int64]int, len(comps))
	for _, comp := range comps {
		created, err := s.GenerateRoundRobin(ctx, comp.ID, startDate, intervalDays)
		if err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return nil, err
		}
		generated[comp.ID] = len(created)
	}

	s.logger.InfoContext(ctx, "county fixtures generated",
		"season_id", seasonID, "competitions", len(generated))
	return generated, nil
}

// GenerateCLGroups draws 21 national-tier teams from exactly 7 regions into
// 7 groups of 3 with no same-region pairings.
func (s *SchedulerService) GenerateCLGroups(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) (GroupDraw, error) {
	return s.generateGroups(ctx, competitionID, startDate, intervalDays, competition.TypeNational,
		"national (Champions League)", "region", func(t team.Team) int64 { return t.RegionID })
}

// GenerateRegionalGroups is the same constrained draw for a regional
// competition, keyed on county instead of region: 21 qualified county teams
// into 7 groups with no same-county pairings.
func (s *SchedulerService) GenerateRegionalGroups(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) (GroupDraw, error) {
	return s.generateGroups(ctx, competitionID, startDate, intervalDays, competition.TypeRegional,
		"regional", "county", func(t team.Team) int64 { return t.CountyID })
}

func (s *SchedulerService) generateGroups(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int, wantType, typeLabel, keyLabel string, key func(team.Team) int64) (GroupDraw, error) {
	if intervalDays <= 0 {
		intervalDays = defaultIntervalDays
	}

	draw := GroupDraw{Groups: make(map[string][]int64, len(GroupLetters))}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		comp, ok, err := tx.Competitions().GetByID(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if comp.Type != wantType {
			return fmt.Errorf("%w: group draw is only for %s competitions", ErrInvalidInput, typeLabel)
		}

		teams, err := tx.Competitions().Teams(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("list competition teams: %w", err)
		}
		if len(teams) != 21 {
			return fmt.Errorf("%w: group draw requires exactly 21 teams", ErrInvalidInput)
		}

		existing, err := tx.Matches().Count(ctx, match.Filter{CompetitionID: competitionID, Stage: match.StageGroup})
		if err != nil {
			return fmt.Errorf("count group matches: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: group fixtures already generated for this competition", ErrConflict)
		}

		groups, err := s.drawConstrainedGroups(teams, keyLabel, key)
		if err != nil {
			return err
		}

		for _, letter := range GroupLetters {
			groupTeams := groups[letter]
			a, b, c := groupTeams[0], groupTeams[1], groupTeams[2]

			// Fixed rotation giving each team two home and two away fixtures.
			pairings := []struct {
				home, away team.Team
				matchday   int
			}{
				{a, b, 1}, {c, a, 2}, {b, c, 3},
				{b, a, 4}, {a, c, 5}, {c, b, 6},
			}
			for _, p := range pairings {
				homeID, awayID := p.home.ID, p.away.ID
				date := startDate.AddDate(0, 0, (p.matchday-1)*intervalDays)
				m := match.Match{
					CompetitionID: competitionID,
					SeasonID:      comp.SeasonID,
					HomeTeamID:    &homeID,
					AwayTeamID:    &awayID,
					MatchDate:     &date,
					Stage:         match.StageGroup,
					GroupName:     letter,
					Matchday:      intPtr(p.matchday),
					Status:        match.StatusScheduled,
				}
				if err := tx.Matches().Create(ctx, &m); err != nil {
					return fmt.Errorf("create group fixture: %w", err)
				}
				draw.Matches = append(draw.Matches, m)
			}

			for _, t := range groupTeams {
				row := standing.Standing{
					TeamID:        t.ID,
					CompetitionID: competitionID,
					SeasonID:      comp.SeasonID,
					GroupName:     letter,
				}
				if err := tx.Standings().Create(ctx, &row); err != nil {
					return fmt.Errorf("seed group standing team=%d: %w", t.ID, err)
				}
				draw.Groups[letter] = append(draw.Groups[letter], t.ID)
			}
		}
		return nil
	})
	if err != nil {
		return GroupDraw{}, err
	}

	s.logger.InfoContext(ctx, "group draw completed",
		"competition_id", competitionID, "matches", len(draw.Matches))
	return draw, nil
}

// drawConstrainedGroups partitions 21 teams by key into 7 buckets of 3,
// permutes bucket order and each bucket's members, then assigns bucket i's
// member j to group (i + 2j) mod 7. The 0/2/4 offsets put the three members
// of every bucket into three distinct groups.
func (s *SchedulerService) drawConstrainedGroups(teams []team.Team, keyLabel string, key func(team.Team) int64) (map[string][]team.Team, error) {
	buckets := make(map[int64][]team.Team)
	var keys []int64
	for _, t := range teams {
		k := key(t)
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], t)
	}
	if len(buckets) != 7 {
		return nil, fmt.Errorf("%w: draw requires teams from exactly 7 %s pots", ErrInvalidInput, keyLabel)
	}
	for _, k := range keys {
		if len(buckets[k]) != 3 {
			return nil, fmt.Errorf("%w: each %s must contribute exactly 3 teams", ErrInvalidInput, keyLabel)
		}
	}

	s.rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys {
		members := buckets[k]
		s.rand.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
	}

	groups := make(map[string][]team.Team, len(GroupLetters))
	for i, k := range keys {
		for j, t := range buckets[k] {
			letter := GroupLetters[(i+2*j)%7]
			groups[letter] = append(groups[letter], t)
		}
	}

	// Recheck the constraint before any fixture is written.
	for _, letter := range GroupLetters {
		seen := make(map[int64]bool, 3)
		for _, t := range groups[letter] {
			if seen[key(t)] {
				return nil, fmt.Errorf("group draw failed: same-%s teams in group %s", keyLabel, letter)
			}
			seen[key(t)] = true
		}
	}
	return groups, nil
}

// ResetFixtures deletes league fixtures and their standings, across every
// competition or restricted to county leagues. Admin recovery tool for
// re-running a botched draw; bracket and group fixtures are untouched.
func (s *SchedulerService) ResetFixtures(ctx context.Context, countyOnly bool) (int, error) {
	deleted := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		comps, err := tx.Competitions().List(ctx)
		if err != nil {
			return fmt.Errorf("list competitions: %w", err)
		}
		for _, comp := range comps {
			if countyOnly && comp.Type != competition.TypeCounty {
				continue
			}
			rows, err := tx.Matches().List(ctx, match.Filter{CompetitionID: comp.ID, Stage: match.StageLeague})
			if err != nil {
				return fmt.Errorf("list league fixtures: %w", err)
			}
			if len(rows) == 0 {
				continue
			}
			for _, m := range rows {
				if err := tx.Matches().Delete(ctx, m.ID); err != nil {
					return fmt.Errorf("delete fixture %d: %w", m.ID, err)
				}
				deleted++
			}
			if err := tx.Standings().DeleteByCompetition(ctx, comp.ID); err != nil {
				return fmt.Errorf("delete standings for competition %d: %w", comp.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "fixtures reset", "county_only", countyOnly, "deleted", deleted)
	return deleted, nil
}

type pairing struct {
	home, away int
}

// circleRounds builds the n-1 rounds of a single round-robin over team
// indices 0..n-1 by the circle method: index 0 is anchored, the rest rotate.
// Odd n gets a phantom index n acting as the bye.
func circleRounds(n int) [][]pairing {
	if n%2 != 0 {
		n++
	}
	half := n / 2
	rotating := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rotating = append(rotating, i)
	}

	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]pairing, 0, half)
		round = append(round, pairing{home: 0, away: rotating[0]})
		for i := 1; i < half; i++ {
			round = append(round, pairing{home: rotating[i], away: rotating[n-1-i]})
		}
		rounds = append(rounds, round)

		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}
	return rounds
}

// sortRoundsByCountyScore reorders rounds so those with more same-county
// pairings come first. Stable, so the rotation's relative order survives.
func sortRoundsByCountyScore(rounds [][]pairing, teams []team.Team) {
	score := func(round []pairing) int {
		n := 0
		for _, p := range round {
			if p.home >= len(teams) || p.away >= len(teams) {
				continue
			}
			if teams[p.home].CountyID == teams[p.away].CountyID {
				n++
			}
		}
		return n
	}
	sort.SliceStable(rounds, func(i, j int) bool {
		return score(rounds[i]) > score(rounds[j])
	})
}

func intPtr(v int) *int { return &v }
