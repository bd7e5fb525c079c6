package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// StandingsService rebuilds and orders league tables. Rows are always derived
// from confirmed matches; nothing here edits a table by hand.
type StandingsService struct {
	store  store.Store
	logger *logging.Logger
}

func NewStandingsService(st store.Store, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{store: st, logger: logger}
}

// Recalculate rebuilds every standing row of a competition season from its
// confirmed league and group matches. The rebuild is idempotent: running it
// twice over the same match set produces identical rows.
func (s *StandingsService) Recalculate(ctx context.Context, competitionID, seasonID int64) error {
	if competitionID == 0 || seasonID == 0 {
		return fmt.Errorf("%w: competition id and season id are required", ErrInvalidInput)
	}
	return s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		return s.RecalculateWithin(ctx, tx, competitionID, seasonID)
	})
}

// RecalculateWithin is Recalculate running inside a caller-owned transaction,
// so result confirmation can commit the match and the rebuilt table together.
func (s *StandingsService) RecalculateWithin(ctx context.Context, tx store.Store, competitionID, seasonID int64) error {
	confirmed, err := tx.Matches().List(ctx, match.Filter{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Status:        match.StatusConfirmed,
	})
	if err != nil {
		return fmt.Errorf("list confirmed matches: %w", err)
	}

	type tally struct {
		played, won, drawn, lost int
		goalsFor, goalsAgainst   int
		groupName                string
	}
	tallies := make(map[int64]*tally)
	get := func(teamID int64) *tally {
		t, ok := tallies[teamID]
		if !ok {
			t = &tally{}
			tallies[teamID] = t
		}
		return t
	}

	for _, m := range confirmed {
		if !m.CountsForStandings() {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		home, away := get(*m.HomeTeamID), get(*m.AwayTeamID)
		hs, as := *m.HomeScore, *m.AwayScore

		home.played++
		away.played++
		home.goalsFor += hs
		home.goalsAgainst += as
		away.goalsFor += as
		away.goalsAgainst += hs
		switch {
		case hs > as:
			home.won++
			away.lost++
		case hs < as:
			home.lost++
			away.won++
		default:
			home.drawn++
			away.drawn++
		}
		if m.GroupName != "" {
			if home.groupName == "" {
				home.groupName = m.GroupName
			}
			if away.groupName == "" {
				away.groupName = m.GroupName
			}
		}
	}

	rows, err := tx.Standings().ListByCompetition(ctx, competitionID, seasonID, "")
	if err != nil {
		return fmt.Errorf("list standings: %w", err)
	}

	now := time.Now().UTC()
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		seen[row.TeamID] = true
		t := tallies[row.TeamID]
		if t == nil {
			t = &tally{groupName: row.GroupName}
		}
		if t.groupName == "" {
			t.groupName = row.GroupName
		}
		row.Played = t.played
		row.Won = t.won
		row.Drawn = t.drawn
		row.Lost = t.lost
		row.GoalsFor = t.goalsFor
		row.GoalsAgainst = t.goalsAgainst
		row.GoalDifference = t.goalsFor - t.goalsAgainst
		row.Points = 3*t.won + t.drawn
		row.GroupName = t.groupName
		row.UpdatedAt = now
		if err := tx.Standings().Update(ctx, row); err != nil {
			return fmt.Errorf("update standing team=%d: %w", row.TeamID, err)
		}
	}

	// Teams that played before their zeroed row was seeded still get one.
	for teamID, t := range tallies {
		if seen[teamID] {
			continue
		}
		row := standing.Standing{
			TeamID:         teamID,
			CompetitionID:  competitionID,
			SeasonID:       seasonID,
			Played:         t.played,
			Won:            t.won,
			Drawn:          t.drawn,
			Lost:           t.lost,
			GoalsFor:       t.goalsFor,
			GoalsAgainst:   t.goalsAgainst,
			GoalDifference: t.goalsFor - t.goalsAgainst,
			Points:         3*t.won + t.drawn,
			GroupName:      t.groupName,
			UpdatedAt:      now,
		}
		if err := tx.Standings().Create(ctx, &row); err != nil {
			return fmt.Errorf("create standing team=%d: %w", teamID, err)
		}
	}

	return nil
}

// Table returns the competition's rows ordered by the head-to-head aware sort,
// optionally narrowed to one group.
func (s *StandingsService) Table(ctx context.Context, competitionID, seasonID int64, groupName string) ([]standing.Standing, error) {
	if competitionID == 0 || seasonID == 0 {
		return nil, fmt.Errorf("%w: competition id and season id are required", ErrInvalidInput)
	}
	rows, err := s.store.Standings().ListByCompetition(ctx, competitionID, seasonID, groupName)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return s.Sort(ctx, rows, competitionID, seasonID)
}

// Sort orders rows by overall points, then head-to-head points and goal
// difference among the teams tied on points, then overall goal difference and
// goals for. Remaining ties keep their input order. The input slice is not
// modified.
func (s *StandingsService) Sort(ctx context.Context, rows []standing.Standing, competitionID, seasonID int64) ([]standing.Standing, error) {
	return s.SortWithin(ctx, s.store, rows, competitionID, seasonID)
}

func (s *StandingsService) SortWithin(ctx context.Context, tx store.Store, rows []standing.Standing, competitionID, seasonID int64) ([]standing.Standing, error) {
	out := append([]standing.Standing(nil), rows...)
	if len(out) < 2 {
		return out, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})

	confirmed, err := tx.Matches().List(ctx, match.Filter{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Status:        match.StatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("list confirmed matches: %w", err)
	}

	// Walk tie groups on overall points and resolve each with a mini-table.
	start := 0
	for start < len(out) {
		end := start + 1
		for end < len(out) && out[end].Points == out[start].Points {
			end++
		}
		if end-start > 1 {
			sortTiedGroup(out[start:end], confirmed)
		}
		start = end
	}

	return out, nil
}

type headToHead struct {
	points         int
	goalDifference int
}

// sortTiedGroup reorders a points-tied slice in place using matches restricted
// to the tied teams, falling back to overall goal difference and goals for.
func sortTiedGroup(group []standing.Standing, confirmed []match.Match) {
	tied := make(map[int64]*headToHead, len(group))
	for _, row := range group {
		tied[row.TeamID] = &headToHead{}
	}

	for _, m := range confirmed {
		if !m.CountsForStandings() {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		home, homeOK := tied[*m.HomeTeamID]
		away, awayOK := tied[*m.AwayTeamID]
		if !homeOK || !awayOK {
			continue
		}
		hs, as := *m.HomeScore, *m.AwayScore
		home.goalDifference += hs - as
		away.goalDifference += as - hs
		switch {
		case hs > as:
			home.points += 3
		case hs < as:
			away.points += 3
		default:
			home.points++
			away.points++
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		hi, hj := tied[group[i].TeamID], tied[group[j].TeamID]
		if hi.points != hj.points {
			return hi.points > hj.points
		}
		if hi.goalDifference != hj.goalDifference {
			return hi.goalDifference > hj.goalDifference
		}
		if group[i].GoalDifference != group[j].GoalDifference {
			return group[i].GoalDifference > group[j].GoalDifference
		}
		return group[i].GoalsFor > group[j].GoalsFor
	})
}
