package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
	"github.com/dimba-league/dimba-api/internal/platform/rng"
)

// CupDraw summarizes a generated single-elimination bracket.
type CupDraw struct {
	Matches       []match.Match
	Round1Matches []match.Match
	ByeTeamIDs    []int64
	NumByes       int
	TotalRounds   int
}

// KnockoutAdvancement lists the teams leaving the group stage and the drawn
// quarter-final pairings.
type KnockoutAdvancement struct {
	QualifiedTeamIDs []int64
	Pairings         [][2]int64
}

// BracketMatch is one node of the bracket as served to clients.
type BracketMatch struct {
	MatchID         int64      `json:"match_id"`
	BracketPosition int        `json:"bracket_position"`
	HomeTeamID      *int64     `json:"home_team_id"`
	AwayTeamID      *int64     `json:"away_team_id"`
	HomeScore       *int       `json:"home_score"`
	AwayScore       *int       `json:"away_score"`
	Leg             *int       `json:"leg"`
	Status          string     `json:"status"`
	MatchDate       *time.Time `json:"match_date"`
}

// BracketService builds knockout brackets over heap-indexed positions
// (1 = final, position p feeds p/2) and moves winners up the tree as results
// confirm.
type BracketService struct {
	store     store.Store
	standings *StandingsService
	rand      *rng.Source
	logger    *logging.Logger
}

func NewBracketService(st store.Store, standings *StandingsService, rand *rng.Source, logger *logging.Logger) *BracketService {
	if rand == nil {
		rand = rng.NewFromTime()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BracketService{store: st, standings: standings, rand: rand, logger: logger}
}

// GenerateCLKnockoutBracket emits the national knockout tree: a single-leg
// final placeholder, two two-legged semi-final placeholders, and four
// two-legged quarter-finals seeded with the supplied pairings.
func (s *BracketService) GenerateCLKnockoutBracket(ctx context.Context, competitionID int64, teamPairs [][2]int64, startDate time.Time, intervalDays int) ([]match.Match, error) {
	if intervalDays <= 0 {
		intervalDays = 14
	}
	if len(teamPairs) != 4 {
		return nil, fmt.Errorf("%w: quarter-finals require exactly 4 pairings", ErrInvalidInput)
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
		if comp.Type != competition.TypeNational {
			return fmt.Errorf("%w: knockout bracket is only for national competitions", ErrInvalidInput)
		}

		existing, err := tx.Matches().Count(ctx, match.Filter{CompetitionID: competitionID, Stage: match.StageQuarterFinal})
		if err != nil {
			return fmt.Errorf("count quarter-finals: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: knockout bracket already generated for this competition", ErrConflict)
		}

		create := func(m match.Match) error {
			if err := tx.Matches().Create(ctx, &m); err != nil {
				return fmt.Errorf("create bracket match: %w", err)
			}
			created = append(created, m)
			return nil
		}

		finalDate := startDate.AddDate(0, 0, intervalDays*4)
		if err := create(match.Match{
			CompetitionID:   competitionID,
			SeasonID:        comp.SeasonID,
			MatchDate:       &finalDate,
			Stage:           match.StageFinal,
			BracketPosition: intPtr(1),
			RoundNumber:     intPtr(7),
			Status:          match.StatusScheduled,
		}); err != nil {
			return err
		}

		for _, bp := range []int{2, 3} {
			for _, leg := range []int{1, 2} {
				date := startDate.AddDate(0, 0, intervalDays*2+(leg-1)*7)
				if err := create(match.Match{
					CompetitionID:   competitionID,
					SeasonID:        comp.SeasonID,
					MatchDate:       &date,
					Stage:           match.StageSemiFinal,
					BracketPosition: intPtr(bp),
					Leg:             intPtr(leg),
					RoundNumber:     intPtr(6),
					Status:          match.StatusScheduled,
				}); err != nil {
					return err
				}
			}
		}

		for i, pair := range teamPairs {
			bp := 4 + i
			for _, leg := range []int{1, 2} {
				homeID, awayID := pair[0], pair[1]
				if leg == 2 {
					homeID, awayID = pair[1], pair[0]
				}
				date := startDate.AddDate(0, 0, (leg-1)*7)
				if err := create(match.Match{
					CompetitionID:   competitionID,
					SeasonID:        comp.SeasonID,
					HomeTeamID:      &homeID,
					AwayTeamID:      &awayID,
					MatchDate:       &date,
					Stage:           match.StageQuarterFinal,
					BracketPosition: intPtr(bp),
					Leg:             intPtr(leg),
					RoundNumber:     intPtr(5),
					Status:          match.StatusScheduled,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "knockout bracket generated",
		"competition_id", competitionID, "matches", len(created))
	return created, nil
}

// GenerateCupDraw builds a full single-elimination bracket with byes. Teams
// are shuffled; the first bracket_size-n draw byes and are written straight
// into their parent slots, the rest pair off into round-one fixtures.
func (s *BracketService) GenerateCupDraw(ctx context.Context, competitionID int64, startDate time.Time, intervalDays int) (CupDraw, error) {
	if intervalDays <= 0 {
		intervalDays = defaultIntervalDays
	}

	var draw CupDraw
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		comp, ok, err := tx.Competitions().GetByID(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if comp.Type != competition.TypeCup {
			return fmt.Errorf("%w: cup draw is only for cup competitions", ErrInvalidInput)
		}

		teams, err := tx.Competitions().Teams(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("list competition teams: %w", err)
		}
		if len(teams) < 2 {
			return fmt.Errorf("%w: competition must have at least 2 teams", ErrInvalidInput)
		}

		hasBracket := true
		existing, err := tx.Matches().Count(ctx, match.Filter{CompetitionID: competitionID, HasBracketPosition: &hasBracket})
		if err != nil {
			return fmt.Errorf("count bracket matches: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: cup bracket already generated for this competition", ErrConflict)
		}

		n := len(teams)
		bracketSize := match.NextPowerOfTwo(n)
		numRounds := match.DepthOf(bracketSize)
		numByes := bracketSize - n
		leafStart := bracketSize / 2

		s.rand.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })
		byeTeams := teams[:numByes]
		playing := teams[numByes:]

		draw.NumByes = numByes
		draw.TotalRounds = numRounds

		inner := make(map[int]match.Match, leafStart)
		for bp := 1; bp < leafStart; bp++ {
			depth := match.DepthOf(bp)
			roundNum := numRounds - depth
			date := startDate.AddDate(0, 0, (roundNum-1)*intervalDays)
			m := match.Match{
				CompetitionID:   competitionID,
				SeasonID:        comp.SeasonID,
				MatchDate:       &date,
				Stage:           match.StageForDepth(depth),
				BracketPosition: intPtr(bp),
				RoundNumber:     intPtr(roundNum),
				Status:          match.StatusScheduled,
			}
			if err := tx.Matches().Create(ctx, &m); err != nil {
				return fmt.Errorf("create bracket placeholder: %w", err)
			}
			inner[bp] = m
			draw.Matches = append(draw.Matches, m)
		}

		for i := 0; i < numByes; i++ {
			bp := leafStart + i
			parent, ok := inner[bp/2]
			if !ok {
				continue
			}
			teamID := byeTeams[i].ID
			if bp%2 == 0 {
				parent.HomeTeamID = &teamID
			} else {
				parent.AwayTeamID = &teamID
			}
			if err := tx.Matches().Update(ctx, parent); err != nil {
				return fmt.Errorf("write bye into parent: %w", err)
			}
			inner[bp/2] = parent
			draw.ByeTeamIDs = append(draw.ByeTeamIDs, teamID)
		}

		for i := 0; i*2+1 < len(playing); i++ {
			bp := leafStart + numByes + i
			homeID, awayID := playing[i*2].ID, playing[i*2+1].ID
			date := startDate
			m := match.Match{
				CompetitionID:   competitionID,
				SeasonID:        comp.SeasonID,
				HomeTeamID:      &homeID,
				AwayTeamID:      &awayID,
				MatchDate:       &date,
				Stage:           match.StageRound1,
				BracketPosition: intPtr(bp),
				RoundNumber:     intPtr(1),
				Status:          match.StatusScheduled,
			}
			if err := tx.Matches().Create(ctx, &m); err != nil {
				return fmt.Errorf("create round-one fixture: %w", err)
			}
			draw.Matches = append(draw.Matches, m)
			draw.Round1Matches = append(draw.Round1Matches, m)
		}
		return nil
	})
	if err != nil {
		return CupDraw{}, err
	}

	s.logger.InfoContext(ctx, "cup draw generated",
		"competition_id", competitionID, "matches", len(draw.Matches), "byes", draw.NumByes)
	return draw, nil
}

// AdvanceCLKnockout picks the eight teams leaving the groups (seven winners
// plus the best runner-up) and draws quarter-final pairings, avoiding
// same-group opponents where a valid partner remains.
func (s *BracketService) AdvanceCLKnockout(ctx context.Context, competitionID int64) (KnockoutAdvancement, error) {
	comp, ok, err := s.store.Competitions().GetByID(ctx, competitionID)
	if err != nil {
		return KnockoutAdvancement{}, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return KnockoutAdvancement{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}
	if comp.Type != competition.TypeNational {
		return KnockoutAdvancement{}, fmt.Errorf("%w: knockout advancement is only for national competitions", ErrInvalidInput)
	}

	var winners, runnersUp []standing.Standing
	for _, letter := range GroupLetters {
		raw, err := s.store.Standings().ListByCompetition(ctx, competitionID, comp.SeasonID, letter)
		if err != nil {
			return KnockoutAdvancement{}, fmt.Errorf("list group %s standings: %w", letter, err)
		}
		sorted, err := s.standings.Sort(ctx, raw, competitionID, comp.SeasonID)
		if err != nil {
			return KnockoutAdvancement{}, err
		}
		if len(sorted) < 2 {
			return KnockoutAdvancement{}, fmt.Errorf("%w: group %s does not have enough teams with standings", ErrInvalidInput, letter)
		}
		winners = append(winners, sorted[0])
		runnersUp = append(runnersUp, sorted[1])
	}

	byOverall := func(rows []standing.Standing) {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Points != rows[j].Points {
				return rows[i].Points > rows[j].Points
			}
			if rows[i].GoalDifference != rows[j].GoalDifference {
				return rows[i].GoalDifference > rows[j].GoalDifference
			}
			return rows[i].GoalsFor > rows[j].GoalsFor
		})
	}
	byOverall(runnersUp)
	bestRunner := runnersUp[0]

	out := KnockoutAdvancement{}
	for _, w := range winners {
		out.QualifiedTeamIDs = append(out.QualifiedTeamIDs, w.TeamID)
	}
	out.QualifiedTeamIDs = append(out.QualifiedTeamIDs, bestRunner.TeamID)

	byOverall(winners)
	groupOf := make(map[int64]string, 8)
	for _, w := range winners {
		groupOf[w.TeamID] = w.GroupName
	}
	groupOf[bestRunner.TeamID] = bestRunner.GroupName

	seeded := make([]int64, 0, 4)
	unseeded := make([]int64, 0, 4)
	for i, w := range winners {
		if i < 4 {
			seeded = append(seeded, w.TeamID)
		} else {
			unseeded = append(unseeded, w.TeamID)
		}
	}
	unseeded = append(unseeded, bestRunner.TeamID)
	s.rand.Shuffle(len(unseeded), func(i, j int) { unseeded[i], unseeded[j] = unseeded[j], unseeded[i] })

	used := make(map[int64]bool, len(unseeded))
	for _, seed := range seeded {
		picked := int64(0)
		for _, candidate := range unseeded {
			if !used[candidate] && groupOf[seed] != groupOf[candidate] {
				picked = candidate
				break
			}
		}
		if picked == 0 {
			for _, candidate := range unseeded {
				if !used[candidate] {
					picked = candidate
					break
				}
			}
		}
		used[picked] = true
		out.Pairings = append(out.Pairings, [2]int64{seed, picked})
	}

	return out, nil
}

// AdvanceWinnerWithin moves the winner of a just-confirmed bracket match into
// its parent slot, inside the caller's transaction. Two-legged ties resolve
// only once both legs are confirmed, by aggregate then away goals; a tie that
// survives both leaves the parent empty for manual resolution. The returned
// bool reports whether a parent slot was actually written.
func (s *BracketService) AdvanceWinnerWithin(ctx context.Context, tx store.Store, m match.Match) (bool, error) {
	if m.BracketPosition == nil || *m.BracketPosition == 1 {
		return false, nil
	}
	if m.IsTwoLegged() {
		return s.advanceTwoLegged(ctx, tx, m)
	}
	return s.advanceSingleLeg(ctx, tx, m)
}

func (s *BracketService) advanceSingleLeg(ctx context.Context, tx store.Store, m match.Match) (bool, error) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return false, nil
	}
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return false, nil
	}

	var winnerID int64
	switch {
	case *m.HomeScore > *m.AwayScore:
		winnerID = *m.HomeTeamID
	case *m.HomeScore < *m.AwayScore:
		winnerID = *m.AwayTeamID
	case m.PenaltyWinnerID != nil:
		winnerID = *m.PenaltyWinnerID
	default:
		return false, nil
	}

	return s.fillParentSlot(ctx, tx, m.CompetitionID, m.ParentPosition(), winnerID, m.FeedsHomeSlot())
}

func (s *BracketService) advanceTwoLegged(ctx context.Context, tx store.Store, m match.Match) (bool, error) {
	legs, err := tx.Matches().List(ctx, match.Filter{
		CompetitionID:   m.CompetitionID,
		BracketPosition: m.BracketPosition,
	})
	if err != nil {
		return false, fmt.Errorf("list tie legs: %w", err)
	}

	var leg1, leg2 *match.Match
	for i := range legs {
		switch {
		case legs[i].Leg != nil && *legs[i].Leg == 1:
			leg1 = &legs[i]
		case legs[i].Leg != nil && *legs[i].Leg == 2:
			leg2 = &legs[i]
		}
	}
	if leg1 == nil || leg2 == nil {
		return false, nil
	}
	if leg1.Status != match.StatusConfirmed || leg2.Status != match.StatusConfirmed {
		return false, nil
	}

	// Team A is leg-one's home side and leg-two's away side.
	teamA, teamB := leg1.HomeTeamID, leg1.AwayTeamID
	if teamA == nil || teamB == nil {
		return false, nil
	}
	aggA := scoreOrZero(leg1.HomeScore) + scoreOrZero(leg2.AwayScore)
	aggB := scoreOrZero(leg1.AwayScore) + scoreOrZero(leg2.HomeScore)

	var winnerID int64
	switch {
	case aggA > aggB:
		winnerID = *teamA
	case aggB > aggA:
		winnerID = *teamB
	default:
		awayA := scoreOrZero(leg2.AwayScore)
		awayB := scoreOrZero(leg1.AwayScore)
		switch {
		case awayA > awayB:
			winnerID = *teamA
		case awayB > awayA:
			winnerID = *teamB
		default:
			return false, nil // still level, resolved off the pitch
		}
	}

	return s.fillParentSlot(ctx, tx, m.CompetitionID, m.ParentPosition(), winnerID, m.FeedsHomeSlot())
}

// fillParentSlot writes the winner into the parent match, or into both legs
// of a two-legged parent (home of leg 1 doubles as away of leg 2).
func (s *BracketService) fillParentSlot(ctx context.Context, tx store.Store, competitionID int64, parentPos int, winnerID int64, home bool) (bool, error) {
	if parentPos == 0 {
		return false, nil
	}
	parents, err := tx.Matches().List(ctx, match.Filter{
		CompetitionID:   competitionID,
		BracketPosition: &parentPos,
	})
	if err != nil {
		return false, fmt.Errorf("list parent matches: %w", err)
	}
	if len(parents) == 0 {
		return false, nil
	}

	update := func(p match.Match, asHome bool) error {
		if asHome {
			p.HomeTeamID = &winnerID
		} else {
			p.AwayTeamID = &winnerID
		}
		if err := tx.Matches().Update(ctx, p); err != nil {
			return fmt.Errorf("fill parent slot: %w", err)
		}
		return nil
	}

	if len(parents) == 1 && parents[0].Leg == nil {
		if err := update(parents[0], home); err != nil {
			return false, err
		}
		return true, nil
	}
	filled := false
	for _, p := range parents {
		if p.Leg == nil {
			continue
		}
		// Winner's slot flips between the legs.
		asHome := home
		if *p.Leg == 2 {
			asHome = !home
		}
		if err := update(p, asHome); err != nil {
			return false, err
		}
		filled = true
	}
	return filled, nil
}

// GetBracket returns the bracket grouped by stage, ordered by position and
// leg within each stage.
func (s *BracketService) GetBracket(ctx context.Context, competitionID int64) (map[string][]BracketMatch, error) {
	hasBracket := true
	matches, err := s.store.Matches().List(ctx, match.Filter{
		CompetitionID:      competitionID,
		HasBracketPosition: &hasBracket,
	})
	if err != nil {
		return nil, fmt.Errorf("list bracket matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no bracket found for competition=%d", ErrNotFound, competitionID)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := *matches[i].BracketPosition, *matches[j].BracketPosition
		if pi != pj {
			return pi < pj
		}
		return legOrZero(matches[i].Leg) < legOrZero(matches[j].Leg)
	})

	rounds := make(map[string][]BracketMatch)
	for _, m := range matches {
		rounds[m.Stage] = append(rounds[m.Stage], BracketMatch{
			MatchID:         m.ID,
			BracketPosition: *m.BracketPosition,
			HomeTeamID:      m.HomeTeamID,
			AwayTeamID:      m.AwayTeamID,
			HomeScore:       m.HomeScore,
			AwayScore:       m.AwayScore,
			Leg:             m.Leg,
			Status:          m.Status,
			MatchDate:       m.MatchDate,
		})
	}
	return rounds, nil
}

// ResetBracket deletes every bracket match of the competition. Refused once
// any bracket result has been confirmed.
func (s *BracketService) ResetBracket(ctx context.Context, competitionID int64) (int, error) {
	deleted := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		hasBracket := true
		matches, err := tx.Matches().List(ctx, match.Filter{
			CompetitionID:      competitionID,
			HasBracketPosition: &hasBracket,
		})
		if err != nil {
			return fmt.Errorf("list bracket matches: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: no bracket found for competition=%d", ErrNotFound, competitionID)
		}
		for _, m := range matches {
			if m.Status == match.StatusConfirmed {
				return fmt.Errorf("%w: bracket has confirmed results and cannot be reset", ErrConflict)
			}
		}
		for _, m := range matches {
			if err := tx.Matches().Delete(ctx, m.ID); err != nil {
				return fmt.Errorf("delete bracket match: %w", err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "bracket reset", "competition_id", competitionID, "deleted", deleted)
	return deleted, nil
}

func scoreOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func legOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
