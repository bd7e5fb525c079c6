package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/user"
	"github.com/dimba-league/dimba-api/internal/eventbus"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// MatchService owns the fixture lifecycle: creation, result submission by
// coaches, and admin confirmation with its progression side effects.
type MatchService struct {
	store     store.Store
	standings *StandingsService
	brackets  *BracketService
	bus       *eventbus.Bus
	logger    *logging.Logger
}

func NewMatchService(st store.Store, standings *StandingsService, brackets *BracketService, bus *eventbus.Bus, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{store: st, standings: standings, brackets: brackets, bus: bus, logger: logger}
}

// CreateMatchInput carries an ad-hoc fixture created outside the schedulers.
type CreateMatchInput struct {
	CompetitionID int64      `validate:"required"`
	SeasonID      int64      `validate:"required"`
	HomeTeamID    int64      `validate:"required"`
	AwayTeamID    int64      `validate:"required,nefield=HomeTeamID"`
	MatchDate     *time.Time `validate:"omitempty"`
	Venue         string     `validate:"omitempty,max=120"`
}

func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (match.Match, error) {
	if in.CompetitionID == 0 || in.SeasonID == 0 || in.HomeTeamID == 0 || in.AwayTeamID == 0 {
		return match.Match{}, fmt.Errorf("%w: competition, season and both teams are required", ErrInvalidInput)
	}
	if in.HomeTeamID == in.AwayTeamID {
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	m := match.Match{
		CompetitionID: in.CompetitionID,
		SeasonID:      in.SeasonID,
		HomeTeamID:    &in.HomeTeamID,
		AwayTeamID:    &in.AwayTeamID,
		MatchDate:     in.MatchDate,
		Venue:         in.Venue,
		Status:        match.StatusScheduled,
	}
	if err := s.store.Matches().Create(ctx, &m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// CreateSuperMatch creates the one-off season finale between the champions
// league winner (home) and the cup winner (away).
func (s *MatchService) CreateSuperMatch(ctx context.Context, competitionID, homeTeamID, awayTeamID int64, matchDate *time.Time, venue string) (match.Match, error) {
	var created match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		comp, ok, err := tx.Competitions().GetByID(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}
		if comp.Type != competition.TypeSuper {
			return fmt.Errorf("%w: not a super competition", ErrInvalidInput)
		}

		existing, err := tx.Matches().Count(ctx, match.Filter{CompetitionID: competitionID})
		if err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: super match already created", ErrConflict)
		}

		created = match.Match{
			CompetitionID: competitionID,
			SeasonID:      comp.SeasonID,
			HomeTeamID:    &homeTeamID,
			AwayTeamID:    &awayTeamID,
			MatchDate:     matchDate,
			Venue:         venue,
			Stage:         match.StageSuper,
			Status:        match.StatusScheduled,
		}
		return tx.Matches().Create(ctx, &created)
	})
	if err != nil {
		return match.Match{}, err
	}
	return created, nil
}

// List returns fixtures matching the filter, most recent kickoff first.
func (s *MatchService) List(ctx context.Context, f match.Filter) ([]match.Match, error) {
	rows, err := s.store.Matches().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].MatchDate, rows[j].MatchDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	return rows, nil
}

func (s *MatchService) Get(ctx context.Context, matchID int64) (match.Match, error) {
	m, ok, err := s.store.Matches().GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	return m, nil
}

// SubmitResult records a scoreline on a scheduled match and moves it to
// COMPLETED. Coaches may only submit for matches their own team plays in.
func (s *MatchService) SubmitResult(ctx context.Context, matchID int64, homeScore, awayScore int, actorID int64) (match.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores must be non-negative", ErrInvalidInput)
	}

	var updated match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		m, ok, err := tx.Matches().GetByID(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
		}
		if m.Status != match.StatusScheduled {
			return fmt.Errorf("%w: results can only be submitted for scheduled matches", ErrConflict)
		}
		// Bracket placeholders wait for an earlier round to fill them.
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			return fmt.Errorf("%w: match has no participants yet", ErrInvalidInput)
		}

		actor, found, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("get actor: %w", err)
		}
		if found && actor.Role == user.RoleCoach {
			if actor.TeamID == nil || !m.HasParticipant(*actor.TeamID) {
				return fmt.Errorf("%w: coaches can only submit results for their own team's matches", ErrForbidden)
			}
		}

		m.HomeScore = &homeScore
		m.AwayScore = &awayScore
		m.Status = match.StatusCompleted
		m.SubmittedByID = &actorID
		if err := tx.Matches().Update(ctx, m); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		updated = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "result submitted",
		"match_id", matchID, "home_score", homeScore, "away_score", awayScore, "actor_id", actorID)
	return updated, nil
}

// ConfirmResult finalizes a completed match. The status change, standings
// rebuild, and bracket advancement commit in one transaction; events publish
// afterwards, in a fixed order, so no subscriber observes uncommitted state.
func (s *MatchService) ConfirmResult(ctx context.Context, matchID, actorID int64, penaltyWinnerID *int64) (match.Match, error) {
	var (
		confirmed           match.Match
		bracketUpdated      bool
		competitionComplete bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		m, ok, err := tx.Matches().GetByID(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
		}
		if m.Status != match.StatusCompleted {
			return fmt.Errorf("%w: only completed matches can be confirmed", ErrConflict)
		}

		// A drawn single-leg knockout match needs a shootout winner before
		// the bracket can move.
		if m.IsBracket() && m.IsDraw() && !m.IsTwoLegged() {
			if penaltyWinnerID == nil {
				return fmt.Errorf("%w: knockout match ended in a draw, penalty_winner_id is required", ErrInvalidInput)
			}
			if !m.HasParticipant(*penaltyWinnerID) {
				return fmt.Errorf("%w: penalty_winner_id must be one of the two teams in this match", ErrInvalidInput)
			}
			m.PenaltyWinnerID = penaltyWinnerID
		}

		m.Status = match.StatusConfirmed
		m.ConfirmedByID = &actorID
		if err := tx.Matches().Update(ctx, m); err != nil {
			return fmt.Errorf("update match: %w", err)
		}

		if err := s.standings.RecalculateWithin(ctx, tx, m.CompetitionID, m.SeasonID); err != nil {
			return err
		}

		if m.IsBracket() {
			advanced, err := s.brackets.AdvanceWinnerWithin(ctx, tx, m)
			if err != nil {
				return err
			}
			// The final has no parent to fill but its confirmation still
			// changes the bracket; an unresolved two-legged tie does not.
			bracketUpdated = advanced || *m.BracketPosition == 1
		}

		if m.Stage == match.StageLeague || m.Stage == match.StageGroup {
			remaining, err := tx.Matches().Count(ctx, match.Filter{
				CompetitionID: m.CompetitionID,
				Stages:        []string{match.StageLeague, match.StageGroup},
				ExcludeStatus: match.StatusConfirmed,
			})
			if err != nil {
				return fmt.Errorf("count remaining matches: %w", err)
			}
			competitionComplete = remaining == 0
		}

		confirmed = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.publishConfirmation(confirmed, bracketUpdated, competitionComplete)

	s.logger.InfoContext(ctx, "result confirmed",
		"match_id", matchID, "competition_id", confirmed.CompetitionID, "actor_id", actorID)
	return confirmed, nil
}

func (s *MatchService) publishConfirmation(m match.Match, bracketUpdated, competitionComplete bool) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(eventbus.TypeMatchConfirmed, map[string]any{
		"match_id":       m.ID,
		"competition_id": m.CompetitionID,
		"season_id":      m.SeasonID,
		"home_team_id":   m.HomeTeamID,
		"away_team_id":   m.AwayTeamID,
		"home_score":     m.HomeScore,
		"away_score":     m.AwayScore,
	})
	s.bus.Publish(eventbus.TypeStandingsUpdated, map[string]any{
		"competition_id": m.CompetitionID,
		"season_id":      m.SeasonID,
	})
	if bracketUpdated {
		s.bus.Publish(eventbus.TypeBracketUpdated, map[string]any{
			"competition_id":   m.CompetitionID,
			"match_id":         m.ID,
			"bracket_position": *m.BracketPosition,
		})
	}
	if competitionComplete {
		s.bus.Publish(eventbus.TypeCompetitionComplete, map[string]any{
			"competition_id": m.CompetitionID,
			"season_id":      m.SeasonID,
		})
	}
}
