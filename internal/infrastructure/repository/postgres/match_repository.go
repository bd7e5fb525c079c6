package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/match"
	qb "github.com/dimba-league/dimba-api/internal/platform/querybuilder"
)

type matchRepository struct {
	q queryer
}

// filterConditions renders a match.Filter as WHERE predicates. The Date field
// matches the UTC calendar day of the kickoff.
func filterConditions(f match.Filter) []qb.Condition {
	var conditions []qb.Condition
	if f.CompetitionID != 0 {
		conditions = append(conditions, qb.Eq("competition_id", f.CompetitionID))
	}
	if f.SeasonID != 0 {
		conditions = append(conditions, qb.Eq("season_id", f.SeasonID))
	}
	if f.TeamID != 0 {
		conditions = append(conditions, qb.Expr("(home_team_id = $? OR away_team_id = $?)", f.TeamID, f.TeamID))
	}
	if f.Status != "" {
		conditions = append(conditions, qb.Eq("status", f.Status))
	}
	if f.ExcludeStatus != "" {
		conditions = append(conditions, qb.NotEq("status", f.ExcludeStatus))
	}
	if f.Stage != "" {
		conditions = append(conditions, qb.Eq("stage", f.Stage))
	}
	if len(f.Stages) > 0 {
		values := make([]any, 0, len(f.Stages))
		for _, stage := range f.Stages {
			values = append(values, stage)
		}
		conditions = append(conditions, qb.In("stage", values))
	}
	if f.Matchday != nil {
		conditions = append(conditions, qb.Eq("matchday", *f.Matchday))
	}
	if f.GroupName != "" {
		conditions = append(conditions, qb.Eq("group_name", f.GroupName))
	}
	if f.Leg != nil {
		conditions = append(conditions, qb.Eq("leg", *f.Leg))
	}
	if f.BracketPosition != nil {
		conditions = append(conditions, qb.Eq("bracket_position", *f.BracketPosition))
	}
	if f.HasBracketPosition != nil {
		if *f.HasBracketPosition {
			conditions = append(conditions, qb.IsNotNull("bracket_position"))
		} else {
			conditions = append(conditions, qb.IsNull("bracket_position"))
		}
	}
	if f.Date != nil {
		day := f.Date.UTC().Truncate(24 * time.Hour)
		conditions = append(conditions,
			qb.Expr("match_date >= $?", day),
			qb.Expr("match_date < $?", day.Add(24*time.Hour)),
		)
	}
	return conditions
}

func (r *matchRepository) List(ctx context.Context, f match.Filter) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(filterConditions(f)...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *matchRepository) Count(ctx context.Context, f match.Filter) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").
		Where(filterConditions(f)...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *matchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *matchRepository) Create(ctx context.Context, m *match.Match) error {
	status := m.Status
	if status == "" {
		status = match.StatusScheduled
	}

	query, args, err := qb.InsertInto("matches").
		Columns(
			"competition_id", "season_id", "home_team_id", "away_team_id",
			"home_score", "away_score", "match_date", "venue", "status",
			"matchday", "stage", "group_name", "leg", "round_number",
			"bracket_position",
		).
		Values(
			m.CompetitionID, m.SeasonID, int64PtrToNullInt64(m.HomeTeamID), int64PtrToNullInt64(m.AwayTeamID),
			intPtrToNullInt64(m.HomeScore), intPtrToNullInt64(m.AwayScore), timePtrToNullTime(m.MatchDate), m.Venue, status,
			intPtrToNullInt64(m.Matchday), m.Stage, m.GroupName, intPtrToNullInt64(m.Leg), intPtrToNullInt64(m.RoundNumber),
			intPtrToNullInt64(m.BracketPosition),
		).
		Suffix("RETURNING id, status, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	var row matchTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", mapWriteError(err))
	}
	m.ID = row.ID
	m.Status = row.Status
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *matchRepository) Update(ctx context.Context, m match.Match) error {
	query, args, err := qb.Update("matches").
		Set("home_team_id", int64PtrToNullInt64(m.HomeTeamID)).
		Set("away_team_id", int64PtrToNullInt64(m.AwayTeamID)).
		Set("home_score", intPtrToNullInt64(m.HomeScore)).
		Set("away_score", intPtrToNullInt64(m.AwayScore)).
		Set("match_date", timePtrToNullTime(m.MatchDate)).
		Set("venue", m.Venue).
		Set("status", m.Status).
		Set("submitted_by_id", int64PtrToNullInt64(m.SubmittedByID)).
		Set("confirmed_by_id", int64PtrToNullInt64(m.ConfirmedByID)).
		Set("penalty_winner_id", int64PtrToNullInt64(m.PenaltyWinnerID)).
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match: %w", mapWriteError(err))
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, matchID int64) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:              row.ID,
		CompetitionID:   row.CompetitionID,
		SeasonID:        row.SeasonID,
		HomeTeamID:      nullInt64ToInt64Ptr(row.HomeTeamID),
		AwayTeamID:      nullInt64ToInt64Ptr(row.AwayTeamID),
		HomeScore:       nullInt64ToIntPtr(row.HomeScore),
		AwayScore:       nullInt64ToIntPtr(row.AwayScore),
		MatchDate:       nullTimeToTimePtr(row.MatchDate),
		Venue:           row.Venue,
		Status:          row.Status,
		SubmittedByID:   nullInt64ToInt64Ptr(row.SubmittedByID),
		ConfirmedByID:   nullInt64ToInt64Ptr(row.ConfirmedByID),
		Matchday:        nullInt64ToIntPtr(row.Matchday),
		Stage:           row.Stage,
		GroupName:       row.GroupName,
		Leg:             nullInt64ToIntPtr(row.Leg),
		RoundNumber:     nullInt64ToIntPtr(row.RoundNumber),
		BracketPosition: nullInt64ToIntPtr(row.BracketPosition),
		PenaltyWinnerID: nullInt64ToInt64Ptr(row.PenaltyWinnerID),
		CreatedAt:       row.CreatedAt,
	}
}
