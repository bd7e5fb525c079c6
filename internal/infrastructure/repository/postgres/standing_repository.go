package postgres

import (
	"context"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/standing"
	qb "github.com/dimba-league/dimba-api/internal/platform/querybuilder"
)

type standingRepository struct {
	q queryer
}

func (r *standingRepository) ListByCompetition(ctx context.Context, competitionID, seasonID int64, groupName string) ([]standing.Standing, error) {
	conditions := []qb.Condition{
		qb.Eq("competition_id", competitionID),
		qb.Eq("season_id", seasonID),
	}
	if groupName != "" {
		conditions = append(conditions, qb.Eq("group_name", groupName))
	}

	query, args, err := qb.Select("*").From("standings").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingFromRow(row))
	}
	return out, nil
}

func (r *standingRepository) Get(ctx context.Context, teamID, competitionID, seasonID int64) (standing.Standing, bool, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("competition_id", competitionID),
			qb.Eq("season_id", seasonID),
		).
		ToSQL()
	if err != nil {
		return standing.Standing{}, false, fmt.Errorf("build get standing query: %w", err)
	}

	var row standingTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.Standing{}, false, nil
		}
		return standing.Standing{}, false, fmt.Errorf("get standing: %w", err)
	}
	return standingFromRow(row), true, nil
}

func (r *standingRepository) Create(ctx context.Context, s *standing.Standing) error {
	query, args, err := qb.InsertInto("standings").
		Columns(
			"team_id", "competition_id", "season_id",
			"played", "won", "drawn", "lost",
			"goals_for", "goals_against", "goal_difference", "points", "group_name",
		).
		Values(
			s.TeamID, s.CompetitionID, s.SeasonID,
			s.Played, s.Won, s.Drawn, s.Lost,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points, s.GroupName,
		).
		Suffix("RETURNING id, updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert standing query: %w", err)
	}

	var row standingTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert standing: %w", mapWriteError(err))
	}
	s.ID = row.ID
	s.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *standingRepository) Update(ctx context.Context, s standing.Standing) error {
	query, args, err := qb.Update("standings").
		Set("played", s.Played).
		Set("won", s.Won).
		Set("drawn", s.Drawn).
		Set("lost", s.Lost).
		Set("goals_for", s.GoalsFor).
		Set("goals_against", s.GoalsAgainst).
		Set("goal_difference", s.GoalDifference).
		Set("points", s.Points).
		Set("group_name", s.GroupName).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", s.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update standing query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update standing: %w", mapWriteError(err))
	}
	return nil
}

func (r *standingRepository) DeleteByCompetition(ctx context.Context, competitionID int64) error {
	query, args, err := qb.DeleteFrom("standings").Where(qb.Eq("competition_id", competitionID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete standings query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete standings: %w", err)
	}
	return nil
}

func (r *standingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, "TRUNCATE standings"); err != nil {
		return fmt.Errorf("truncate standings: %w", err)
	}
	return nil
}

func standingFromRow(row standingTableModel) standing.Standing {
	return standing.Standing{
		ID:             row.ID,
		TeamID:         row.TeamID,
		CompetitionID:  row.CompetitionID,
		SeasonID:       row.SeasonID,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
		GroupName:      row.GroupName,
		UpdatedAt:      row.UpdatedAt,
	}
}
