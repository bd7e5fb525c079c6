package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	qb "github.com/dimba-league/dimba-api/internal/platform/querybuilder"
)

type competitionRepository struct {
	q queryer
}

func (r *competitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	return r.list(ctx)
}

func (r *competitionRepository) ListBySeasonAndType(ctx context.Context, seasonID int64, competitionType string) ([]competition.Competition, error) {
	conditions := []qb.Condition{qb.Eq("season_id", seasonID)}
	if competitionType != "" {
		conditions = append(conditions, qb.Eq("type", competitionType))
	}
	return r.list(ctx, conditions...)
}

func (r *competitionRepository) list(ctx context.Context, conditions ...qb.Condition) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").Where(conditions...).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, competitionFromRow(row))
	}
	return out, nil
}

func (r *competitionRepository) GetByID(ctx context.Context, competitionID int64) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").Where(qb.Eq("id", competitionID)).ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition: %w", err)
	}
	return competitionFromRow(row), true, nil
}

func (r *competitionRepository) Create(ctx context.Context, c *competition.Competition) error {
	query, args, err := qb.InsertInto("competitions").
		Columns("name", "type", "category", "season_id", "region_id", "county_id").
		Values(c.Name, c.Type, c.Category, c.SeasonID, int64PtrToNullInt64(c.RegionID), int64PtrToNullInt64(c.CountyID)).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert competition: %w", mapWriteError(err))
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

func (r *competitionRepository) Update(ctx context.Context, c competition.Competition) error {
	query, args, err := qb.Update("competitions").
		Set("name", c.Name).
		Set("type", c.Type).
		Set("category", c.Category).
		Set("region_id", int64PtrToNullInt64(c.RegionID)).
		Set("county_id", int64PtrToNullInt64(c.CountyID)).
		Where(qb.Eq("id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update competition query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update competition: %w", mapWriteError(err))
	}
	return nil
}

// Teams returns the roster in registration order.
func (r *competitionRepository) Teams(ctx context.Context, competitionID int64) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").
		From("teams t JOIN competition_teams ct ON ct.team_id = t.id").
		Where(qb.Eq("ct.competition_id", competitionID)).
		OrderBy("ct.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []teamTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *competitionRepository) AddTeam(ctx context.Context, competitionID, teamID int64) (bool, error) {
	query, args, err := qb.InsertInto("competition_teams").
		Columns("competition_id", "team_id").
		Values(competitionID, teamID).
		Suffix("ON CONFLICT (competition_id, team_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build add team query: %w", err)
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, store.ErrUniqueViolation) {
			return false, nil
		}
		return false, fmt.Errorf("add team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add team rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *competitionRepository) CompetitionsForTeam(ctx context.Context, teamID int64) ([]competition.Competition, error) {
	query, args, err := qb.Select("c.*").
		From("competitions c JOIN competition_teams ct ON ct.competition_id = c.id").
		Where(qb.Eq("ct.team_id", teamID)).
		OrderBy("c.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build competitions for team query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("competitions for team: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, competitionFromRow(row))
	}
	return out, nil
}

func competitionFromRow(row competitionTableModel) competition.Competition {
	return competition.Competition{
		ID:        row.ID,
		Name:      row.Name,
		Type:      row.Type,
		Category:  row.Category,
		SeasonID:  row.SeasonID,
		RegionID:  nullInt64ToInt64Ptr(row.RegionID),
		CountyID:  nullInt64ToInt64Ptr(row.CountyID),
		CreatedAt: row.CreatedAt,
	}
}
