package postgres

import (
	"context"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/domain/user"
	qb "github.com/dimba-league/dimba-api/internal/platform/querybuilder"
)

type regionRepository struct {
	q queryer
}

func (r *regionRepository) List(ctx context.Context) ([]region.Region, error) {
	query, args, err := qb.Select("*").From("regions").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list regions query: %w", err)
	}

	var rows []regionTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	out := make([]region.Region, 0, len(rows))
	for _, row := range rows {
		out = append(out, regionFromRow(row))
	}
	return out, nil
}

func (r *regionRepository) GetByID(ctx context.Context, regionID int64) (region.Region, bool, error) {
	query, args, err := qb.Select("*").From("regions").Where(qb.Eq("id", regionID)).ToSQL()
	if err != nil {
		return region.Region{}, false, fmt.Errorf("build get region query: %w", err)
	}

	var row regionTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return region.Region{}, false, nil
		}
		return region.Region{}, false, fmt.Errorf("get region: %w", err)
	}
	return regionFromRow(row), true, nil
}

func (r *regionRepository) Create(ctx context.Context, rg *region.Region) error {
	query, args, err := qb.InsertInto("regions").
		Columns("name", "code").
		Values(rg.Name, rg.Code).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert region query: %w", err)
	}

	var row regionTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert region: %w", mapWriteError(err))
	}
	rg.ID = row.ID
	rg.CreatedAt = row.CreatedAt
	return nil
}

func regionFromRow(row regionTableModel) region.Region {
	return region.Region{ID: row.ID, Name: row.Name, Code: row.Code, CreatedAt: row.CreatedAt}
}

type countyRepository struct {
	q queryer
}

func (r *countyRepository) List(ctx context.Context) ([]county.County, error) {
	return r.list(ctx)
}

func (r *countyRepository) ListByRegion(ctx context.Context, regionID int64) ([]county.County, error) {
	return r.list(ctx, qb.Eq("region_id", regionID))
}

func (r *countyRepository) list(ctx context.Context, conditions ...qb.Condition) ([]county.County, error) {
	query, args, err := qb.Select("*").From("counties").Where(conditions...).OrderBy("code").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list counties query: %w", err)
	}

	var rows []countyTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list counties: %w", err)
	}

	out := make([]county.County, 0, len(rows))
	for _, row := range rows {
		out = append(out, countyFromRow(row))
	}
	return out, nil
}

func (r *countyRepository) GetByID(ctx context.Context, countyID int64) (county.County, bool, error) {
	query, args, err := qb.Select("*").From("counties").Where(qb.Eq("id", countyID)).ToSQL()
	if err != nil {
		return county.County{}, false, fmt.Errorf("build get county query: %w", err)
	}

	var row countyTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return county.County{}, false, nil
		}
		return county.County{}, false, fmt.Errorf("get county: %w", err)
	}
	return countyFromRow(row), true, nil
}

func (r *countyRepository) Create(ctx context.Context, c *county.County) error {
	query, args, err := qb.InsertInto("counties").
		Columns("name", "code", "region_id").
		Values(c.Name, c.Code, c.RegionID).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert county query: %w", err)
	}

	var row countyTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert county: %w", mapWriteError(err))
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

func countyFromRow(row countyTableModel) county.County {
	return county.County{ID: row.ID, Name: row.Name, Code: row.Code, RegionID: row.RegionID, CreatedAt: row.CreatedAt}
}

type seasonRepository struct {
	q queryer
}

func (r *seasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").OrderBy("year DESC", "id DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *seasonRepository) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	return r.get(ctx, qb.Eq("id", seasonID))
}

func (r *seasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	return r.get(ctx, qb.Eq("is_active", true))
}

func (r *seasonRepository) get(ctx context.Context, condition qb.Condition) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").Where(condition).Limit(1).ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *seasonRepository) Create(ctx context.Context, s *season.Season) error {
	query, args, err := qb.InsertInto("seasons").
		Columns("name", "year", "is_active").
		Values(s.Name, s.Year, s.IsActive).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}

	var row seasonTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert season: %w", mapWriteError(err))
	}
	s.ID = row.ID
	s.CreatedAt = row.CreatedAt
	return nil
}

func (r *seasonRepository) Update(ctx context.Context, s season.Season) error {
	query, args, err := qb.Update("seasons").
		Set("name", s.Name).
		Set("year", s.Year).
		Set("is_active", s.IsActive).
		Where(qb.Eq("id", s.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update season query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update season: %w", mapWriteError(err))
	}
	return nil
}

func (r *seasonRepository) DeactivateAll(ctx context.Context) error {
	query, args, err := qb.Update("seasons").
		Set("is_active", false).
		Where(qb.Eq("is_active", true)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build deactivate seasons query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate seasons: %w", err)
	}
	return nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{ID: row.ID, Name: row.Name, Year: row.Year, IsActive: row.IsActive, CreatedAt: row.CreatedAt}
}

type teamRepository struct {
	q queryer
}

func (r *teamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.list(ctx)
}

func (r *teamRepository) ListByCounty(ctx context.Context, countyID int64) ([]team.Team, error) {
	return r.list(ctx, qb.Eq("county_id", countyID))
}

func (r *teamRepository) list(ctx context.Context, conditions ...qb.Condition) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").Where(conditions...).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(qb.Eq("id", teamID)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *teamRepository) Create(ctx context.Context, t *team.Team) error {
	status := t.Status
	if status == "" {
		status = team.StatusActive
	}

	query, args, err := qb.InsertInto("teams").
		Columns("name", "county_id", "region_id", "category", "status", "logo_url").
		Values(t.Name, t.CountyID, t.RegionID, t.Category, status, t.LogoURL).
		Suffix("RETURNING id, status, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert team: %w", mapWriteError(err))
	}
	t.ID = row.ID
	t.Status = row.Status
	t.CreatedAt = row.CreatedAt
	return nil
}

func (r *teamRepository) Update(ctx context.Context, t team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", t.Name).
		Set("county_id", t.CountyID).
		Set("region_id", t.RegionID).
		Set("category", t.Category).
		Set("status", t.Status).
		Set("logo_url", t.LogoURL).
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team: %w", mapWriteError(err))
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.ID,
		Name:      row.Name,
		CountyID:  row.CountyID,
		RegionID:  row.RegionID,
		Category:  row.Category,
		Status:    row.Status,
		LogoURL:   row.LogoURL,
		CreatedAt: row.CreatedAt,
	}
}

type userRepository struct {
	q queryer
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(qb.Eq("id", userID)).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return user.User{
		ID:     row.ID,
		Email:  row.Email,
		Role:   row.Role,
		TeamID: nullInt64ToInt64Ptr(row.TeamID),
	}, true, nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query, args, err := qb.InsertInto("users").
		Columns("email", "role", "team_id").
		Values(u.Email, u.Role, int64PtrToNullInt64(u.TeamID)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	var row userTableModel
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", mapWriteError(err))
	}
	u.ID = row.ID
	return nil
}
