package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// RegistryService manages the static side of the pyramid: regions, counties,
// and club registration. Teams enter as PENDING and an admin approves or
// suspends them.
type RegistryService struct {
	store  store.Store
	logger *logging.Logger
}

func NewRegistryService(st store.Store, logger *logging.Logger) *RegistryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistryService{store: st, logger: logger}
}

func (s *RegistryService) ListRegions(ctx context.Context) ([]region.Region, error) {
	rows, err := s.store.Regions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return rows, nil
}

func (s *RegistryService) CreateRegion(ctx context.Context, r region.Region) (region.Region, error) {
	if err := r.Validate(); err != nil {
		return region.Region{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.store.Regions().Create(ctx, &r); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return region.Region{}, fmt.Errorf("%w: region name or code already exists", ErrConflict)
		}
		return region.Region{}, fmt.Errorf("create region: %w", err)
	}
	return r, nil
}

// ListCounties returns every county, or only those of one region when
// regionID is non-zero.
func (s *RegistryService) ListCounties(ctx context.Context, regionID int64) ([]county.County, error) {
	var (
		rows []county.County
		err  error
	)
	if regionID != 0 {
		rows, err = s.store.Counties().ListByRegion(ctx, regionID)
	} else {
		rows, err = s.store.Counties().List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list counties: %w", err)
	}
	return rows, nil
}

func (s *RegistryService) CreateCounty(ctx context.Context, c county.County) (county.County, error) {
	if err := c.Validate(); err != nil {
		return county.County{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, ok, err := s.store.Regions().GetByID(ctx, c.RegionID); err != nil {
		return county.County{}, fmt.Errorf("get region: %w", err)
	} else if !ok {
		return county.County{}, fmt.Errorf("%w: region=%d", ErrNotFound, c.RegionID)
	}
	if err := s.store.Counties().Create(ctx, &c); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return county.County{}, fmt.Errorf("%w: county name or code already exists", ErrConflict)
		}
		return county.County{}, fmt.Errorf("create county: %w", err)
	}
	return c, nil
}

func (s *RegistryService) ListTeams(ctx context.Context, countyID int64) ([]team.Team, error) {
	var (
		rows []team.Team
		err  error
	)
	if countyID != 0 {
		rows, err = s.store.Teams().ListByCounty(ctx, countyID)
	} else {
		rows, err = s.store.Teams().List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return rows, nil
}

func (s *RegistryService) GetTeam(ctx context.Context, teamID int64) (team.Team, error) {
	t, ok, err := s.store.Teams().GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}
	return t, nil
}

// RegisterTeam creates a club in PENDING status. Its region is derived from
// the county so the two can never disagree.
func (s *RegistryService) RegisterTeam(ctx context.Context, t team.Team) (team.Team, error) {
	cty, ok, err := s.store.Counties().GetByID(ctx, t.CountyID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get county: %w", err)
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: county=%d", ErrNotFound, t.CountyID)
	}
	t.RegionID = cty.RegionID
	if t.Status == "" {
		t.Status = team.StatusPending
	}
	if err := t.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.store.Teams().Create(ctx, &t); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team registered", "team_id", t.ID, "county_id", t.CountyID)
	return t, nil
}

// SetTeamStatus approves or suspends a club.
func (s *RegistryService) SetTeamStatus(ctx context.Context, teamID int64, status string) (team.Team, error) {
	if !team.ValidStatus(status) {
		return team.Team{}, fmt.Errorf("%w: invalid team status %q", ErrInvalidInput, status)
	}

	var updated team.Team
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		t, ok, err := tx.Teams().GetByID(ctx, teamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
		}
		t.Status = status
		if err := tx.Teams().Update(ctx, t); err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team status changed", "team_id", teamID, "status", status)
	return updated, nil
}
