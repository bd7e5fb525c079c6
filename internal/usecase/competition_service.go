package usecase

import (
	"context"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// CompetitionService covers competition CRUD and roster membership.
type CompetitionService struct {
	store  store.Store
	logger *logging.Logger
}

func NewCompetitionService(st store.Store, logger *logging.Logger) *CompetitionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CompetitionService{store: st, logger: logger}
}

func (s *CompetitionService) List(ctx context.Context) ([]competition.Competition, error) {
	items, err := s.store.Competitions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return items, nil
}

func (s *CompetitionService) Get(ctx context.Context, competitionID int64) (competition.Competition, error) {
	item, ok, err := s.store.Competitions().GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
	}
	return item, nil
}

// CreateCompetitionInput is a new pyramid tier within a season.
type CreateCompetitionInput struct {
	Name     string `validate:"required,min=3,max=120"`
	Type     string `validate:"required"`
	Category string `validate:"required"`
	SeasonID int64  `validate:"required"`
	RegionID *int64 `validate:"omitempty"`
	CountyID *int64 `validate:"omitempty"`
}

func (s *CompetitionService) Create(ctx context.Context, in CreateCompetitionInput) (competition.Competition, error) {
	item := competition.Competition{
		Name:     in.Name,
		Type:     in.Type,
		Category: in.Category,
		SeasonID: in.SeasonID,
		RegionID: in.RegionID,
		CountyID: in.CountyID,
	}
	if err := item.Validate(); err != nil {
		return competition.Competition{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, ok, err := s.store.Seasons().GetByID(ctx, in.SeasonID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: season=%d", ErrNotFound, in.SeasonID)
	}

	if err := s.store.Competitions().Create(ctx, &item); err != nil {
		return competition.Competition{}, fmt.Errorf("create competition: %w", err)
	}

	s.logger.InfoContext(ctx, "competition created",
		"competition_id", item.ID, "type", item.Type, "season_id", item.SeasonID)
	return item, nil
}

// UpdateCompetitionInput carries partial changes; nil fields keep their value.
type UpdateCompetitionInput struct {
	Name     *string
	Type     *string
	Category *string
}

func (s *CompetitionService) Update(ctx context.Context, competitionID int64, in UpdateCompetitionInput) (competition.Competition, error) {
	var updated competition.Competition
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		item, ok, err := tx.Competitions().GetByID(ctx, competitionID)
		if err != nil {
			return fmt.Errorf("get competition: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}

		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.Type != nil {
			item.Type = *in.Type
		}
		if in.Category != nil {
			item.Category = *in.Category
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := tx.Competitions().Update(ctx, item); err != nil {
			return fmt.Errorf("update competition: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return competition.Competition{}, err
	}
	return updated, nil
}

func (s *CompetitionService) Teams(ctx context.Context, competitionID int64) ([]team.Team, error) {
	if _, err := s.Get(ctx, competitionID); err != nil {
		return nil, err
	}
	items, err := s.store.Competitions().Teams(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list competition teams: %w", err)
	}
	return items, nil
}

// AddTeams registers teams with a competition. Already-registered teams are
// skipped; the returned count is how many were actually added.
func (s *CompetitionService) AddTeams(ctx context.Context, competitionID int64, teamIDs []int64) (int, error) {
	if len(teamIDs) == 0 {
		return 0, fmt.Errorf("%w: at least one team id is required", ErrInvalidInput)
	}

	added := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, ok, err := tx.Competitions().GetByID(ctx, competitionID); err != nil {
			return fmt.Errorf("get competition: %w", err)
		} else if !ok {
			return fmt.Errorf("%w: competition=%d", ErrNotFound, competitionID)
		}

		for _, teamID := range teamIDs {
			if _, ok, err := tx.Teams().GetByID(ctx, teamID); err != nil {
				return fmt.Errorf("get team: %w", err)
			} else if !ok {
				return fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
			}
			ok, err := tx.Competitions().AddTeam(ctx, competitionID, teamID)
			if err != nil {
				return fmt.Errorf("add team %d: %w", teamID, err)
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
