package usecase

import (
	"context"
	"fmt"

	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// SeasonService maintains the one-active-season invariant: creating a season
// deactivates every prior one before the new season goes live.
type SeasonService struct {
	store  store.Store
	logger *logging.Logger
}

func NewSeasonService(st store.Store, logger *logging.Logger) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{store: st, logger: logger}
}

func (s *SeasonService) List(ctx context.Context) ([]season.Season, error) {
	items, err := s.store.Seasons().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return items, nil
}

func (s *SeasonService) Get(ctx context.Context, seasonID int64) (season.Season, error) {
	item, ok, err := s.store.Seasons().GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
	}
	return item, nil
}

func (s *SeasonService) Active(ctx context.Context) (season.Season, error) {
	item, ok, err := s.store.Seasons().GetActive(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: no active season", ErrNotFound)
	}
	return item, nil
}

func (s *SeasonService) Create(ctx context.Context, name string, year int) (season.Season, error) {
	item := season.Season{Name: name, Year: year, IsActive: true}
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Seasons().DeactivateAll(ctx); err != nil {
			return fmt.Errorf("deactivate prior seasons: %w", err)
		}
		return tx.Seasons().Create(ctx, &item)
	})
	if err != nil {
		return season.Season{}, err
	}

	s.logger.InfoContext(ctx, "season created", "season_id", item.ID, "year", year)
	return item, nil
}

// UpdateSeasonInput carries partial season changes; nil fields are left as is.
type UpdateSeasonInput struct {
	Name     *string
	Year     *int
	IsActive *bool
}

func (s *SeasonService) Update(ctx context.Context, seasonID int64, in UpdateSeasonInput) (season.Season, error) {
	var updated season.Season
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		item, ok, err := tx.Seasons().GetByID(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
		}

		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.Year != nil {
			item.Year = *in.Year
		}
		if in.IsActive != nil {
			// Activating a season deactivates the rest first.
			if *in.IsActive && !item.IsActive {
				if err := tx.Seasons().DeactivateAll(ctx); err != nil {
					return fmt.Errorf("deactivate prior seasons: %w", err)
				}
			}
			item.IsActive = *in.IsActive
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := tx.Seasons().Update(ctx, item); err != nil {
			return fmt.Errorf("update season: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return season.Season{}, err
	}
	return updated, nil
}
