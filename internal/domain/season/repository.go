package season

import "context"

type Repository interface {
	List(ctx context.Context) ([]Season, error)
	GetByID(ctx context.Context, seasonID int64) (Season, bool, error)
	GetActive(ctx context.Context) (Season, bool, error)
	Create(ctx context.Context, s *Season) error
	Update(ctx context.Context, s Season) error
	// DeactivateAll clears the active flag on every season. Used when a new
	// season is created so the one-active-season invariant holds.
	DeactivateAll(ctx context.Context) error
}
