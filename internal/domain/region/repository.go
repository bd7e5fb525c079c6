package region

import "context"

// Repository describes region persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Region, error)
	GetByID(ctx context.Context, regionID int64) (Region, bool, error)
	Create(ctx context.Context, r *Region) error
}
