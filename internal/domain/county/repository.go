package county

import "context"

type Repository interface {
	List(ctx context.Context) ([]County, error)
	ListByRegion(ctx context.Context, regionID int64) ([]County, error)
	GetByID(ctx context.Context, countyID int64) (County, bool, error)
	Create(ctx context.Context, c *County) error
}
