package team

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListByCounty(ctx context.Context, countyID int64) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	Create(ctx context.Context, t *Team) error
	Update(ctx context.Context, t Team) error
}
