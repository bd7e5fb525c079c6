package standing

import "context"

type Repository interface {
	// ListByCompetition returns the rows for a competition and season,
	// optionally narrowed to one group. Storage order is stable.
	ListByCompetition(ctx context.Context, competitionID, seasonID int64, groupName string) ([]Standing, error)
	Get(ctx context.Context, teamID, competitionID, seasonID int64) (Standing, bool, error)
	Create(ctx context.Context, s *Standing) error
	Update(ctx context.Context, s Standing) error
	DeleteByCompetition(ctx context.Context, competitionID int64) error
	DeleteAll(ctx context.Context) error
}
