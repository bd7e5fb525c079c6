package competition

import (
	"context"

	"github.com/dimba-league/dimba-api/internal/domain/team"
)

// Repository covers competitions plus the many-to-many team roster relation.
type Repository interface {
	List(ctx context.Context) ([]Competition, error)
	ListBySeasonAndType(ctx context.Context, seasonID int64, competitionType string) ([]Competition, error)
	GetByID(ctx context.Context, competitionID int64) (Competition, bool, error)
	Create(ctx context.Context, c *Competition) error
	Update(ctx context.Context, c Competition) error

	// Teams returns the competition roster in insertion order.
	Teams(ctx context.Context, competitionID int64) ([]team.Team, error)
	// AddTeam registers a team; adding an already-registered team reports
	// added=false and is not an error.
	AddTeam(ctx context.Context, competitionID, teamID int64) (added bool, err error)
	CompetitionsForTeam(ctx context.Context, teamID int64) ([]Competition, error)
}
