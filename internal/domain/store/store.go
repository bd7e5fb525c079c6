package store

import (
	"context"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/domain/user"
)

// Store aggregates the typed repositories behind one transactional boundary.
// Every core operation that writes more than one entity runs inside WithinTx:
// all writes commit together or none do. Implementations serialize concurrent
// transactions touching the same rows, so no interleaving can violate a
// domain invariant.
type Store interface {
	Regions() region.Repository
	Counties() county.Repository
	Seasons() season.Repository
	Teams() team.Repository
	Competitions() competition.Repository
	Matches() match.Repository
	Standings() standing.Repository
	Users() user.Repository

	// WithinTx runs fn against a transactional view of the store. The view
	// must not be retained after fn returns. Returning an error rolls back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
