package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/match"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/domain/user"
)

// Store implements store.Store on PostgreSQL. The zero-value q is the pooled
// connection; WithinTx swaps it for a transaction so every repository method
// runs against the same snapshot.
type Store struct {
	db *sqlx.DB
	q  queryer
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Regions() region.Repository           { return &regionRepository{q: s.q} }
func (s *Store) Counties() county.Repository          { return &countyRepository{q: s.q} }
func (s *Store) Seasons() season.Repository           { return &seasonRepository{q: s.q} }
func (s *Store) Teams() team.Repository               { return &teamRepository{q: s.q} }
func (s *Store) Competitions() competition.Repository { return &competitionRepository{q: s.q} }
func (s *Store) Matches() match.Repository            { return &matchRepository{q: s.q} }
func (s *Store) Standings() standing.Repository       { return &standingRepository{q: s.q} }
func (s *Store) Users() user.Repository               { return &userRepository{q: s.q} }

// WithinTx opens a transaction and hands fn a store bound to it. Nested calls
// join the ambient transaction rather than opening a second one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
