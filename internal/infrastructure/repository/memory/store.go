// Package memory implements the domain store on plain maps. It backs unit
// tests and local development; the transactional contract matches the
// postgres store: WithinTx mutates a copy and swaps it in on success, so a
// failed operation leaves no partial state behind.
package memory

import (
	"context"
	"sync"

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

type data struct {
	seq int64

	regions     map[int64]region.Region
	regionOrder []int64

	counties    map[int64]county.County
	countyOrder []int64

	seasons     map[int64]season.Season
	seasonOrder []int64

	teams     map[int64]team.Team
	teamOrder []int64

	users map[int64]user.User

	competitions     map[int64]competition.Competition
	competitionOrder []int64
	// rosters holds competition -> team ids in registration order.
	rosters map[int64][]int64

	matches    map[int64]match.Match
	matchOrder []int64

	standings     map[int64]standing.Standing
	standingOrder []int64
}

func newData() *data {
	return &data{
		regions:      make(map[int64]region.Region),
		counties:     make(map[int64]county.County),
		seasons:      make(map[int64]season.Season),
		teams:        make(map[int64]team.Team),
		users:        make(map[int64]user.User),
		competitions: make(map[int64]competition.Competition),
		rosters:      make(map[int64][]int64),
		matches:      make(map[int64]match.Match),
		standings:    make(map[int64]standing.Standing),
	}
}

// clone copies every map and order slice. Entities are stored by value and
// replaced wholesale on update, so a shallow per-map copy is a safe
// transaction snapshot.
func (d *data) clone() *data {
	out := &data{
		seq:              d.seq,
		regions:          make(map[int64]region.Region, len(d.regions)),
		regionOrder:      append([]int64(nil), d.regionOrder...),
		counties:         make(map[int64]county.County, len(d.counties)),
		countyOrder:      append([]int64(nil), d.countyOrder...),
		seasons:          make(map[int64]season.Season, len(d.seasons)),
		seasonOrder:      append([]int64(nil), d.seasonOrder...),
		teams:            make(map[int64]team.Team, len(d.teams)),
		teamOrder:        append([]int64(nil), d.teamOrder...),
		users:            make(map[int64]user.User, len(d.users)),
		competitions:     make(map[int64]competition.Competition, len(d.competitions)),
		competitionOrder: append([]int64(nil), d.competitionOrder...),
		rosters:          make(map[int64][]int64, len(d.rosters)),
		matches:          make(map[int64]match.Match, len(d.matches)),
		matchOrder:       append([]int64(nil), d.matchOrder...),
		standings:        make(map[int64]standing.Standing, len(d.standings)),
		standingOrder:    append([]int64(nil), d.standingOrder...),
	}
	for k, v := range d.regions {
		out.regions[k] = v
	}
	for k, v := range d.counties {
		out.counties[k] = v
	}
	for k, v := range d.seasons {
		out.seasons[k] = v
	}
	for k, v := range d.teams {
		out.teams[k] = v
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.competitions {
		out.competitions[k] = v
	}
	for k, v := range d.rosters {
		out.rosters[k] = append([]int64(nil), v...)
	}
	for k, v := range d.matches {
		out.matches[k] = v
	}
	for k, v := range d.standings {
		out.standings[k] = v
	}
	return out
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

// Store is the mutable root. Transactions are serialized by a single mutex;
// within the lock a snapshot absorbs all writes and replaces the live data
// only when the transaction function succeeds.
type Store struct {
	mu   sync.Mutex
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

func (s *Store) Regions() region.Repository   { return &regionRepository{root: s} }
func (s *Store) Counties() county.Repository  { return &countyRepository{root: s} }
func (s *Store) Seasons() season.Repository   { return &seasonRepository{root: s} }
func (s *Store) Teams() team.Repository       { return &teamRepository{root: s} }
func (s *Store) Users() user.Repository       { return &userRepository{root: s} }
func (s *Store) Competitions() competition.Repository {
	return &competitionRepository{root: s}
}
func (s *Store) Matches() match.Repository      { return &matchRepository{root: s} }
func (s *Store) Standings() standing.Repository { return &standingRepository{root: s} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &txStore{data: snapshot}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.data = snapshot
	return nil
}

// view runs fn over the live data under the store lock. Repositories reached
// outside a transaction go through here; repositories inside a transaction
// operate on the snapshot directly.
func (s *Store) view(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// txStore serves repositories bound to an in-flight snapshot. The enclosing
// WithinTx already holds the store lock, so access is single-threaded.
type txStore struct {
	data *data
}

func (t *txStore) Regions() region.Repository   { return &regionRepository{tx: t.data} }
func (t *txStore) Counties() county.Repository  { return &countyRepository{tx: t.data} }
func (t *txStore) Seasons() season.Repository   { return &seasonRepository{tx: t.data} }
func (t *txStore) Teams() team.Repository       { return &teamRepository{tx: t.data} }
func (t *txStore) Users() user.Repository       { return &userRepository{tx: t.data} }
func (t *txStore) Competitions() competition.Repository {
	return &competitionRepository{tx: t.data}
}
func (t *txStore) Matches() match.Repository      { return &matchRepository{tx: t.data} }
func (t *txStore) Standings() standing.Repository { return &standingRepository{tx: t.data} }

// Nested transactions join the outer snapshot: writes become visible to the
// caller's transaction and commit or roll back with it.
func (t *txStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}

// access dispatches a repository call either to the live data (with lock)
// or to the transaction snapshot (lock already held).
func access(root *Store, tx *data, fn func(d *data) error) error {
	if tx != nil {
		return fn(tx)
	}
	return root.view(fn)
}
