package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/season"
	"github.com/dimba-league/dimba-api/internal/domain/store"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/domain/user"
)

type regionRepository struct {
	root *Store
	tx   *data
}

func (r *regionRepository) List(_ context.Context) ([]region.Region, error) {
	var out []region.Region
	err := access(r.root, r.tx, func(d *data) error {
		out = make([]region.Region, 0, len(d.regionOrder))
		for _, id := range d.regionOrder {
			out = append(out, d.regions[id])
		}
		return nil
	})
	return out, err
}

func (r *regionRepository) GetByID(_ context.Context, regionID int64) (region.Region, bool, error) {
	var (
		out region.Region
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.regions[regionID]
		return nil
	})
	return out, ok, err
}

func (r *regionRepository) Create(_ context.Context, item *region.Region) error {
	return access(r.root, r.tx, func(d *data) error {
		for _, existing := range d.regions {
			if strings.EqualFold(existing.Name, item.Name) || strings.EqualFold(existing.Code, item.Code) {
				return fmt.Errorf("region %q/%q: %w", item.Name, item.Code, store.ErrUniqueViolation)
			}
		}
		item.ID = d.nextID()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.regions[item.ID] = *item
		d.regionOrder = append(d.regionOrder, item.ID)
		return nil
	})
}

type countyRepository struct {
	root *Store
	tx   *data
}

func (r *countyRepository) List(_ context.Context) ([]county.County, error) {
	var out []county.County
	err := access(r.root, r.tx, func(d *data) error {
		out = make([]county.County, 0, len(d.countyOrder))
		for _, id := range d.countyOrder {
			out = append(out, d.counties[id])
		}
		return nil
	})
	return out, err
}

func (r *countyRepository) ListByRegion(_ context.Context, regionID int64) ([]county.County, error) {
	var out []county.County
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.countyOrder {
			if c := d.counties[id]; c.RegionID == regionID {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

func (r *countyRepository) GetByID(_ context.Context, countyID int64) (county.County, bool, error) {
	var (
		out county.County
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.counties[countyID]
		return nil
	})
	return out, ok, err
}

func (r *countyRepository) Create(_ context.Context, item *county.County) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.regions[item.RegionID]; !ok {
			return fmt.Errorf("county region %d does not exist", item.RegionID)
		}
		for _, existing := range d.counties {
			if strings.EqualFold(existing.Name, item.Name) || existing.Code == item.Code {
				return fmt.Errorf("county %q/%d: %w", item.Name, item.Code, store.ErrUniqueViolation)
			}
		}
		item.ID = d.nextID()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.counties[item.ID] = *item
		d.countyOrder = append(d.countyOrder, item.ID)
		return nil
	})
}

type seasonRepository struct {
	root *Store
	tx   *data
}

func (r *seasonRepository) List(_ context.Context) ([]season.Season, error) {
	var out []season.Season
	err := access(r.root, r.tx, func(d *data) error {
		out = make([]season.Season, 0, len(d.seasonOrder))
		for _, id := range d.seasonOrder {
			out = append(out, d.seasons[id])
		}
		return nil
	})
	return out, err
}

func (r *seasonRepository) GetByID(_ context.Context, seasonID int64) (season.Season, bool, error) {
	var (
		out season.Season
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.seasons[seasonID]
		return nil
	})
	return out, ok, err
}

func (r *seasonRepository) GetActive(_ context.Context) (season.Season, bool, error) {
	var (
		out season.Season
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.seasonOrder {
			if s := d.seasons[id]; s.IsActive {
				out, ok = s, true
				return nil
			}
		}
		return nil
	})
	return out, ok, err
}

func (r *seasonRepository) Create(_ context.Context, item *season.Season) error {
	return access(r.root, r.tx, func(d *data) error {
		item.ID = d.nextID()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.seasons[item.ID] = *item
		d.seasonOrder = append(d.seasonOrder, item.ID)
		return nil
	})
}

func (r *seasonRepository) Update(_ context.Context, item season.Season) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.seasons[item.ID]; !ok {
			return fmt.Errorf("season %d does not exist", item.ID)
		}
		d.seasons[item.ID] = item
		return nil
	})
}

func (r *seasonRepository) DeactivateAll(_ context.Context) error {
	return access(r.root, r.tx, func(d *data) error {
		for id, s := range d.seasons {
			if s.IsActive {
				s.IsActive = false
				d.seasons[id] = s
			}
		}
		return nil
	})
}

type teamRepository struct {
	root *Store
	tx   *data
}

func (r *teamRepository) List(_ context.Context) ([]team.Team, error) {
	var out []team.Team
	err := access(r.root, r.tx, func(d *data) error {
		out = make([]team.Team, 0, len(d.teamOrder))
		for _, id := range d.teamOrder {
			out = append(out, d.teams[id])
		}
		return nil
	})
	return out, err
}

func (r *teamRepository) ListByCounty(_ context.Context, countyID int64) ([]team.Team, error) {
	var out []team.Team
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.teamOrder {
			if t := d.teams[id]; t.CountyID == countyID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

func (r *teamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	var (
		out team.Team
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.teams[teamID]
		return nil
	})
	return out, ok, err
}

func (r *teamRepository) Create(_ context.Context, item *team.Team) error {
	return access(r.root, r.tx, func(d *data) error {
		c, ok := d.counties[item.CountyID]
		if !ok {
			return fmt.Errorf("team county %d does not exist", item.CountyID)
		}
		if item.RegionID != c.RegionID {
			return fmt.Errorf("team region %d does not match county region %d", item.RegionID, c.RegionID)
		}
		item.ID = d.nextID()
		if item.Status == "" {
			item.Status = team.StatusPending
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.teams[item.ID] = *item
		d.teamOrder = append(d.teamOrder, item.ID)
		return nil
	})
}

func (r *teamRepository) Update(_ context.Context, item team.Team) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.teams[item.ID]; !ok {
			return fmt.Errorf("team %d does not exist", item.ID)
		}
		d.teams[item.ID] = item
		return nil
	})
}

type userRepository struct {
	root *Store
	tx   *data
}

func (r *userRepository) GetByID(_ context.Context, userID int64) (user.User, bool, error) {
	var (
		out user.User
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.users[userID]
		return nil
	})
	return out, ok, err
}

func (r *userRepository) Create(_ context.Context, item *user.User) error {
	return access(r.root, r.tx, func(d *data) error {
		item.ID = d.nextID()
		d.users[item.ID] = *item
		return nil
	})
}
