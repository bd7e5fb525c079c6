package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/standing"
	"github.com/dimba-league/dimba-api/internal/domain/store"
)

type standingRepository struct {
	root *Store
	tx   *data
}

func (r *standingRepository) ListByCompetition(_ context.Context, competitionID, seasonID int64, groupName string) ([]standing.Standing, error) {
	var out []standing.Standing
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.standingOrder {
			s := d.standings[id]
			if s.CompetitionID != competitionID || s.SeasonID != seasonID {
				continue
			}
			if groupName != "" && s.GroupName != groupName {
				continue
			}
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

func (r *standingRepository) Get(_ context.Context, teamID, competitionID, seasonID int64) (standing.Standing, bool, error) {
	var (
		out standing.Standing
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.standingOrder {
			s := d.standings[id]
			if s.TeamID == teamID && s.CompetitionID == competitionID && s.SeasonID == seasonID {
				out, ok = s, true
				return nil
			}
		}
		return nil
	})
	return out, ok, err
}

func (r *standingRepository) Create(_ context.Context, item *standing.Standing) error {
	return access(r.root, r.tx, func(d *data) error {
		for _, id := range d.standingOrder {
			s := d.standings[id]
			if s.TeamID == item.TeamID && s.CompetitionID == item.CompetitionID && s.SeasonID == item.SeasonID {
				return fmt.Errorf("standing team=%d competition=%d season=%d: %w",
					item.TeamID, item.CompetitionID, item.SeasonID, store.ErrUniqueViolation)
			}
		}
		item.ID = d.nextID()
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = time.Now().UTC()
		}
		d.standings[item.ID] = *item
		d.standingOrder = append(d.standingOrder, item.ID)
		return nil
	})
}

func (r *standingRepository) Update(_ context.Context, item standing.Standing) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.standings[item.ID]; !ok {
			return fmt.Errorf("standing %d does not exist", item.ID)
		}
		item.UpdatedAt = time.Now().UTC()
		d.standings[item.ID] = item
		return nil
	})
}

func (r *standingRepository) DeleteByCompetition(_ context.Context, competitionID int64) error {
	return access(r.root, r.tx, func(d *data) error {
		kept := d.standingOrder[:0]
		for _, id := range d.standingOrder {
			if d.standings[id].CompetitionID == competitionID {
				delete(d.standings, id)
				continue
			}
			kept = append(kept, id)
		}
		d.standingOrder = kept
		return nil
	})
}

func (r *standingRepository) DeleteAll(_ context.Context) error {
	return access(r.root, r.tx, func(d *data) error {
		d.standings = make(map[int64]standing.Standing)
		d.standingOrder = nil
		return nil
	})
}
