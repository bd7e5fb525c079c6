package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/competition"
	"github.com/dimba-league/dimba-api/internal/domain/team"
)

type competitionRepository struct {
	root *Store
	tx   *data
}

func (r *competitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	var out []competition.Competition
	err := access(r.root, r.tx, func(d *data) error {
		out = make([]competition.Competition, 0, len(d.competitionOrder))
		for _, id := range d.competitionOrder {
			out = append(out, d.competitions[id])
		}
		return nil
	})
	return out, err
}

func (r *competitionRepository) ListBySeasonAndType(_ context.Context, seasonID int64, competitionType string) ([]competition.Competition, error) {
	var out []competition.Competition
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.competitionOrder {
			c := d.competitions[id]
			if c.SeasonID != seasonID {
				continue
			}
			if competitionType != "" && c.Type != competitionType {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

func (r *competitionRepository) GetByID(_ context.Context, competitionID int64) (competition.Competition, bool, error) {
	var (
		out competition.Competition
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.competitions[competitionID]
		return nil
	})
	return out, ok, err
}

func (r *competitionRepository) Create(_ context.Context, item *competition.Competition) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.seasons[item.SeasonID]; !ok {
			return fmt.Errorf("competition season %d does not exist", item.SeasonID)
		}
		item.ID = d.nextID()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.competitions[item.ID] = *item
		d.competitionOrder = append(d.competitionOrder, item.ID)
		return nil
	})
}

func (r *competitionRepository) Update(_ context.Context, item competition.Competition) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.competitions[item.ID]; !ok {
			return fmt.Errorf("competition %d does not exist", item.ID)
		}
		d.competitions[item.ID] = item
		return nil
	})
}

func (r *competitionRepository) Teams(_ context.Context, competitionID int64) ([]team.Team, error) {
	var out []team.Team
	err := access(r.root, r.tx, func(d *data) error {
		roster := d.rosters[competitionID]
		out = make([]team.Team, 0, len(roster))
		for _, teamID := range roster {
			if t, ok := d.teams[teamID]; ok {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

func (r *competitionRepository) AddTeam(_ context.Context, competitionID, teamID int64) (bool, error) {
	var added bool
	err := access(r.root, r.tx, func(d *data) error {
		if _, ok := d.competitions[competitionID]; !ok {
			return fmt.Errorf("competition %d does not exist", competitionID)
		}
		if _, ok := d.teams[teamID]; !ok {
			return fmt.Errorf("team %d does not exist", teamID)
		}
		for _, existing := range d.rosters[competitionID] {
			if existing == teamID {
				return nil
			}
		}
		d.rosters[competitionID] = append(d.rosters[competitionID], teamID)
		added = true
		return nil
	})
	return added, err
}

func (r *competitionRepository) CompetitionsForTeam(_ context.Context, teamID int64) ([]competition.Competition, error) {
	var out []competition.Competition
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.competitionOrder {
			for _, member := range d.rosters[id] {
				if member == teamID {
					out = append(out, d.competitions[id])
					break
				}
			}
		}
		return nil
	})
	return out, err
}
