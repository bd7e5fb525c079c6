package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/match"
)

type matchRepository struct {
	root *Store
	tx   *data
}

func matchesFilter(m match.Match, f match.Filter) bool {
	if f.CompetitionID != 0 && m.CompetitionID != f.CompetitionID {
		return false
	}
	if f.SeasonID != 0 && m.SeasonID != f.SeasonID {
		return false
	}
	if f.TeamID != 0 && !m.HasParticipant(f.TeamID) {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.ExcludeStatus != "" && m.Status == f.ExcludeStatus {
		return false
	}
	if f.Stage != "" && m.Stage != f.Stage {
		return false
	}
	if len(f.Stages) > 0 {
		found := false
		for _, stage := range f.Stages {
			if m.Stage == stage {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Matchday != nil && (m.Matchday == nil || *m.Matchday != *f.Matchday) {
		return false
	}
	if f.GroupName != "" && m.GroupName != f.GroupName {
		return false
	}
	if f.Leg != nil && (m.Leg == nil || *m.Leg != *f.Leg) {
		return false
	}
	if f.BracketPosition != nil && (m.BracketPosition == nil || *m.BracketPosition != *f.BracketPosition) {
		return false
	}
	if f.HasBracketPosition != nil && (m.BracketPosition != nil) != *f.HasBracketPosition {
		return false
	}
	if f.Date != nil {
		if m.MatchDate == nil {
			return false
		}
		want := f.Date.UTC()
		got := m.MatchDate.UTC()
		y1, mo1, d1 := want.Date()
		y2, mo2, d2 := got.Date()
		if y1 != y2 || mo1 != mo2 || d1 != d2 {
			return false
		}
	}
	return true
}

func (r *matchRepository) List(_ context.Context, f match.Filter) ([]match.Match, error) {
	var out []match.Match
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.matchOrder {
			if m := d.matches[id]; matchesFilter(m, f) {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *matchRepository) Count(_ context.Context, f match.Filter) (int, error) {
	var n int
	err := access(r.root, r.tx, func(d *data) error {
		for _, id := range d.matchOrder {
			if matchesFilter(d.matches[id], f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *matchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	var (
		out match.Match
		ok  bool
	)
	err := access(r.root, r.tx, func(d *data) error {
		out, ok = d.matches[matchID]
		return nil
	})
	return out, ok, err
}

func (r *matchRepository) Create(_ context.Context, item *match.Match) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.competitions[item.CompetitionID]; !ok {
			return fmt.Errorf("match competition %d does not exist", item.CompetitionID)
		}
		item.ID = d.nextID()
		if item.Status == "" {
			item.Status = match.StatusScheduled
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		d.matches[item.ID] = *item
		d.matchOrder = append(d.matchOrder, item.ID)
		return nil
	})
}

func (r *matchRepository) Update(_ context.Context, item match.Match) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.matches[item.ID]; !ok {
			return fmt.Errorf("match %d does not exist", item.ID)
		}
		d.matches[item.ID] = item
		return nil
	})
}

func (r *matchRepository) Delete(_ context.Context, matchID int64) error {
	return access(r.root, r.tx, func(d *data) error {
		if _, ok := d.matches[matchID]; !ok {
			return fmt.Errorf("match %d does not exist", matchID)
		}
		delete(d.matches, matchID)
		for i, id := range d.matchOrder {
			if id == matchID {
				d.matchOrder = append(d.matchOrder[:i], d.matchOrder[i+1:]...)
				break
			}
		}
		return nil
	})
}
