package match

import (
	"context"
	"time"
)

// Filter narrows match queries. Nil / zero fields are ignored. TeamID matches
// either slot; Date matches the calendar day in UTC; HasBracketPosition
// selects bracket (true) or non-bracket (false) fixtures regardless of the
// concrete position.
type Filter struct {
	CompetitionID      int64
	SeasonID           int64
	TeamID             int64
	Status             string
	Stage              string
	Stages             []string
	Matchday           *int
	GroupName          string
	Leg                *int
	BracketPosition    *int
	HasBracketPosition *bool
	Date               *time.Time
	ExcludeStatus      string
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]Match, error)
	Count(ctx context.Context, f Filter) (int, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	Create(ctx context.Context, m *Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, matchID int64) error
}
