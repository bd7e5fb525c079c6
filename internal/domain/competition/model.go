package competition

import (
	"fmt"
	"strings"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/team"
)

const (
	TypeRegional = "REGIONAL"
	TypeNational = "NATIONAL"
	TypeCup      = "CUP"
	TypeSuper    = "SUPER"
	TypeCounty   = "COUNTY"
)

// Competition is one tier of the pyramid within a season. COUNTY competitions
// carry a county and region scope, REGIONAL ones a region scope, the national
// tiers (NATIONAL, CUP, SUPER) neither.
type Competition struct {
	ID        int64
	Name      string
	Type      string
	Category  string
	SeasonID  int64
	RegionID  *int64
	CountyID  *int64
	CreatedAt time.Time
}

func (c Competition) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("competition name is required")
	}
	if !ValidType(c.Type) {
		return fmt.Errorf("invalid competition type %q", c.Type)
	}
	if !team.ValidCategory(c.Category) {
		return fmt.Errorf("invalid competition category %q", c.Category)
	}
	if c.SeasonID == 0 {
		return fmt.Errorf("competition season id is required")
	}

	switch c.Type {
	case TypeCounty:
		if c.CountyID == nil || c.RegionID == nil {
			return fmt.Errorf("county competition requires county_id and region_id")
		}
	case TypeRegional:
		if c.RegionID == nil {
			return fmt.Errorf("regional competition requires region_id")
		}
	}

	return nil
}

func ValidType(value string) bool {
	switch value {
	case TypeRegional, TypeNational, TypeCup, TypeSuper, TypeCounty:
		return true
	default:
		return false
	}
}

// SupportsLeaguePlay reports whether the type runs a round-robin league.
func SupportsLeaguePlay(competitionType string) bool {
	return competitionType == TypeRegional || competitionType == TypeCounty
}
