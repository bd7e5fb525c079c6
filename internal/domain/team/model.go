package team

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
)

const (
	CategoryMen   = "MEN"
	CategoryWomen = "WOMEN"
)

// Team is a registered club. Its region always matches its county's region.
type Team struct {
	ID        int64
	Name      string
	CountyID  int64
	RegionID  int64
	Category  string
	Status    string
	LogoURL   string
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CountyID == 0 {
		return fmt.Errorf("team county id is required")
	}
	if t.RegionID == 0 {
		return fmt.Errorf("team region id is required")
	}
	if !ValidCategory(t.Category) {
		return fmt.Errorf("invalid team category %q", t.Category)
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		return fmt.Errorf("invalid team status %q", t.Status)
	}

	return nil
}

func ValidCategory(value string) bool {
	switch value {
	case CategoryMen, CategoryWomen:
		return true
	default:
		return false
	}
}

func ValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	default:
		return false
	}
}
