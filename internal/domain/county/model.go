package county

import (
	"fmt"
	"strings"
	"time"
)

// County belongs to exactly one region and hosts the lowest league tier.
type County struct {
	ID        int64
	Name      string
	Code      int
	RegionID  int64
	CreatedAt time.Time
}

func (c County) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("county name is required")
	}
	if c.Code <= 0 {
		return fmt.Errorf("county code must be a positive integer")
	}
	if c.RegionID == 0 {
		return fmt.Errorf("county region id is required")
	}

	return nil
}
