package region

import (
	"fmt"
	"strings"
	"time"
)

// Region is one of the seven administrative regions in the pyramid.
type Region struct {
	ID        int64
	Name      string
	Code      string
	CreatedAt time.Time
}

func (r Region) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("region name is required")
	}
	code := strings.TrimSpace(r.Code)
	if len(code) < 2 || len(code) > 3 {
		return fmt.Errorf("region code must be 2-3 characters")
	}

	return nil
}
