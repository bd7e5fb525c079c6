package season

import (
	"fmt"
	"strings"
	"time"
)

// Season is one football year. At most one season is active at a time;
// creating a season activates it and deactivates the rest.
type Season struct {
	ID        int64
	Name      string
	Year      int
	IsActive  bool
	CreatedAt time.Time
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("season name is required")
	}
	if s.Year < 2000 || s.Year > 2100 {
		return fmt.Errorf("season year must be between 2000 and 2100")
	}

	return nil
}
