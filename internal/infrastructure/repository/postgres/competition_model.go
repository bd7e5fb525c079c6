package postgres

import (
	"database/sql"
	"time"
)

type competitionTableModel struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	Type      string        `db:"type"`
	Category  string        `db:"category"`
	SeasonID  int64         `db:"season_id"`
	RegionID  sql.NullInt64 `db:"region_id"`
	CountyID  sql.NullInt64 `db:"county_id"`
	CreatedAt time.Time     `db:"created_at"`
}
