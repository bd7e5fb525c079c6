package postgres

import (
	"database/sql"
	"time"
)

type regionTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}

type countyTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Code      int       `db:"code"`
	RegionID  int64     `db:"region_id"`
	CreatedAt time.Time `db:"created_at"`
}

type seasonTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Year      int       `db:"year"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CountyID  int64     `db:"county_id"`
	RegionID  int64     `db:"region_id"`
	Category  string    `db:"category"`
	Status    string    `db:"status"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
}

type userTableModel struct {
	ID     int64         `db:"id"`
	Email  string        `db:"email"`
	Role   string        `db:"role"`
	TeamID sql.NullInt64 `db:"team_id"`
}
