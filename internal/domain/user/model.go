package user

// Roles known to the engine. User management itself lives outside the core;
// match submission only needs the actor's role and team binding.
const (
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleCountyAdmin = "COUNTY_ADMIN"
	RoleCoach       = "COACH"
	RolePlayer      = "PLAYER"
)

// User is the slice of the account model the engine reads: who the actor is,
// what they may do, and which team a coach belongs to.
type User struct {
	ID     int64
	Email  string
	Role   string
	TeamID *int64
}

// IsAdmin reports whether the role can confirm results and run schedulers.
func (u User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleCountyAdmin
}
