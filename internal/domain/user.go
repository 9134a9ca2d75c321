package domain

import "time"

// Role enumerates back-office operator roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ValidRole reports whether the role is a recognized operator role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleModerator
}

// User models a back-office account. PasswordHash never leaves the
// service boundary.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
