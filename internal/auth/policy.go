package auth

import "github.com/fairgrounds/registration-service/internal/domain"

// Action identifies a resource class and operation subject to authorization.
type Action string

const (
	ActionCreateRegistration Action = "registration:create"
	ActionReadRegistration   Action = "registration:read"
	ActionListRegistrations  Action = "registration:list"
	ActionUpdateRegistration Action = "registration:update"
	ActionDeleteRegistration Action = "registration:delete"
	ActionReadDashboardStats Action = "stats:read"
	ActionManageUsers        Action = "users:manage"
)

// Decision is the verdict of the authorization policy.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Principal represents the caller of an operation. The zero value is the
// anonymous public. Deactivated accounts never become principals; the
// middleware downgrades them to anonymous before any policy check.
type Principal struct {
	ID   string
	Role domain.Role
	User *domain.User
}

// Anonymous is the unauthenticated principal.
var Anonymous = Principal{}

// IsAnonymous reports whether the principal carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}

// Authorize is the single decision function gating every operation. It is
// pure and total: every principal/action pair has a defined outcome, and
// anything not explicitly allowed is denied. Public submission is the only
// write open to the anonymous public; user administration is admin-only so
// moderators cannot escalate their own privileges.
func Authorize(p Principal, action Action) Decision {
	switch action {
	case ActionCreateRegistration:
		return Allow
	case ActionReadRegistration,
		ActionListRegistrations,
		ActionUpdateRegistration,
		ActionDeleteRegistration,
		ActionReadDashboardStats:
		if p.Role == domain.RoleModerator || p.Role == domain.RoleAdmin {
			return Allow
		}
	case ActionManageUsers:
		if p.Role == domain.RoleAdmin {
			return Allow
		}
	}
	return Deny
}
