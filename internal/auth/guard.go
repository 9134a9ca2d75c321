package auth

import (
	"github.com/fairgrounds/registration-service/pkg/util"
)

// Self-protection checks run inside user management operations after
// authorization succeeds and before any mutation. They apply to every
// role, admins included: no account may disable or delete itself.

// CheckSelfDeactivation rejects a principal flipping its own account to
// inactive.
func CheckSelfDeactivation(p Principal, targetID string, isActive bool) error {
	if !isActive && p.ID == targetID {
		return util.NewForbidden("you cannot deactivate your own account")
	}
	return nil
}

// CheckSelfDeletion rejects a principal deleting its own account.
func CheckSelfDeletion(p Principal, targetID string) error {
	if p.ID == targetID {
		return util.NewForbidden("you cannot delete your own account")
	}
	return nil
}
