package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairgrounds/registration-service/pkg/util"
)

func TestCheckSelfDeactivation(t *testing.T) {
	t.Run("own account", func(t *testing.T) {
		for _, p := range []Principal{admin(), moderator()} {
			err := CheckSelfDeactivation(p, p.ID, false)
			assert.True(t, util.IsCode(err, "FORBIDDEN"), "role %s", p.Role)
		}
	})

	t.Run("other account", func(t *testing.T) {
		assert.NoError(t, CheckSelfDeactivation(admin(), "someone-else", false))
	})

	t.Run("activating own account", func(t *testing.T) {
		// Only the deactivation direction is guarded.
		p := admin()
		assert.NoError(t, CheckSelfDeactivation(p, p.ID, true))
	})
}

func TestCheckSelfDeletion(t *testing.T) {
	for _, p := range []Principal{admin(), moderator()} {
		err := CheckSelfDeletion(p, p.ID)
		assert.True(t, util.IsCode(err, "FORBIDDEN"), "role %s", p.Role)
	}

	assert.NoError(t, CheckSelfDeletion(admin(), "someone-else"))
}
