package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "moderator", "admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}
	_, err := ParseRole("root")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	cases := []struct {
		name        string
		user        User
		isAdmin     bool
		canModerate bool
	}{
		{"user", User{Role: RoleUser}, false, false},
		{"moderator", User{Role: RoleModerator}, false, true},
		{"admin", User{Role: RoleAdmin}, true, true},
		{"superuser with user role", User{Role: RoleUser, IsSuperuser: true}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.isAdmin, tc.user.IsAdmin())
			assert.Equal(t, tc.canModerate, tc.user.CanModerate())
		})
	}
}

func TestIsAnonymous(t *testing.T) {
	assert.True(t, AnonymousUser.IsAnonymous())
	assert.False(t, (&User{}).IsAnonymous())
}
