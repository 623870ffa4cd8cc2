package models

import "fmt"

// Role is a closed set of authorization tiers. Always compare against the
// typed constants, never raw strings.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether the user has full administrative capability.
// Superuser status counts as admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// CanModerate reports whether the user may mutate other users' reviews
// and comments.
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.IsAdmin()
}
