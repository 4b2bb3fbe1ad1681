package identity

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is carried in the access token issued by the external identity
// service. Members book for themselves; managers additionally approve and
// act on other members' reservations.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleManager, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}
