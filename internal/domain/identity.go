package domain

type Role string

const (
	RoleUser    Role = "ROLE_USER"
	RoleManager Role = "ROLE_MANAGER"
	RoleAdmin   Role = "ROLE_ADMIN"
)

// User is an account that places orders and books tables
type User struct {
	ID       int64
	Username string
	Email    string
	Roles    []Role
}

// Identity is the authenticated caller of an engine operation
type Identity struct {
	UserID int64
	Roles  []Role
}

func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsElevated reports whether the caller may act on resources owned by others.
func (i Identity) IsElevated() bool {
	return i.HasRole(RoleAdmin) || i.HasRole(RoleManager)
}

// CanAccess reports whether the caller owns the resource or is elevated.
func (i Identity) CanAccess(ownerID int64) bool {
	return i.UserID == ownerID || i.IsElevated()
}
