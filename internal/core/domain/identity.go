package domain

// Identity is the verified payload of a bearer token. It is produced once per
// request by the auth middleware and handed to every handler that needs it.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
