package user

const RoleAdmin = "admin"

// Principal is the authenticated caller of an admin request.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
