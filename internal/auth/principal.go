package auth

import "inkwell/internal/models"

// Principal is the authenticated identity of a request. It is copied out of
// the user record once and never mutated.
type Principal struct {
	ID       uint
	Username string
	Role     models.Role
}

// PrincipalOf builds the principal for user.
func PrincipalOf(user *models.User) Principal {
	return Principal{ID: user.ID, Username: user.Username, Role: user.Status}
}
