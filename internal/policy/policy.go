// Package policy holds the permission table mapping roles to the actions they may perform.
package policy

import (
	"slices"

	"inkwell/internal/models"
)

// Action names a protected operation as "resource:verb".
type Action string

const (
	CommentCreate   Action = "comment:create"
	CommentModerate Action = "comment:moderate"

	PostCreate Action = "post:create"
	PostUpdate Action = "post:update"
	PostDelete Action = "post:delete"

	CategoryCreate Action = "category:create"
	CategoryUpdate Action = "category:update"
	CategoryDelete Action = "category:delete"

	UserList       Action = "user:list"
	UserManage     Action = "user:manage"
	UserChangeRole Action = "user:change-role"
)

var permissions = map[models.Role][]Action{
	models.RoleGuest: {CommentCreate},
	models.RoleUser:  {CommentCreate},
	models.RoleAuthor: {
		CommentCreate, CommentModerate,
		PostCreate, PostUpdate, PostDelete,
		CategoryCreate, CategoryUpdate, CategoryDelete,
		UserList, UserManage, UserChangeRole,
	},
}

// Allowed reports whether role may perform action. Unknown roles are denied everything.
func Allowed(role models.Role, action Action) bool {
	return slices.Contains(permissions[role], action)
}

// Ownable is implemented by resources that belong to a single user.
type Ownable interface {
	OwnerID() uint
}

// CanActOn allows the owner of resource, and otherwise falls back to the role table.
func CanActOn(userID uint, role models.Role, action Action, resource Ownable) bool {
	if resource != nil && resource.OwnerID() == userID {
		return true
	}
	return Allowed(role, action)
}
