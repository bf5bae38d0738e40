package policy

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

type owned uint

func (o owned) OwnerID() uint { return uint(o) }

func TestAllowed_Table(t *testing.T) {
	authorOnly := []Action{
		CommentModerate,
		PostCreate, PostUpdate, PostDelete,
		CategoryCreate, CategoryUpdate, CategoryDelete,
		UserList, UserManage, UserChangeRole,
	}

	for _, role := range models.Roles {
		assert.True(t, Allowed(role, CommentCreate), "%s should create comments", role)
	}

	for _, action := range authorOnly {
		assert.True(t, Allowed(models.RoleAuthor, action), "author should be allowed %s", action)
		assert.False(t, Allowed(models.RoleUser, action), "user should be denied %s", action)
		assert.False(t, Allowed(models.RoleGuest, action), "guest should be denied %s", action)
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	assert.False(t, Allowed(models.Role("admin"), CommentCreate))
	assert.False(t, Allowed("", PostCreate))
}

func TestCanActOn(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		role     models.Role
		resource Ownable
		want     bool
	}{
		{"owner guest", 7, models.RoleGuest, owned(7), true},
		{"non-owner guest", 7, models.RoleGuest, owned(8), false},
		{"non-owner user", 7, models.RoleUser, owned(8), false},
		{"non-owner author", 7, models.RoleAuthor, owned(8), true},
		{"nil resource falls back to role", 7, models.RoleGuest, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanActOn(tt.userID, tt.role, CommentModerate, tt.resource))
		})
	}
}
