package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.comments, f.auth)
	ctx := context.Background()

	guest := testutil.CreateUser(t, f.db, "guest", "password1", models.RoleGuest)
	author := testutil.CreateUser(t, f.db, "author", "password1", models.RoleAuthor)

	t.Run("self rename and password change", func(t *testing.T) {
		updated, err := svc.Update(ctx, principal(guest), UpdateUserInput{
			UserID:   guest.ID,
			Username: ptr("guest2"),
			Password: ptr("newpassword"),
		})
		require.NoError(t, err)
		assert.Equal(t, "guest2", updated.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
	})

	t.Run("guest cannot promote self", func(t *testing.T) {
		_, err := svc.Update(ctx, principal(guest), UpdateUserInput{UserID: guest.ID, Status: ptr(models.RoleAuthor)})
		assertCode(t, err, models.CodeForbidden)

		stored, err := f.users.GetByID(ctx, guest.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleGuest, stored.Status)
	})

	t.Run("resending the current status is allowed", func(t *testing.T) {
		_, err := svc.Update(ctx, principal(guest), UpdateUserInput{UserID: guest.ID, Status: ptr(models.RoleGuest)})
		assert.NoError(t, err)
	})

	t.Run("author changes role", func(t *testing.T) {
		updated, err := svc.Update(ctx, principal(author), UpdateUserInput{UserID: guest.ID, Status: ptr(models.RoleUser)})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, updated.Status)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.Update(ctx, principal(author), UpdateUserInput{UserID: 999})
		assertCode(t, err, models.CodeNotFound)
	})
}

func TestUserService_CommentsAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.comments, f.auth)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.db, "author", "password1", models.RoleAuthor)
	reader := testutil.CreateUser(t, f.db, "reader", "password1", models.RoleUser)
	post := testutil.CreatePost(t, f.db, author.ID, "Post")
	testutil.CreateComment(t, f.db, reader.ID, post.ID, "hello")

	comments, err := svc.Comments(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Post", comments[0].Post.Title)

	_, err = svc.Comments(ctx, 999)
	assertCode(t, err, models.CodeNotFound)

	require.NoError(t, svc.Delete(ctx, reader.ID))
	assertCode(t, svc.Delete(ctx, reader.ID), models.CodeNotFound)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
