package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewCommentService(f.comments, f.posts)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.db, "author", "password1", models.RoleAuthor)
	guest := testutil.CreateUser(t, f.db, "guest", "password1", models.RoleGuest)
	post := testutil.CreatePost(t, f.db, author.ID, "Post")

	c, err := svc.Create(ctx, principal(guest), CreateCommentInput{PostID: post.ID, Body: "First!"})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, c.UserID)
	assert.Equal(t, "guest", c.User.Username)
	assert.Equal(t, "Post", c.Post.Title)
	assert.False(t, c.Date.IsZero())

	updated, err := svc.Update(ctx, UpdateCommentInput{PostID: post.ID, CommentID: c.ID, Body: "Edited"})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Body)

	list, err := svc.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, post.ID, c.ID))
	_, err = svc.Get(ctx, post.ID, c.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestCommentService_MissingPost(t *testing.T) {
	f := newFixture(t)
	svc := NewCommentService(f.comments, f.posts)
	ctx := context.Background()
	guest := testutil.CreateUser(t, f.db, "guest", "password1", models.RoleGuest)

	_, err := svc.Create(ctx, principal(guest), CreateCommentInput{PostID: 404, Body: "hi"})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.ListByPost(ctx, 404)
	assertCode(t, err, models.CodeNotFound)

	assertCode(t, svc.Delete(ctx, 404, 1), models.CodeNotFound)
}

func TestCommentService_CreateRequiresBody(t *testing.T) {
	f := newFixture(t)
	svc := NewCommentService(f.comments, f.posts)
	_, err := svc.Create(context.Background(), principal(&models.User{ID: 1}), CreateCommentInput{PostID: 1})
	assertCode(t, err, models.CodeValidation)
}
