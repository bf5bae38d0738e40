package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	c := &models.Category{Name: "Go"}
	require.NoError(t, repo.Create(ctx, c))

	c.Name = "Golang"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Name)

	err = repo.Update(ctx, &models.Category{ID: 99, Name: "x"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	_, err = repo.GetByID(ctx, 99)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryRepository_MissingIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	a := testutil.CreateCategory(t, db, "A")
	b := testutil.CreateCategory(t, db, "B")

	missing, err := repo.MissingIDs(ctx, []uint{a.ID, 77, b.ID, 78})
	require.NoError(t, err)
	assert.Equal(t, []uint{77, 78}, missing)

	missing, err = repo.MissingIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestCategoryRepository_DeleteDetachesPosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "writer", "password1", models.RoleAuthor)
	keep := testutil.CreateCategory(t, db, "Keep")
	drop := testutil.CreateCategory(t, db, "Drop")
	post := testutil.CreatePost(t, db, author.ID, "Tagged", keep, drop)

	require.NoError(t, repo.Delete(ctx, drop.ID))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{keep.ID}, got.CategoryIDs())

	var links int64
	require.NoError(t, db.Table("post_categories").Where("category_id = ?", drop.ID).Count(&links).Error)
	assert.Zero(t, links)

	assert.True(t, models.HasCode(repo.Delete(ctx, drop.ID), models.CodeNotFound))
}
