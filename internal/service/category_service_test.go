package service

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestCategoryService_CachesAndInvalidates(t *testing.T) {
	mr := withRedis(t)
	f := newFixture(t)
	svc := NewCategoryService(f.cats)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Go")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(cache.CategoryListKey()))

	// A row written behind the service's back stays invisible until invalidation.
	testutil.CreateCategory(t, f.db, "Hidden")
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)
	assert.True(t, mr.Exists(cache.CategoryKey(created.ID)))

	_, err = svc.Update(ctx, created.ID, "Golang")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.CategoryKey(created.ID)))
	assert.False(t, mr.Exists(cache.CategoryListKey()))

	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Name)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestCategoryService_WorksWithoutRedis(t *testing.T) {
	cache.SetClient(nil)
	f := newFixture(t)
	svc := NewCategoryService(f.cats)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.Create(ctx, "Go")
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryService_RedisDownFallsBackToStore(t *testing.T) {
	mr := withRedis(t)
	f := newFixture(t)
	svc := NewCategoryService(f.cats)
	testutil.CreateCategory(t, f.db, "Go")

	mr.Close()
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
