package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	calls := 0

	fetch := func(dest *item) func() error {
		return func() error {
			calls++
			*dest = item{ID: 1, Name: "Go"}
			return nil
		}
	}

	var first item
	require.NoError(t, Aside(ctx, CategoryKey(1), &first, time.Minute, fetch(&first)))
	assert.Equal(t, "Go", first.Name)
	assert.True(t, mr.Exists(CategoryKey(1)))

	var second item
	require.NoError(t, Aside(ctx, CategoryKey(1), &second, time.Minute, fetch(&second)))
	assert.Equal(t, "Go", second.Name)
	assert.Equal(t, 1, calls, "second read must be served from redis")
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupRedis(t)
	var dest item

	err := Aside(context.Background(), CategoryKey(2), &dest, time.Minute, func() error {
		return errors.New("db down")
	})

	assert.Error(t, err)
	assert.False(t, mr.Exists(CategoryKey(2)))
}

func TestAside_WithoutRedisCallsFetch(t *testing.T) {
	SetClient(nil)
	var dest []item

	err := Aside(context.Background(), CategoryListKey(), &dest, time.Minute, func() error {
		dest = []item{{ID: 1, Name: "Go"}}
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, dest, 1)
}

func TestInvalidateCategory(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, CategoryKey(3), item{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, CategoryListKey(), []item{{ID: 3}}, time.Minute))

	InvalidateCategory(ctx, 3)

	assert.False(t, mr.Exists(CategoryKey(3)))
	assert.False(t, mr.Exists(CategoryListKey()))
}

func TestInitRedis_Unreachable(t *testing.T) {
	defer SetClient(nil)
	assert.Nil(t, InitRedis("127.0.0.1:1"))
	assert.Nil(t, GetClient())
}

func TestSetClient_CountsFailedCommandsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	c := InitRedis(mr.Addr())
	require.NotNil(t, c)
	SetClient(c)
	defer SetClient(nil)

	failures := middleware.RedisErrors.WithLabelValues("get")
	before := promtest.ToFloat64(failures)

	mr.Close()
	require.Error(t, c.Get(context.Background(), "missing").Err())

	assert.Equal(t, before+1, promtest.ToFloat64(failures))
}
