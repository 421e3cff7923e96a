package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	t.Run("set and get", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		value, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, []byte("v"), value)
	})

	t.Run("missing key is a nil value", func(t *testing.T) {
		value, err := store.Get(ctx, "absent")
		assert.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "gone", []byte("v"), time.Minute))
		assert.NoError(t, store.Delete(ctx, "gone"))
		value, _ := store.Get(ctx, "gone")
		assert.Nil(t, value)
	})

	t.Run("expired entry reads as missing", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, "ttl", []byte("v"), time.Nanosecond))
		time.Sleep(2 * time.Millisecond)
		value, _ := store.Get(ctx, "ttl")
		assert.Nil(t, value)
	})
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("computes once, then serves from cache", func(t *testing.T) {
		store := NewMemory()
		calls := 0
		compute := func(ctx context.Context) (payload, error) {
			calls++
			return payload{Name: "demo", Count: 3}, nil
		}

		first, err := GetOrCompute(ctx, store, "key", time.Minute, compute)
		assert.NoError(t, err)
		assert.Equal(t, 3, first.Count)

		second, err := GetOrCompute(ctx, store, "key", time.Minute, compute)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("compute error is returned and not cached", func(t *testing.T) {
		store := NewMemory()
		calls := 0
		compute := func(ctx context.Context) (payload, error) {
			calls++
			return payload{}, assert.AnError
		}

		_, err := GetOrCompute(ctx, store, "key", time.Minute, compute)
		assert.Equal(t, assert.AnError, err)

		_, err = GetOrCompute(ctx, store, "key", time.Minute, compute)
		assert.Equal(t, assert.AnError, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("corrupt cache entry recomputes", func(t *testing.T) {
		store := NewMemory()
		assert.NoError(t, store.Set(ctx, "key", []byte("{not json"), time.Minute))

		out, err := GetOrCompute(ctx, store, "key", time.Minute, func(ctx context.Context) (payload, error) {
			return payload{Name: "fresh"}, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "fresh", out.Name)
	})
}

func TestInvalidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, key := range []string{LotListKey(), LotSpotsKey(3), AdminDashboardKey(), UserReservationsFirstPageKey(1), UserDashboardKey(1)} {
		assert.NoError(t, store.Set(ctx, key, []byte("x"), time.Minute))
	}

	InvalidateLot(ctx, store, 3)
	for _, key := range []string{LotListKey(), LotSpotsKey(3), AdminDashboardKey()} {
		value, _ := store.Get(ctx, key)
		assert.Nil(t, value, key)
	}

	InvalidateUser(ctx, store, 1)
	for _, key := range []string{UserReservationsFirstPageKey(1), UserDashboardKey(1)} {
		value, _ := store.Get(ctx, key)
		assert.Nil(t, value, key)
	}
}
