package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

func TestRatingSubmit_ReplacesInPlace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User
	r := e.createRecipe(t, a.ID)

	_, err := e.ratings.Submit(ctx, a.ID, r.ID, 2)
	require.NoError(t, err)
	_, err = e.ratings.Submit(ctx, b.ID, r.ID, 4)
	require.NoError(t, err)
	got, err := e.ratings.Submit(ctx, a.ID, r.ID, 5)
	require.NoError(t, err)

	require.Len(t, got.Ratings, 2)
	assert.Equal(t, entity.Rating{UserID: a.ID, UserName: "Alice", Value: 5}, got.Ratings[0])
	assert.Equal(t, entity.Rating{UserID: b.ID, UserName: "Bob", Value: 4}, got.Ratings[1])

	// same value again leaves the count unchanged
	got, err = e.ratings.Submit(ctx, a.ID, r.ID, 5)
	require.NoError(t, err)
	assert.Len(t, got.Ratings, 2)
}

func TestRatingSubmit_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r := e.createRecipe(t, a.ID)

	for _, v := range []int{0, 6, -1} {
		_, err := e.ratings.Submit(ctx, a.ID, r.ID, v)
		assert.ErrorIs(t, err, errs.ErrInvalidInput, "value %d", v)
	}
	_, err := e.ratings.Submit(ctx, a.ID, "00000000-0000-4000-8000-000000000000", 3)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// validation comes before the existence check
	_, err = e.ratings.Submit(ctx, a.ID, "00000000-0000-4000-8000-000000000000", 9)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestRatingAggregate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r := e.createRecipe(t, a.ID)

	sum, err := e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Average: 0, Total: 0}, sum)
	assert.Contains(t, e.cache.m, r.ID)

	for i, v := range []int{4, 5, 3} {
		_, err := e.ratings.Submit(ctx, fmt.Sprintf("user-%d", i), r.ID, v)
		require.NoError(t, err)
	}
	assert.Contains(t, e.cache.invalidated, r.ID)

	sum, err = e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Average: 4.0, Total: 3}, sum)

	// served from the cache
	e.cache.m[r.ID] = entity.RatingSummary{Average: 1, Total: 1}
	sum, err = e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)

	_, err = e.ratings.Aggregate(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRatingSubmit_Concurrent(t *testing.T) {
	e := newEnv(t)
	e.ratings.Cache = nil
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r := e.createRecipe(t, a.ID)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.ratings.Submit(ctx, fmt.Sprintf("user-%d", i%10), r.ID, 1+i%5)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sum, err := e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Total)
}

func TestRatingAggregate_RatingDuringComputeIsNotCached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User
	r := e.createRecipe(t, a.ID)
	_, err := e.ratings.Submit(ctx, a.ID, r.ID, 2)
	require.NoError(t, err)

	// Bob rates after the summary was read from the store but before it is cached
	e.cache.beforeSet = func() {
		_, err := e.ratings.Submit(ctx, b.ID, r.ID, 4)
		require.NoError(t, err)
	}
	sum, err := e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
	assert.NotContains(t, e.cache.m, r.ID)

	sum, err = e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Average: 3.0, Total: 2}, sum)
	assert.Equal(t, sum, e.cache.m[r.ID])
}

func TestRatingAggregate_DeleteDuringComputeIsNotCached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r := e.createRecipe(t, a.ID)
	_, err := e.ratings.Submit(ctx, a.ID, r.ID, 5)
	require.NoError(t, err)

	e.cache.beforeSet = func() {
		require.NoError(t, e.recipes.Delete(ctx, a.ID, r.ID))
	}
	_, err = e.ratings.Aggregate(ctx, r.ID)
	require.NoError(t, err)
	assert.NotContains(t, e.cache.m, r.ID)

	_, err = e.ratings.Aggregate(ctx, r.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
