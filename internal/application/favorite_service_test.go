package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

func TestFavorites_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r := e.createRecipe(t, a.ID)

	require.NoError(t, e.favorites.Add(ctx, a.ID, r.ID))
	require.NoError(t, e.favorites.Add(ctx, a.ID, r.ID))
	list, err := e.favorites.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, "Alice", list[0].AuthorName)

	require.NoError(t, e.favorites.Remove(ctx, a.ID, r.ID))
	require.NoError(t, e.favorites.Remove(ctx, a.ID, r.ID))
	list, err = e.favorites.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavorites_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User

	assert.ErrorIs(t, e.favorites.Add(ctx, a.ID, "not-an-id"), errs.ErrInvalidInput)
	assert.ErrorIs(t, e.favorites.Remove(ctx, a.ID, "not-an-id"), errs.ErrInvalidInput)
	assert.ErrorIs(t, e.favorites.Add(ctx, a.ID, "00000000-0000-4000-8000-000000000000"), errs.ErrNotFound)
}

func TestFavorites_DeletedRecipeIsFiltered(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User
	keep := e.createRecipe(t, a.ID)
	gone := e.createRecipe(t, a.ID)

	require.NoError(t, e.favorites.Add(ctx, b.ID, keep.ID))
	require.NoError(t, e.favorites.Add(ctx, b.ID, gone.ID))
	require.NoError(t, e.recipes.Delete(ctx, a.ID, gone.ID))

	list, err := e.favorites.List(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}
