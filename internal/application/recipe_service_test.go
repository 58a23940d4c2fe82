package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

func TestRecipeCreate_RoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	before := recipesCreated.Value()

	r, err := e.recipes.Create(ctx, a.ID, sampleRecipe(), nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, recipesCreated.Value())
	assert.Contains(t, e.index.docs, r.ID)

	got, err := e.recipes.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"flour", "egg"}, got.Ingredients)
	assert.Equal(t, []string{"mix", "bake"}, got.Steps)
	assert.Equal(t, entity.CategoryDessert, got.Category)
	assert.Equal(t, a.ID, got.AuthorID)
	assert.Equal(t, "Alice", got.AuthorName)
	assert.Nil(t, got.Image)
}

func TestRecipeCreate_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User

	mutate := map[string]func(*RecipeInput){
		"short title":       func(in *RecipeInput) { in.Title = "ab" },
		"short description": func(in *RecipeInput) { in.Description = "too short" },
		"no ingredients":    func(in *RecipeInput) { in.Ingredients = []string{} },
		"blank step":        func(in *RecipeInput) { in.Steps = []string{"mix", "  "} },
		"bad category":      func(in *RecipeInput) { in.Category = "soup" },
	}
	for name, m := range mutate {
		t.Run(name, func(t *testing.T) {
			in := sampleRecipe()
			m(&in)
			_, err := e.recipes.Create(ctx, a.ID, in, pngUpload(10))
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
	assert.Empty(t, e.images.objects, "nothing uploaded when validation fails")

	list, err := e.recipes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecipeCreate_Image(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User

	r, err := e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(100))
	require.NoError(t, err)
	require.NotNil(t, r.Image)
	assert.Contains(t, e.images.objects, r.Image.StorageID)

	_, err = e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(2<<10))
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "too large")

	bad := pngUpload(10)
	bad.ContentType = "application/pdf"
	_, err = e.recipes.Create(ctx, a.ID, sampleRecipe(), bad)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	e.images.uploadErr = errs.External("upload image", errBoom)
	_, err = e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(10))
	assert.ErrorIs(t, err, errs.ErrExternalService)

	list, err := e.recipes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecipeCreate_NoImageStore(t *testing.T) {
	e := newEnv(t)
	e.recipes.Images = nil
	a := e.register(t, "Alice", "alice@example.com").User

	_, err := e.recipes.Create(context.Background(), a.ID, sampleRecipe(), pngUpload(10))
	assert.ErrorIs(t, err, errs.ErrExternalService)
}

func TestRecipeUpdate_OwnerOnlyAndAllowList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User
	r := e.createRecipe(t, a.ID)

	_, err := e.recipes.Update(ctx, b.ID, r.ID, RecipePatch{Title: strp("Stolen cake")}, nil)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	got, err := e.recipes.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate cake", got.Title)

	up, err := e.recipes.Update(ctx, a.ID, r.ID, RecipePatch{Title: strp("Lemon cake"), Category: strp("Main")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lemon cake", up.Title)
	assert.Equal(t, entity.CategoryMain, up.Category)
	assert.Equal(t, r.Description, up.Description)
	assert.Equal(t, r.Ingredients, up.Ingredients)
	assert.Equal(t, a.ID, up.AuthorID)
	assert.Equal(t, "Lemon cake", e.index.docs[r.ID].Title)

	_, err = e.recipes.Update(ctx, a.ID, r.ID, RecipePatch{Ingredients: []string{}}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = e.recipes.Update(ctx, a.ID, "00000000-0000-4000-8000-000000000000", RecipePatch{}, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRecipeUpdate_ReplacesAndRemovesImage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User

	r, err := e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(10))
	require.NoError(t, err)
	first := r.Image.StorageID

	up, err := e.recipes.Update(ctx, a.ID, r.ID, RecipePatch{}, pngUpload(20))
	require.NoError(t, err)
	require.NotNil(t, up.Image)
	assert.NotEqual(t, first, up.Image.StorageID)
	assert.Equal(t, []string{first}, e.images.deleted)

	up, err = e.recipes.Update(ctx, a.ID, r.ID, RecipePatch{RemoveImage: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, up.Image)
	assert.Empty(t, e.images.objects)
}

func TestRecipeDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User

	r, err := e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(10))
	require.NoError(t, err)
	_, err = e.comments.Create(ctx, b.ID, r.ID, CommentInput{Content: "yum"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.recipes.Delete(ctx, b.ID, r.ID), errs.ErrForbidden)
	_, err = e.recipes.Get(ctx, r.ID)
	require.NoError(t, err)

	require.NoError(t, e.recipes.Delete(ctx, a.ID, r.ID))
	_, err = e.recipes.Get(ctx, r.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Empty(t, e.images.objects)
	assert.NotContains(t, e.index.docs, r.ID)
	assert.Contains(t, e.cache.invalidated, r.ID)

	left, err := e.store.Comments.ListByRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRecipeDelete_ImageReleaseFailureDoesNotBlock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	r, err := e.recipes.Create(ctx, a.ID, sampleRecipe(), pngUpload(10))
	require.NoError(t, err)

	e.images.deleteErr = errBoom
	before := imagesOrphaned.Value()
	require.NoError(t, e.recipes.Delete(ctx, a.ID, r.ID))
	assert.Equal(t, before+1, imagesOrphaned.Value())

	_, err = e.recipes.Get(ctx, r.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRecipeSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	cake := e.createRecipe(t, a.ID)
	soupIn := sampleRecipe()
	soupIn.Title, soupIn.Category, soupIn.Ingredients = "Onion soup", "starter", []string{"onion", "Flour"}
	soup, err := e.recipes.Create(ctx, a.ID, soupIn, nil)
	require.NoError(t, err)

	// unknown category is a filter nothing satisfies
	got, err := e.recipes.Search(ctx, "", "soup")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// index answers the text match
	e.index.hits = []string{cake.ID}
	got, err = e.recipes.Search(ctx, "choco", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cake.ID, got[0].ID)
	assert.Equal(t, "Alice", got[0].AuthorName)

	e.index.hits = nil
	got, err = e.recipes.Search(ctx, "nothing", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	// index failure falls back to the store filter
	e.index.searchErr = errBoom
	got, err = e.recipes.Search(ctx, "FLOUR", "starter")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, soup.ID, got[0].ID)

	// category only never touches the index
	e.recipes.Index = nil
	got, err = e.recipes.Search(ctx, "", "dessert")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cake.ID, got[0].ID)

	all, err := e.recipes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, soup.ID, all[0].ID, "newest first")
}
