package repository

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

// RecipeFilter narrows List. Zero values mean "no restriction".
type RecipeFilter struct {
	// Query is matched case-insensitively as a substring of the title or of
	// any ingredient.
	Query    string
	Category entity.Category
	// IDs restricts the result to the given identifiers (used after an
	// external full-text search).
	IDs []string
}

// RecipeRepository persists recipes together with their embedded ratings.
type RecipeRepository interface {
	// Create stores r and fills its ID and timestamps.
	Create(ctx context.Context, r *entity.Recipe) error
	// GetByID returns the recipe with ratings in submission order.
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// List returns matching recipes, newest first.
	List(ctx context.Context, f RecipeFilter) ([]entity.Recipe, error)
	// Update writes the editable fields (title, description, ingredients,
	// steps, category, image). The author is never written.
	Update(ctx context.Context, r *entity.Recipe) error
	Delete(ctx context.Context, id string) error
	// UpsertRating atomically replaces userID's rating on the recipe or
	// appends it. Returns errs.ErrNotFound when the recipe does not exist.
	UpsertRating(ctx context.Context, recipeID, userID string, value int) error
}
