package repository

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

// FavoriteRepository is the user → recipe favorites relation. Add and Remove
// are idempotent. List resolves the recipes and silently skips references to
// recipes that no longer exist.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, recipeID string) error
	Remove(ctx context.Context, userID, recipeID string) error
	List(ctx context.Context, userID string) ([]entity.Recipe, error)
}
