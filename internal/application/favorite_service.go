package application

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

// FavoriteService manages a user's favorites set. Add and Remove are
// idempotent; ids that are not well formed never reach storage.
type FavoriteService struct {
	Favorites repo.FavoriteRepository
	Recipes   repo.RecipeRepository
	Users     repo.UserRepository
	IDs       repo.IDScheme
}

func NewFavoriteService(store repo.Store) *FavoriteService {
	return &FavoriteService{Favorites: store.Favorites, Recipes: store.Recipes, Users: store.Users, IDs: store.IDs}
}

func (s *FavoriteService) checkID(recipeID string) error {
	if s.IDs != nil && !s.IDs.Valid(recipeID) {
		return errs.Invalid("malformed recipe id %q", recipeID)
	}
	return nil
}

// Add puts recipeID in userID's favorites. The recipe must exist.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID string) error {
	if err := s.checkID(recipeID); err != nil {
		return err
	}
	if _, err := s.Recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}
	return s.Favorites.Add(ctx, userID, recipeID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID string) error {
	if err := s.checkID(recipeID); err != nil {
		return err
	}
	return s.Favorites.Remove(ctx, userID, recipeID)
}

// List resolves the favorited recipes. Deleted recipes are skipped.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]entity.Recipe, error) {
	list, err := s.Favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fillNames(ctx, s.Users, false, pointers(list)...); err != nil {
		return nil, err
	}
	return list, nil
}
