package postgres

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type FavoriteRepository struct {
	db DB
}

func NewFavoriteRepository(db DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, userID, recipeID)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`, userID, recipeID)
	return err
}

// List joins recipes, so favorites pointing at deleted recipes drop out.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]entity.Recipe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recipeColumns+`
		FROM favorites f
		JOIN recipes r ON r.id = f.recipe_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	list, err := collectRecipes(rows)
	if err != nil {
		return nil, err
	}
	if err := attachRatings(ctx, r.db, list); err != nil {
		return nil, err
	}
	return list, nil
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
