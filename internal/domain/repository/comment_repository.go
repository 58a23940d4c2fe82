package repository

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// ListByRecipe returns the recipe's comments, newest first.
	ListByRecipe(ctx context.Context, recipeID string) ([]entity.Comment, error)
	// Update writes the content only.
	Update(ctx context.Context, c *entity.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByRecipe(ctx context.Context, recipeID string) error
}
