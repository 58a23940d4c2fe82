package repository

import (
	"context"

	"github.com/google/uuid"
)

// IDScheme validates identifiers for the active backend before they reach
// storage.
type IDScheme interface {
	Valid(id string) bool
}

// UUIDScheme accepts canonical UUID strings.
type UUIDScheme struct{}

func (UUIDScheme) Valid(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Store bundles the repositories of one persistence backend.
type Store struct {
	Users     UserRepository
	Recipes   RecipeRepository
	Comments  CommentRepository
	Favorites FavoriteRepository
	IDs       IDScheme

	// Close releases the backend's connections. May be nil.
	Close func(ctx context.Context) error
}
