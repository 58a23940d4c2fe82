package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

// FavoriteRepository keeps favorites as a set of recipe ids on the user
// document.
type FavoriteRepository struct {
	users   *mongo.Collection
	recipes *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{
		users:   db.Collection(usersCollection),
		recipes: db.Collection(recipesCollection),
	}
}

func (r *FavoriteRepository) modify(ctx context.Context, userID, recipeID, op string) error {
	uid, ok := oid(userID)
	if !ok {
		return errs.NotFound("user")
	}
	rid, ok := oid(recipeID)
	if !ok {
		return errs.Invalid("malformed recipe id")
	}
	res, err := r.users.UpdateByID(ctx, uid, bson.D{{Key: op, Value: bson.D{{Key: "favorites", Value: rid}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("user")
	}
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID string) error {
	return r.modify(ctx, userID, recipeID, "$addToSet")
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID string) error {
	return r.modify(ctx, userID, recipeID, "$pull")
}

// List resolves the stored ids with $in; ids whose recipe was deleted simply
// match nothing.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]entity.Recipe, error) {
	uid, ok := oid(userID)
	if !ok {
		return nil, errs.NotFound("user")
	}
	var doc userDoc
	opts := options.FindOne().SetProjection(bson.D{{Key: "favorites", Value: 1}})
	if err := r.users.FindOne(ctx, bson.D{{Key: "_id", Value: uid}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user")
		}
		return nil, err
	}
	if len(doc.Favorites) == 0 {
		return []entity.Recipe{}, nil
	}
	return findRecipes(ctx, r.recipes, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: doc.Favorites}}}})
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
