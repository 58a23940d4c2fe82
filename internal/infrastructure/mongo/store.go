// Package mongo stores the cookbook in MongoDB. Ratings live embedded in the
// recipe document and favorites in the user document, which is the shape the
// document model suggests.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

const (
	usersCollection    = "users"
	recipesCollection  = "recipes"
	commentsCollection = "comments"
)

// Connect opens a client and verifies the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// index on email_lower is what turns a duplicate registration into a
// conflict.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_lower", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(recipesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "ingredients", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := db.Collection(commentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipe", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// NewStore wires the mongo repositories on db. Close disconnects the client
// that owns db.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Users:     NewUserRepository(db),
		Recipes:   NewRecipeRepository(db),
		Comments:  NewCommentRepository(db),
		Favorites: NewFavoriteRepository(db),
		IDs:       ObjectIDScheme{},
		Close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// ObjectIDScheme accepts 24 character hex object ids.
type ObjectIDScheme struct{}

func (ObjectIDScheme) Valid(id string) bool { return primitive.IsValidObjectID(id) }

func oid(id string) (primitive.ObjectID, bool) {
	o, err := primitive.ObjectIDFromHex(id)
	return o, err == nil
}

func oids(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if o, ok := oid(id); ok {
			out = append(out, o)
		}
	}
	return out
}
