package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type userDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Name       string               `bson:"name"`
	Email      string               `bson:"email"`
	EmailLower string               `bson:"email_lower"`
	Password   string               `bson:"password_hash"`
	Favorites  []primitive.ObjectID `bson:"favorites,omitempty"`
	CreatedAt  time.Time            `bson:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

func (d *userDoc) toEntity() entity.User {
	return entity.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

var userProjection = bson.D{{Key: "favorites", Value: 0}}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDoc{
		ID:         primitive.NewObjectID(),
		Name:       u.Name,
		Email:      u.Email,
		EmailLower: strings.ToLower(u.Email),
		Password:   u.Password,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Conflict("email already in use")
		}
		return err
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(userProjection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user")
		}
		return nil, err
	}
	u := doc.toEntity()
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	o, ok := oid(id)
	if !ok {
		return nil, errs.NotFound("user")
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: o}})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	keys := oids(ids)
	if len(keys) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: keys}}}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email_lower", Value: strings.ToLower(email)}})
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.find(ctx, bson.D{})
}

func (r *UserRepository) find(ctx context.Context, filter bson.D) ([]entity.User, error) {
	opts := options.Find().SetProjection(userProjection).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.User, len(docs))
	for i := range docs {
		out[i] = docs[i].toEntity()
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	o, ok := oid(u.ID)
	if !ok {
		return errs.NotFound("user")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.coll.UpdateByID(ctx, o, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "email_lower", Value: strings.ToLower(u.Email)},
		{Key: "password_hash", Value: u.Password},
		{Key: "updated_at", Value: now},
	}}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Conflict("email already in use")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("user")
	}
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	o, ok := oid(id)
	if !ok {
		return errs.NotFound("user")
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: o}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("user")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
