package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Recipe    primitive.ObjectID `bson:"recipe"`
	Author    primitive.ObjectID `bson:"author"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *commentDoc) toEntity() entity.Comment {
	return entity.Comment{
		ID:        d.ID.Hex(),
		RecipeID:  d.Recipe.Hex(),
		AuthorID:  d.Author.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentsCollection)}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	recipe, ok := oid(c.RecipeID)
	if !ok {
		return errs.NotFound("recipe")
	}
	author, ok := oid(c.AuthorID)
	if !ok {
		return errs.Invalid("malformed author id")
	}
	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		Recipe:    recipe,
		Author:    author,
		Content:   c.Content,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	c.ID = doc.ID.Hex()
	c.CreatedAt = doc.CreatedAt
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	o, ok := oid(id)
	if !ok {
		return nil, errs.NotFound("comment")
	}
	var doc commentDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: o}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("comment")
		}
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func (r *CommentRepository) ListByRecipe(ctx context.Context, recipeID string) ([]entity.Comment, error) {
	o, ok := oid(recipeID)
	if !ok {
		return []entity.Comment{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "recipe", Value: o}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Comment, len(docs))
	for i := range docs {
		out[i] = docs[i].toEntity()
	}
	return out, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	o, ok := oid(c.ID)
	if !ok {
		return errs.NotFound("comment")
	}
	res, err := r.coll.UpdateByID(ctx, o, bson.D{{Key: "$set", Value: bson.D{{Key: "content", Value: c.Content}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("comment")
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	o, ok := oid(id)
	if !ok {
		return errs.NotFound("comment")
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: o}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("comment")
	}
	return nil
}

func (r *CommentRepository) DeleteByRecipe(ctx context.Context, recipeID string) error {
	o, ok := oid(recipeID)
	if !ok {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, bson.D{{Key: "recipe", Value: o}})
	return err
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
