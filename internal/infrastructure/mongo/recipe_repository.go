package mongo

import (
	"context"
	"errors"
	"regexp"
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

type imageDoc struct {
	StorageID string `bson:"storage_id"`
	URL       string `bson:"url"`
}

type ratingDoc struct {
	User  primitive.ObjectID `bson:"user"`
	Value int                `bson:"value"`
}

type recipeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Ingredients []string           `bson:"ingredients"`
	Steps       []string           `bson:"steps"`
	Category    string             `bson:"category"`
	Image       *imageDoc          `bson:"image,omitempty"`
	Author      primitive.ObjectID `bson:"author"`
	Ratings     []ratingDoc        `bson:"ratings"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *recipeDoc) toEntity() entity.Recipe {
	rec := entity.Recipe{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
		Category:    entity.Category(d.Category),
		AuthorID:    d.Author.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Image != nil {
		rec.Image = &entity.Image{StorageID: d.Image.StorageID, URL: d.Image.URL}
	}
	for _, rt := range d.Ratings {
		rec.Ratings = append(rec.Ratings, entity.Rating{UserID: rt.User.Hex(), Value: rt.Value})
	}
	return rec
}

func toImageDoc(img *entity.Image) *imageDoc {
	if img == nil {
		return nil
	}
	return &imageDoc{StorageID: img.StorageID, URL: img.URL}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type RecipeRepository struct {
	coll *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{coll: db.Collection(recipesCollection)}
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	author, ok := oid(rec.AuthorID)
	if !ok {
		return errs.Invalid("malformed author id")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := recipeDoc{
		ID:          primitive.NewObjectID(),
		Title:       rec.Title,
		Description: rec.Description,
		Ingredients: nonNil(rec.Ingredients),
		Steps:       nonNil(rec.Steps),
		Category:    string(rec.Category),
		Image:       toImageDoc(rec.Image),
		Author:      author,
		Ratings:     []ratingDoc{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	rec.ID = doc.ID.Hex()
	rec.CreatedAt, rec.UpdatedAt = now, now
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	o, ok := oid(id)
	if !ok {
		return nil, errs.NotFound("recipe")
	}
	var doc recipeDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: o}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("recipe")
		}
		return nil, err
	}
	rec := doc.toEntity()
	return &rec, nil
}

func recipeFilter(f repository.RecipeFilter) bson.D {
	filter := bson.D{}
	if q := strings.TrimSpace(f.Query); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "ingredients", Value: re}},
		}})
	}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: string(f.Category)})
	}
	if len(f.IDs) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$in", Value: oids(f.IDs)}}})
	}
	return filter
}

func (r *RecipeRepository) List(ctx context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	return findRecipes(ctx, r.coll, recipeFilter(f))
}

func findRecipes(ctx context.Context, coll *mongo.Collection, filter bson.D) ([]entity.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []recipeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Recipe, len(docs))
	for i := range docs {
		out[i] = docs[i].toEntity()
	}
	return out, nil
}

func (r *RecipeRepository) Update(ctx context.Context, rec *entity.Recipe) error {
	o, ok := oid(rec.ID)
	if !ok {
		return errs.NotFound("recipe")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.D{
		{Key: "title", Value: rec.Title},
		{Key: "description", Value: rec.Description},
		{Key: "ingredients", Value: nonNil(rec.Ingredients)},
		{Key: "steps", Value: nonNil(rec.Steps)},
		{Key: "category", Value: string(rec.Category)},
		{Key: "updated_at", Value: now},
	}
	if rec.Image != nil {
		set = append(set, bson.E{Key: "image", Value: toImageDoc(rec.Image)})
	}
	update := bson.D{{Key: "$set", Value: set}}
	if rec.Image == nil {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "image", Value: ""}}})
	}
	res, err := r.coll.UpdateByID(ctx, o, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("recipe")
	}
	rec.UpdatedAt = now
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	o, ok := oid(id)
	if !ok {
		return errs.NotFound("recipe")
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: o}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("recipe")
	}
	return nil
}

// UpsertRating never reads the ratings array back into the process. The
// positional $set rewrites an existing entry where it sits; the $push is
// guarded by $ne so two first-time submissions cannot both append. If the
// push loses that race the entry now exists and the $set is retried.
func (r *RecipeRepository) UpsertRating(ctx context.Context, recipeID, userID string, value int) error {
	rid, ok := oid(recipeID)
	if !ok {
		return errs.NotFound("recipe")
	}
	uid, ok := oid(userID)
	if !ok {
		return errs.Invalid("malformed user id")
	}

	replace := func() (bool, error) {
		res, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: rid}, {Key: "ratings.user", Value: uid}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "ratings.$.value", Value: value}}}},
		)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	done, err := replace()
	if err != nil || done {
		return err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: rid}, {Key: "ratings.user", Value: bson.D{{Key: "$ne", Value: uid}}}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "ratings", Value: ratingDoc{User: uid, Value: value}}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	done, err = replace()
	if err != nil {
		return err
	}
	if !done {
		return errs.NotFound("recipe")
	}
	return nil
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
