package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

const recipeColumns = `r.id::text, r.title, r.description, r.ingredients, r.steps, r.category,
	r.image_storage_id, r.image_url, r.author_id::text, r.created_at, r.updated_at`

type RecipeRepository struct {
	db DB
}

func NewRecipeRepository(db DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func scanRecipe(row pgx.Row) (entity.Recipe, error) {
	var (
		rec               entity.Recipe
		category          string
		storageID, imgURL *string
	)
	err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Ingredients, &rec.Steps, &category,
		&storageID, &imgURL, &rec.AuthorID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	rec.Category = entity.Category(category)
	if storageID != nil && *storageID != "" {
		rec.Image = &entity.Image{StorageID: *storageID}
		if imgURL != nil {
			rec.Image.URL = *imgURL
		}
	}
	return rec, nil
}

func imageArgs(img *entity.Image) (storageID, url *string) {
	if img == nil {
		return nil, nil
	}
	return &img.StorageID, &img.URL
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	storageID, url := imageArgs(rec.Image)
	row := r.db.QueryRow(ctx, `
		INSERT INTO recipes (title, description, ingredients, steps, category, image_storage_id, image_url, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, rec.Title, rec.Description, rec.Ingredients, rec.Steps, string(rec.Category), storageID, url, rec.AuthorID)
	return row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, errs.NotFound("recipe")
		}
		return nil, err
	}
	list := []entity.Recipe{rec}
	if err := attachRatings(ctx, r.db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *RecipeRepository) List(ctx context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	var ids []string
	if len(f.IDs) > 0 {
		ids = f.IDs
	}
	pattern := ""
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern = "%" + likeEscaper.Replace(q) + "%"
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		WHERE ($1::text = '' OR r.title ILIKE $1
		       OR EXISTS (SELECT 1 FROM unnest(r.ingredients) AS ing WHERE ing ILIKE $1))
		  AND ($2::text = '' OR r.category = $2)
		  AND ($3::uuid[] IS NULL OR r.id = ANY($3::uuid[]))
		ORDER BY r.created_at DESC, r.id
	`, pattern, string(f.Category), ids)
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

func collectRecipes(rows pgx.Rows) ([]entity.Recipe, error) {
	defer rows.Close()
	out := []entity.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// attachRatings loads the ratings of every recipe in list with one query,
// keeping submission order.
func attachRatings(ctx context.Context, db DB, list []entity.Recipe) error {
	if len(list) == 0 {
		return nil
	}
	idx := make(map[string]int, len(list))
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
		idx[list[i].ID] = i
	}
	rows, err := db.Query(ctx, `
		SELECT recipe_id::text, user_id::text, value
		FROM recipe_ratings
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY position
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			recipeID string
			rt       entity.Rating
		)
		if err := rows.Scan(&recipeID, &rt.UserID, &rt.Value); err != nil {
			return err
		}
		if i, ok := idx[recipeID]; ok {
			list[i].Ratings = append(list[i].Ratings, rt)
		}
	}
	return rows.Err()
}

func (r *RecipeRepository) Update(ctx context.Context, rec *entity.Recipe) error {
	storageID, url := imageArgs(rec.Image)
	row := r.db.QueryRow(ctx, `
		UPDATE recipes
		SET title = $2, description = $3, ingredients = $4, steps = $5, category = $6,
		    image_storage_id = $7, image_url = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, rec.ID, rec.Title, rec.Description, rec.Ingredients, rec.Steps, string(rec.Category), storageID, url)
	if err := row.Scan(&rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NotFound("recipe")
		}
		return err
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("recipe")
	}
	return nil
}

// UpsertRating is a single statement: the existence check, the insert and the
// in-place overwrite cannot interleave with a concurrent submission.
func (r *RecipeRepository) UpsertRating(ctx context.Context, recipeID, userID string, value int) error {
	res, err := r.db.Exec(ctx, `
		INSERT INTO recipe_ratings (recipe_id, user_id, value)
		SELECT $1::uuid, $2::uuid, $3::smallint
		WHERE EXISTS (SELECT 1 FROM recipes WHERE id = $1::uuid)
		ON CONFLICT (recipe_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, recipeID, userID, value)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errs.NotFound("recipe")
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("recipe")
	}
	return nil
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
