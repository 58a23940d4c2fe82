package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

const commentColumns = `id::text, recipe_id::text, author_id::text, content, created_at`

type CommentRepository struct {
	db DB
}

func NewCommentRepository(db DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.RecipeID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, errs.NotFound("comment")
		}
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO comments (recipe_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at
	`, c.RecipeID, c.AuthorID, c.Content)
	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) ListByRecipe(ctx context.Context, recipeID string) ([]entity.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at DESC, id
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	res, err := r.db.Exec(ctx, `UPDATE comments SET content = $2 WHERE id = $1`, c.ID, c.Content)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("comment")
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("comment")
	}
	return nil
}

func (r *CommentRepository) DeleteByRecipe(ctx context.Context, recipeID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE recipe_id = $1`, recipeID)
	return err
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
