package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type CommentInput struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type CommentService struct {
	Comments repo.CommentRepository
	Recipes  repo.RecipeRepository
	Users    repo.UserRepository
	Notify   *Notifier
	Logger   *logrus.Logger
}

func NewCommentService(store repo.Store, notify *Notifier, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: store.Comments, Recipes: store.Recipes, Users: store.Users, Notify: notify, Logger: logger}
}

// List returns the recipe's comments, newest first, with author names.
func (s *CommentService) List(ctx context.Context, recipeID string) ([]entity.Comment, error) {
	if _, err := s.Recipes.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	list, err := s.Comments.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := fillCommentNames(ctx, s.Users, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create adds a comment by authorID and notifies the recipe author unless
// they commented on their own recipe.
func (s *CommentService) Create(ctx context.Context, authorID, recipeID string, in CommentInput) (*entity.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := checkInput(in); err != nil {
		return nil, err
	}
	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{RecipeID: recipe.ID, AuthorID: author.ID, AuthorName: author.Name, Content: in.Content}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	if recipe.AuthorID != author.ID {
		s.notifyAuthor(ctx, recipe, c)
	}
	return c, nil
}

func (s *CommentService) notifyAuthor(ctx context.Context, recipe *entity.Recipe, c *entity.Comment) {
	owner, err := s.Users.GetByID(ctx, recipe.AuthorID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", recipe.ID).Warn("load recipe author failed")
		}
		return
	}
	s.Notify.NewComment(ctx, owner, recipe, c)
}

// loader scopes comment lookups to recipeID: a comment of another recipe is
// reported as missing.
func (s *CommentService) loader(recipeID string) func(context.Context, string) (*entity.Comment, error) {
	return func(ctx context.Context, id string) (*entity.Comment, error) {
		c, err := s.Comments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.RecipeID != recipeID {
			return nil, errs.NotFound("comment")
		}
		return c, nil
	}
}

// Update replaces the content of a comment authored by actorID.
func (s *CommentService) Update(ctx context.Context, actorID, recipeID, commentID string, in CommentInput) (*entity.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := checkInput(in); err != nil {
		return nil, err
	}
	c, err := loadOwned(ctx, s.loader(recipeID), commentID, actorID, "modify this comment")
	if err != nil {
		return nil, err
	}
	c.Content = in.Content
	if err := s.Comments.Update(ctx, c); err != nil {
		return nil, err
	}
	names, err := lookupNames(ctx, s.Users, []string{c.AuthorID})
	if err != nil {
		return nil, err
	}
	c.AuthorName = names[c.AuthorID]
	return c, nil
}

// Delete removes a comment authored by actorID.
func (s *CommentService) Delete(ctx context.Context, actorID, recipeID, commentID string) error {
	c, err := loadOwned(ctx, s.loader(recipeID), commentID, actorID, "delete this comment")
	if err != nil {
		return err
	}
	return s.Comments.Delete(ctx, c.ID)
}
