package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

var errNoImageStore = errors.New("image storage not configured")

type RecipeInput struct {
	Title       string   `json:"title" binding:"required,min=3,max=100"`
	Description string   `json:"description" binding:"required,min=10,max=1000"`
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Steps       []string `json:"steps" binding:"required,min=1,dive,required"`
	Category    string   `json:"category" binding:"required,category"`
}

// RecipePatch lists the only fields an update may touch. A nil field is left
// unchanged; anything else in the request body is ignored.
type RecipePatch struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string  `json:"description" binding:"omitempty,min=10,max=1000"`
	Ingredients []string `json:"ingredients" binding:"omitempty,min=1,dive,required"`
	Steps       []string `json:"steps" binding:"omitempty,min=1,dive,required"`
	Category    *string  `json:"category" binding:"omitempty,category"`
	RemoveImage bool     `json:"remove_image"`
}

type RecipeService struct {
	Recipes  repo.RecipeRepository
	Users    repo.UserRepository
	Comments repo.CommentRepository
	Images   ImageStore
	Index    RecipeIndex
	Ratings  AggregateCache
	Logger   *logrus.Logger
	// MaxImageBytes bounds an upload; zero means unbounded.
	MaxImageBytes int64
}

func NewRecipeService(store repo.Store, images ImageStore, index RecipeIndex, ratings AggregateCache, logger *logrus.Logger, maxImageBytes int64) *RecipeService {
	return &RecipeService{
		Recipes:       store.Recipes,
		Users:         store.Users,
		Comments:      store.Comments,
		Images:        images,
		Index:         index,
		Ratings:       ratings,
		Logger:        logger,
		MaxImageBytes: maxImageBytes,
	}
}

func trimAll(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (in *RecipeInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Ingredients = trimAll(in.Ingredients)
	in.Steps = trimAll(in.Steps)
	in.Category = normalizeCategory(in.Category)
}

func (p *RecipePatch) normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Title = trim(p.Title)
	p.Description = trim(p.Description)
	p.Ingredients = trimAll(p.Ingredients)
	p.Steps = trimAll(p.Steps)
	if p.Category != nil {
		v := normalizeCategory(*p.Category)
		p.Category = &v
	}
}

func (s *RecipeService) checkImage(img *ImageUpload) error {
	if img == nil {
		return nil
	}
	if _, ok := entity.ImageTypes[img.ContentType]; !ok {
		return errs.Invalid("image must be jpeg, png, webp or gif")
	}
	if s.MaxImageBytes > 0 && img.Size > s.MaxImageBytes {
		return errs.Invalid("image must be at most %d bytes", s.MaxImageBytes)
	}
	if s.Images == nil {
		return errs.External("upload image", errNoImageStore)
	}
	return nil
}

// releaseImage deletes a blob without failing the caller. A failure leaves
// an orphaned object, which is counted and logged.
func (s *RecipeService) releaseImage(ctx context.Context, img *entity.Image) {
	if img == nil || img.StorageID == "" || s.Images == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.Images.Delete(c, img.StorageID); err != nil {
		imagesOrphaned.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("storage_id", img.StorageID).Warn("release image failed")
		}
	}
}

func (s *RecipeService) reindex(ctx context.Context, r *entity.Recipe) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, r); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("recipe_id", r.ID).Warn("index recipe failed")
	}
}

// Create stores a recipe authored by authorID, uploading img first when
// given. Validation happens before anything is written.
func (s *RecipeService) Create(ctx context.Context, authorID string, in RecipeInput, img *ImageUpload) (*entity.Recipe, error) {
	in.normalize()
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if err := s.checkImage(img); err != nil {
		return nil, err
	}
	r := &entity.Recipe{
		Title:       in.Title,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Category:    entity.Category(in.Category),
		AuthorID:    authorID,
		Ratings:     []entity.Rating{},
	}
	if img != nil {
		uploaded, err := s.Images.Upload(ctx, img.Body, img.Size, img.ContentType)
		if err != nil {
			return nil, err
		}
		r.Image = &uploaded
	}
	if err := s.Recipes.Create(ctx, r); err != nil {
		s.releaseImage(ctx, r.Image)
		return nil, err
	}
	recipesCreated.Add(1)
	s.reindex(ctx, r)
	if err := fillNames(ctx, s.Users, false, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the recipe with author and rater names.
func (s *RecipeService) Get(ctx context.Context, id string) (*entity.Recipe, error) {
	r, err := s.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fillNames(ctx, s.Users, true, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns every recipe, newest first.
func (s *RecipeService) List(ctx context.Context) ([]entity.Recipe, error) {
	return s.find(ctx, repo.RecipeFilter{})
}

func (s *RecipeService) find(ctx context.Context, f repo.RecipeFilter) ([]entity.Recipe, error) {
	list, err := s.Recipes.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := fillNames(ctx, s.Users, false, pointers(list)...); err != nil {
		return nil, err
	}
	return list, nil
}

// Search matches query against titles and ingredients and filters by
// category. Both are optional; a category no recipe can have matches
// nothing. With an index configured the text match is delegated to it; if
// the index fails the repository filter is used.
func (s *RecipeService) Search(ctx context.Context, query, category string) ([]entity.Recipe, error) {
	f := repo.RecipeFilter{Query: strings.TrimSpace(query)}
	if category = strings.TrimSpace(category); category != "" {
		c, ok := entity.ParseCategory(category)
		if !ok {
			return []entity.Recipe{}, nil
		}
		f.Category = c
	}
	if s.Index != nil && f.Query != "" {
		ids, err := s.Index.Search(ctx, f.Query, f.Category)
		if err == nil {
			if len(ids) == 0 {
				return []entity.Recipe{}, nil
			}
			return s.find(ctx, repo.RecipeFilter{IDs: ids, Category: f.Category})
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("recipe index search failed, using store filter")
		}
	}
	return s.find(ctx, f)
}

// Update applies p to the recipe if actorID is its author. A new image
// replaces the old one, whose blob is then released.
func (s *RecipeService) Update(ctx context.Context, actorID, id string, p RecipePatch, img *ImageUpload) (*entity.Recipe, error) {
	p.normalize()
	if err := checkInput(p); err != nil {
		return nil, err
	}
	if err := s.checkImage(img); err != nil {
		return nil, err
	}
	r, err := loadOwned(ctx, s.Recipes.GetByID, id, actorID, "modify this recipe")
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = p.Ingredients
	}
	if p.Steps != nil {
		r.Steps = p.Steps
	}
	if p.Category != nil {
		r.Category = entity.Category(*p.Category)
	}

	old := r.Image
	switch {
	case img != nil:
		uploaded, err := s.Images.Upload(ctx, img.Body, img.Size, img.ContentType)
		if err != nil {
			return nil, err
		}
		r.Image = &uploaded
	case p.RemoveImage:
		r.Image = nil
	}

	if err := s.Recipes.Update(ctx, r); err != nil {
		if img != nil {
			s.releaseImage(ctx, r.Image)
		}
		return nil, err
	}
	if old != nil && r.Image != old {
		s.releaseImage(ctx, old)
	}
	s.reindex(ctx, r)
	if err := fillNames(ctx, s.Users, true, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the recipe, its comments and its image if actorID is the
// author. Only the record deletion can fail the call.
func (s *RecipeService) Delete(ctx context.Context, actorID, id string) error {
	r, err := loadOwned(ctx, s.Recipes.GetByID, id, actorID, "delete this recipe")
	if err != nil {
		return err
	}
	if err := s.Recipes.Delete(ctx, r.ID); err != nil {
		return err
	}
	if s.Comments != nil {
		if err := s.Comments.DeleteByRecipe(ctx, r.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", r.ID).Warn("delete recipe comments failed")
		}
	}
	s.releaseImage(ctx, r.Image)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, r.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", r.ID).Warn("unindex recipe failed")
		}
	}
	if s.Ratings != nil {
		s.Ratings.Invalidate(ctx, r.ID)
	}
	return nil
}
