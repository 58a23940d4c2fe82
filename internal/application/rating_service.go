package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type RatingInput struct {
	Value int `json:"value" binding:"required,gte=1,lte=5"`
}

// RatingService is the rating ledger: one entry per (recipe, user), updated
// in place on resubmission.
type RatingService struct {
	Recipes repo.RecipeRepository
	Users   repo.UserRepository
	Cache   AggregateCache
	Logger  *logrus.Logger
}

func NewRatingService(recipes repo.RecipeRepository, users repo.UserRepository, cache AggregateCache, logger *logrus.Logger) *RatingService {
	return &RatingService{Recipes: recipes, Users: users, Cache: cache, Logger: logger}
}

// Submit records userID's rating and returns the updated recipe.
func (s *RatingService) Submit(ctx context.Context, userID, recipeID string, value int) (*entity.Recipe, error) {
	if !entity.ValidRatingValue(value) {
		return nil, errs.Invalid("rating value must be between %d and %d", entity.MinRating, entity.MaxRating)
	}
	if err := s.Recipes.UpsertRating(ctx, recipeID, userID, value); err != nil {
		return nil, err
	}
	ratingsSubmitted.Add(1)
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, recipeID)
	}
	r, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := fillNames(ctx, s.Users, true, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Aggregate returns the mean rating (one decimal) and count of recipeID.
func (s *RatingService) Aggregate(ctx context.Context, recipeID string) (entity.RatingSummary, error) {
	var gen int64
	if s.Cache != nil {
		sum, g, ok := s.Cache.Get(ctx, recipeID)
		if ok {
			return sum, nil
		}
		gen = g
	}
	// a write landing after the generation was read makes Set a no-op
	r, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return entity.RatingSummary{}, err
	}
	sum := r.Aggregate()
	if s.Cache != nil {
		s.Cache.Set(ctx, recipeID, gen, sum)
	}
	return sum, nil
}
