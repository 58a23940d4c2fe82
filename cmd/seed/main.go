package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/mycookbook-api/config"
	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
	mongoinfra "github.com/oksasatya/mycookbook-api/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/mycookbook-api/internal/infrastructure/postgres"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

var demoRecipes = []application.RecipeInput{
	{
		Title:       "Tomato Bruschetta",
		Description: "Toasted bread topped with fresh tomato, garlic and basil.",
		Ingredients: []string{"baguette", "tomatoes", "garlic", "basil", "olive oil"},
		Steps:       []string{"Toast the bread", "Dice tomatoes and mix with basil and oil", "Rub bread with garlic and top"},
		Category:    string(entity.CategoryStarter),
	},
	{
		Title:       "Mushroom Risotto",
		Description: "Creamy arborio rice slowly cooked with mushrooms and parmesan.",
		Ingredients: []string{"arborio rice", "mushrooms", "onion", "stock", "parmesan"},
		Steps:       []string{"Sweat the onion", "Toast the rice", "Add stock ladle by ladle", "Fold in mushrooms and parmesan"},
		Category:    string(entity.CategoryMain),
	},
	{
		Title:       "Chocolate Mousse",
		Description: "Light and airy dark chocolate mousse, set overnight.",
		Ingredients: []string{"dark chocolate", "eggs", "sugar", "cream"},
		Steps:       []string{"Melt the chocolate", "Whip cream and egg whites", "Fold together and chill"},
		Category:    string(entity.CategoryDessert),
	},
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return repository.Store{}, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			return repository.Store{}, err
		}
		return mongoinfra.NewStore(db), nil
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return repository.Store{}, err
		}
		return pginfra.NewStore(pool), nil
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.DBDriver, err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	identity := application.NewIdentity(jwt, nil, store.Users, logger)
	auth := application.NewAuthService(store.Users, identity, application.NewNotifier(nil, false, logger), logger)
	recipes := application.NewRecipeService(store, nil, nil, nil, logger, cfg.MaxImageBytes)

	const (
		email    = "demo@mycookbook.dev"
		password = "Password123"
	)
	var user *entity.User
	res, err := auth.Register(ctx, application.RegisterInput{Name: "Demo Cook", Email: email, Password: password})
	switch {
	case err == nil:
		user = res.User
	case errors.Is(err, errs.ErrConflict):
		if user, err = auth.Authenticate(ctx, email, password); err != nil {
			log.Fatalf("demo user exists with another password: %v", err)
		}
	default:
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("user_id", user.ID).Infof("seeded user email=%s password=%s", email, password)

	existing, err := recipes.List(ctx)
	if err != nil {
		log.Fatalf("failed to list recipes: %v", err)
	}
	have := map[string]bool{}
	for _, r := range existing {
		if r.AuthorID == user.ID {
			have[r.Title] = true
		}
	}
	for _, in := range demoRecipes {
		if have[in.Title] {
			continue
		}
		r, err := recipes.Create(ctx, user.ID, in, nil)
		if err != nil {
			log.Fatalf("failed to seed recipe %q: %v", in.Title, err)
		}
		logger.WithField("recipe_id", r.ID).Infof("seeded recipe %q", r.Title)
	}
}
