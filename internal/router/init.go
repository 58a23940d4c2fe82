package router

import (
	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/container"
	handlers "github.com/oksasatya/mycookbook-api/internal/interface/http"
	"github.com/oksasatya/mycookbook-api/internal/router/modules"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// Services are the application services built from the container.
type Services struct {
	Identity  *application.Identity
	Auth      *application.AuthService
	Users     *application.UserService
	Recipes   *application.RecipeService
	Ratings   *application.RatingService
	Comments  *application.CommentService
	Favorites *application.FavoriteService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	rdb := container.GetRedis()

	var sessions application.SessionStore = application.NewMemorySessions(cfg.RefreshTTL)
	var ratings application.AggregateCache
	if rdb != nil {
		sessions = application.NewRedisSessions(rdb)
		if cfg.RatingCacheTTL > 0 {
			ratings = application.NewRedisAggregateCache(rdb, cfg.RatingCacheTTL, logger)
		}
	}

	identity := application.NewIdentity(container.GetJWT(), sessions, store.Users, logger)
	notify := application.NewNotifier(container.GetPublisher(), cfg.MailSendEnabled, logger)

	return Services{
		Identity:  identity,
		Auth:      application.NewAuthService(store.Users, identity, notify, logger),
		Users:     application.NewUserService(store.Users, identity, notify, logger),
		Recipes:   application.NewRecipeService(store, container.GetImages(), container.GetIndex(), ratings, logger, cfg.MaxImageBytes),
		Ratings:   application.NewRatingService(store.Recipes, store.Users, ratings, logger),
		Comments:  application.NewCommentService(store, notify, logger),
		Favorites: application.NewFavoriteService(store),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildServices()
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, cookies, logger), svc.Identity))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(svc.Recipes, svc.Ratings, svc.Comments, logger), svc.Identity))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Favorites, cookies, logger), svc.Identity))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
