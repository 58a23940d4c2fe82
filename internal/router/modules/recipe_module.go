package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/internal/application"
	handlers "github.com/oksasatya/mycookbook-api/internal/interface/http"
)

// RecipeModule serves /api/recipes with its ratings and comments.
// Reads are public; writes need a session and mutations of a recipe or
// comment are limited to its author by the services.
type RecipeModule struct {
	Handler  *handlers.RecipeHandler
	Identity *application.Identity
}

func NewRecipeModule(h *handlers.RecipeHandler, identity *application.Identity) *RecipeModule {
	return &RecipeModule{Handler: h, Identity: identity}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/recipes")
	{
		public.GET("", m.Handler.List)
		public.GET("/search", m.Handler.Search)
		public.GET("/:id", m.Handler.Get)
		public.GET("/:id/ratings", m.Handler.Rating)
		public.GET("/:id/comments", m.Handler.ListComments)
	}

	auth := rg.Group("/recipes")
	auth.Use(authenticated(m.Identity), writesPerUser(120))
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/ratings", m.Handler.Rate)
		auth.POST("/:id/comments", m.Handler.CreateComment)
		auth.PATCH("/:id/comments/:commentId", m.Handler.UpdateComment)
		auth.DELETE("/:id/comments/:commentId", m.Handler.DeleteComment)
	}
}
