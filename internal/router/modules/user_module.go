package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/internal/application"
	handlers "github.com/oksasatya/mycookbook-api/internal/interface/http"
)

// UserModule serves /api/users. Every route needs a session.
type UserModule struct {
	Handler  *handlers.UserHandler
	Identity *application.Identity
}

func NewUserModule(h *handlers.UserHandler, identity *application.Identity) *UserModule {
	return &UserModule{Handler: h, Identity: identity}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(authenticated(m.Identity), writesPerUser(120))
	{
		auth.GET("", m.Handler.List)

		auth.GET("/favorites", m.Handler.ListFavorites)
		auth.PATCH("/favorites/:id", m.Handler.AddFavorite)
		auth.DELETE("/favorites/:id", m.Handler.RemoveFavorite)

		auth.GET("/:id", m.Handler.Get)
		auth.PATCH("/:id", m.Handler.Update)
		auth.PATCH("/:id/update-password", m.Handler.ChangePassword)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
