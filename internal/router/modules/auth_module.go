package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/internal/application"
	handlers "github.com/oksasatya/mycookbook-api/internal/interface/http"
)

// AuthModule serves /api/auth.
// Public: POST register, login, refresh. Protected: POST logout.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Identity *application.Identity
}

func NewAuthModule(h *handlers.AuthHandler, identity *application.Identity) *AuthModule {
	return &AuthModule{Handler: h, Identity: identity}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", perIP(10), m.Handler.Register)
	g.POST("/login", perIP(10), m.Handler.Login) // 10 req/min per IP
	g.POST("/refresh", perIP(60), m.Handler.Refresh)
	g.POST("/logout", authenticated(m.Identity), m.Handler.Logout)
}
