package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

// Register exposes the expvar counters to private networks only.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", middleware.PrivateOnly(middleware.AllowPrivateIP()), perIP(120), gin.WrapH(expvar.Handler()))
}
