package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/pkg/response"
)

// AllowPrivateIP passes loopback and private-range clients, which are the
// only callers allowed on debug routes.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		return parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate())
	}
}

// AllowReadOnly bypasses the limit for safe methods.
func AllowReadOnly() AllowFunc {
	return func(c *gin.Context) bool {
		switch strings.ToUpper(c.Request.Method) {
		case http.MethodGet, http.MethodHead:
			return true
		}
		return false
	}
}

// PrivateOnly answers like an unknown route unless allow passes.
func PrivateOnly(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			response.Abort(c, http.StatusNotFound, "route not found")
			return
		}
		c.Next()
	}
}
