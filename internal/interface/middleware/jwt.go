package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// Context keys set by Auth.
const (
	CtxUserIDKey    = "userID"
	CtxUserNameKey  = "userName"
	CtxUserEmailKey = "userEmail"
)

// AccessToken returns the bearer token of the request. The Authorization
// header wins over the access_token cookie.
func AccessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, _ := c.Cookie(helpers.AccessTokenCookie)
	return token
}
