package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/pkg/response"
)

// Auth resolves the access token to a live user and session. It sets userID,
// userName, and userEmail in the Gin context on success.
func Auth(identity *application.Identity, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token")
			return
		}
		u, err := identity.Resolve(c.Request.Context(), token)
		if errors.Is(err, errs.ErrUnauthenticated) {
			response.Abort(c, http.StatusUnauthorized, "invalid access token")
			return
		}
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("resolve session failed")
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Name)
		c.Set(CtxUserEmailKey, u.Email)
		c.Next()
	}
}
