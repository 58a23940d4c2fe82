package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

func (h *AuthHandler) issue(c *gin.Context, status int, res *application.AuthResult, msg string) {
	t := res.Tokens
	if h.Cookies != nil {
		h.Cookies.SetPair(c, t.AccessToken, t.AccessTokenExpiry, t.RefreshToken, t.RefreshTokenExpiry)
	}
	response.Success(c, status, AuthView{User: userView(res.User), Token: t.AccessToken}, msg,
		map[string]any{"access_expires_at": t.AccessTokenExpiry, "refresh_expires_at": t.RefreshTokenExpiry})
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issue(c, http.StatusCreated, res, "registered")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issue(c, http.StatusOK, res, "login success")
}

// Refresh POST /api/auth/refresh. The token comes from the refresh_token
// cookie or a {"refresh_token"} body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshTokenCookie)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	res, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.issue(c, http.StatusOK, res, "token refreshed")
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}
