package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/response"
)

// UserHandler serves /api/users. Every route requires an authenticated user.
type UserHandler struct {
	Users     *application.UserService
	Favorites *application.FavoriteService
	Cookies   *helpers.Manager
	Logger    *logrus.Logger
}

func NewUserHandler(users *application.UserService, favorites *application.FavoriteService, cookies *helpers.Manager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Favorites: favorites, Cookies: cookies, Logger: logger}
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userViews(list), "users", map[string]any{"total": len(list)})
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user", nil)
}

// Update PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req application.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Users.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user updated", nil)
}

// ChangePassword PATCH /api/users/:id/update-password. The session ends, so
// the client has to log in again.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req application.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), currentUserID(c), c.Param("id"), req); err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted", nil)
}

func (h *UserHandler) favorites(c *gin.Context, msg string) {
	list, err := h.Favorites.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeViews(list), msg, map[string]any{"total": len(list)})
}

// ListFavorites GET /api/users/favorites
func (h *UserHandler) ListFavorites(c *gin.Context) {
	h.favorites(c, "favorites")
}

// AddFavorite PATCH /api/users/favorites/:id
func (h *UserHandler) AddFavorite(c *gin.Context) {
	if err := h.Favorites.Add(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.favorites(c, "favorite added")
}

// RemoveFavorite DELETE /api/users/favorites/:id
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	if err := h.Favorites.Remove(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.favorites(c, "favorite removed")
}
