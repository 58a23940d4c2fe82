package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/pkg/response"
)

// multipart overhead allowed on top of the image limit
const formOverhead = 1 << 20

// RecipeHandler serves /api/recipes together with the nested ratings and
// comments routes.
type RecipeHandler struct {
	Recipes  *application.RecipeService
	Ratings  *application.RatingService
	Comments *application.CommentService
	Logger   *logrus.Logger
	// MaxBodyBytes caps a request body; zero means uncapped.
	MaxBodyBytes int64
}

func NewRecipeHandler(recipes *application.RecipeService, ratings *application.RatingService, comments *application.CommentService, logger *logrus.Logger) *RecipeHandler {
	h := &RecipeHandler{Recipes: recipes, Ratings: ratings, Comments: comments, Logger: logger}
	if recipes != nil && recipes.MaxImageBytes > 0 {
		h.MaxBodyBytes = recipes.MaxImageBytes + formOverhead
	}
	return h
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

// listField reads a repeated form field. A single value holding a JSON array
// is decoded instead.
func listField(c *gin.Context, key string) ([]string, bool, error) {
	vals, ok := c.GetPostFormArray(key)
	if !ok {
		return nil, false, nil
	}
	if len(vals) == 1 {
		if v := strings.TrimSpace(vals[0]); strings.HasPrefix(v, "[") {
			var out []string
			if err := json.Unmarshal([]byte(v), &out); err != nil {
				return nil, true, errs.Invalid("%s must be a JSON array of strings", key)
			}
			if out == nil {
				out = []string{}
			}
			return out, true, nil
		}
	}
	return vals, true, nil
}

// imageField opens the optional "image" file. The caller closes it.
func imageField(c *gin.Context) (*application.ImageUpload, io.Closer, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	ct, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		ct = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
	}
	return &application.ImageUpload{Body: f, Size: fh.Size, ContentType: ct}, f, nil
}

func (h *RecipeHandler) limitBody(c *gin.Context) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)
	}
}

// parseForm parses the multipart body once so later field reads see errors.
func parseForm(c *gin.Context) bool {
	if _, err := c.MultipartForm(); err != nil {
		badPayload(c, err)
		return false
	}
	return true
}

// bindCreate reads a create request. On false a response was already written.
func (h *RecipeHandler) bindCreate(c *gin.Context) (application.RecipeInput, *application.ImageUpload, io.Closer, bool) {
	var in application.RecipeInput
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&in); err != nil {
			badPayload(c, err)
			return in, nil, nil, false
		}
		return in, nil, nil, true
	}
	if !parseForm(c) {
		return in, nil, nil, false
	}
	in.Title = c.PostForm("title")
	in.Description = c.PostForm("description")
	in.Category = c.PostForm("category")
	var err error
	if in.Ingredients, _, err = listField(c, "ingredients"); err != nil {
		fail(c, h.Logger, err)
		return in, nil, nil, false
	}
	if in.Steps, _, err = listField(c, "steps"); err != nil {
		fail(c, h.Logger, err)
		return in, nil, nil, false
	}
	img, closer, err := imageField(c)
	if err != nil {
		badPayload(c, err)
		return in, nil, nil, false
	}
	return in, img, closer, true
}

// bindPatch reads an update request. Only fields present in the body are set.
func (h *RecipeHandler) bindPatch(c *gin.Context) (application.RecipePatch, *application.ImageUpload, io.Closer, bool) {
	var p application.RecipePatch
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&p); err != nil {
			badPayload(c, err)
			return p, nil, nil, false
		}
		return p, nil, nil, true
	}
	if !parseForm(c) {
		return p, nil, nil, false
	}
	if v, ok := c.GetPostForm("title"); ok {
		p.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		p.Description = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		p.Category = &v
	}
	var err error
	if p.Ingredients, _, err = listField(c, "ingredients"); err != nil {
		fail(c, h.Logger, err)
		return p, nil, nil, false
	}
	if p.Steps, _, err = listField(c, "steps"); err != nil {
		fail(c, h.Logger, err)
		return p, nil, nil, false
	}
	if v, ok := c.GetPostForm("remove_image"); ok {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			fail(c, h.Logger, errs.Invalid("remove_image must be a boolean"))
			return p, nil, nil, false
		}
		p.RemoveImage = b
	}
	img, closer, err := imageField(c)
	if err != nil {
		badPayload(c, err)
		return p, nil, nil, false
	}
	return p, img, closer, true
}

// List GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	list, err := h.Recipes.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeViews(list), "recipes", map[string]any{"total": len(list)})
}

// Search GET /api/recipes/search?query=&category=
func (h *RecipeHandler) Search(c *gin.Context) {
	list, err := h.Recipes.Search(c.Request.Context(), c.Query("query"), c.Query("category"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeViews(list), "recipes", map[string]any{"total": len(list)})
}

// Get GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	r, err := h.Recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeView(r), "recipe", nil)
}

// Create POST /api/recipes (auth required), JSON or multipart with an image.
func (h *RecipeHandler) Create(c *gin.Context) {
	h.limitBody(c)
	in, img, closer, ok := h.bindCreate(c)
	if !ok {
		return
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	r, err := h.Recipes.Create(c.Request.Context(), currentUserID(c), in, img)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, recipeView(r), "recipe created", nil)
}

// Update PATCH /api/recipes/:id (author only)
func (h *RecipeHandler) Update(c *gin.Context) {
	h.limitBody(c)
	p, img, closer, ok := h.bindPatch(c)
	if !ok {
		return
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	r, err := h.Recipes.Update(c.Request.Context(), currentUserID(c), c.Param("id"), p, img)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeView(r), "recipe updated", nil)
}

// Delete DELETE /api/recipes/:id (author only)
func (h *RecipeHandler) Delete(c *gin.Context) {
	if err := h.Recipes.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "recipe deleted", nil)
}

// Rate POST /api/recipes/:id/ratings {value}
func (h *RecipeHandler) Rate(c *gin.Context) {
	var req application.RatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	r, err := h.Ratings.Submit(c.Request.Context(), currentUserID(c), c.Param("id"), req.Value)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recipeView(r), "rating saved", nil)
}

// Rating GET /api/recipes/:id/ratings
func (h *RecipeHandler) Rating(c *gin.Context) {
	sum, err := h.Ratings.Aggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sum, "rating", nil)
}

// ListComments GET /api/recipes/:id/comments
func (h *RecipeHandler) ListComments(c *gin.Context) {
	list, err := h.Comments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, commentViews(list), "comments", map[string]any{"total": len(list)})
}

// CreateComment POST /api/recipes/:id/comments
func (h *RecipeHandler) CreateComment(c *gin.Context) {
	var req application.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	cm, err := h.Comments.Create(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, commentView(cm), "comment created", nil)
}

// UpdateComment PATCH /api/recipes/:id/comments/:commentId (author only)
func (h *RecipeHandler) UpdateComment(c *gin.Context) {
	var req application.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	cm, err := h.Comments.Update(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("commentId"), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, commentView(cm), "comment updated", nil)
}

// DeleteComment DELETE /api/recipes/:id/comments/:commentId (author only)
func (h *RecipeHandler) DeleteComment(c *gin.Context) {
	if err := h.Comments.Delete(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("commentId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "comment deleted", nil)
}
