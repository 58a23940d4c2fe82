// Package client is a typed Go client for the MyCookBook API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/mycookbook-api/pkg/ttlcache"
)

const DefaultRatingTTL = 5 * time.Minute

type Client struct {
	baseURL string
	http    *http.Client
	token   string

	// Rating aggregates by recipe id. An expired entry is still served when
	// the API cannot be reached or answers 5xx.
	ratings *ttlcache.Cache[string, RatingSummary]
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithToken(token string) Option        { return func(c *Client) { c.token = token } }

// WithRatingCache replaces the rating cache, e.g. to change its ttl or clock.
func WithRatingCache(cache *ttlcache.Cache[string, RatingSummary]) Option {
	return func(c *Client) { c.ratings = cache }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		ratings: ttlcache.New[string, RatingSummary](DefaultRatingTTL),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= 300 {
			return &APIError{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
		return err
	}
	if res.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: res.StatusCode, Message: env.Message}
		_ = json.Unmarshal(env.Error, &apiErr.Details)
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func esc(id string) string { return url.PathEscape(id) }

// Register creates an account and keeps its token for later calls.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Auth, error) {
	var out Auth
	if err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{"name": name, "email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	var out Auth
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) ListRecipes(ctx context.Context) ([]Recipe, error) {
	var out []Recipe
	err := c.do(ctx, http.MethodGet, "/recipes", nil, &out)
	return out, err
}

func (c *Client) SearchRecipes(ctx context.Context, query, category string) ([]Recipe, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if category != "" {
		q.Set("category", category)
	}
	path := "/recipes/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Recipe
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodGet, "/recipes/"+esc(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodPost, "/recipes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecipe(ctx context.Context, id string, p RecipePatch) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodPatch, "/recipes/"+esc(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/recipes/"+esc(id), nil, nil); err != nil {
		return err
	}
	c.ratings.Delete(id)
	return nil
}

// RateRecipe submits a rating and drops the cached aggregate of the recipe.
func (c *Client) RateRecipe(ctx context.Context, id string, value int) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, http.MethodPost, "/recipes/"+esc(id)+"/ratings", map[string]int{"value": value}, &out); err != nil {
		return nil, err
	}
	c.ratings.Delete(id)
	return &out, nil
}

// RecipeRating returns the rating aggregate of a recipe, memoised for the
// cache ttl. When the API fails with a transport error or a 5xx, an expired
// entry is returned instead of the error.
func (c *Client) RecipeRating(ctx context.Context, id string) (RatingSummary, error) {
	if sum, ok := c.ratings.Get(id); ok {
		return sum, nil
	}
	var sum RatingSummary
	err := c.do(ctx, http.MethodGet, "/recipes/"+esc(id)+"/ratings", nil, &sum)
	if err == nil {
		c.ratings.Put(id, sum)
		return sum, nil
	}
	if degraded(err) {
		if stale, ok := c.ratings.GetStale(id); ok {
			return stale, nil
		}
	} else {
		c.ratings.Delete(id)
	}
	return RatingSummary{}, err
}

func degraded(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func (c *Client) ListComments(ctx context.Context, recipeID string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, "/recipes/"+esc(recipeID)+"/comments", nil, &out)
	return out, err
}

func (c *Client) AddComment(ctx context.Context, recipeID, content string) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/recipes/"+esc(recipeID)+"/comments", map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, recipeID, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/recipes/"+esc(recipeID)+"/comments/"+esc(commentID), nil, nil)
}

func (c *Client) Favorites(ctx context.Context) ([]Recipe, error) {
	var out []Recipe
	err := c.do(ctx, http.MethodGet, "/users/favorites", nil, &out)
	return out, err
}

func (c *Client) AddFavorite(ctx context.Context, recipeID string) ([]Recipe, error) {
	var out []Recipe
	err := c.do(ctx, http.MethodPatch, "/users/favorites/"+esc(recipeID), nil, &out)
	return out, err
}

func (c *Client) RemoveFavorite(ctx context.Context, recipeID string) ([]Recipe, error) {
	var out []Recipe
	err := c.do(ctx, http.MethodDelete, "/users/favorites/"+esc(recipeID), nil, &out)
	return out, err
}
