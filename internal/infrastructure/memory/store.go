// Package memory keeps every repository in process memory. It backs
// DB_DRIVER=memory for local runs and the application tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

type db struct {
	mu sync.RWMutex

	users  map[string]entity.User
	emails map[string]string // lower(email) -> id

	recipes     map[string]*entity.Recipe
	recipeOrder []string // insertion order

	comments     map[string]entity.Comment
	commentOrder []string

	favorites map[string]map[string]struct{} // user -> recipe set

	now func() time.Time
}

// NewStore returns an empty in-memory store.
func NewStore() repository.Store {
	d := &db{
		users:     map[string]entity.User{},
		emails:    map[string]string{},
		recipes:   map[string]*entity.Recipe{},
		comments:  map[string]entity.Comment{},
		favorites: map[string]map[string]struct{}{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	return repository.Store{
		Users:     &userRepo{d},
		Recipes:   &recipeRepo{d},
		Comments:  &commentRepo{d},
		Favorites: &favoriteRepo{d},
		IDs:       repository.UUIDScheme{},
	}
}

func cloneRecipe(r *entity.Recipe) entity.Recipe {
	out := *r
	out.Ingredients = slices.Clone(r.Ingredients)
	out.Steps = slices.Clone(r.Steps)
	out.Ratings = slices.Clone(r.Ratings)
	if r.Image != nil {
		img := *r.Image
		out.Image = &img
	}
	return out
}

type userRepo struct{ d *db }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, taken := r.d.emails[key]; taken {
		return errs.Conflict("email already in use")
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.d.now()
	u.UpdatedAt = u.CreatedAt
	r.d.users[u.ID] = *u
	r.d.emails[key] = u.ID
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, errs.NotFound("user")
	}
	return &u, nil
}

func (r *userRepo) GetByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	id, ok := r.d.emails[strings.ToLower(email)]
	if !ok {
		return nil, errs.NotFound("user")
	}
	u := r.d.users[id]
	return &u, nil
}

func (r *userRepo) List(_ context.Context) ([]entity.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := make([]entity.User, 0, len(r.d.users))
	for _, u := range r.d.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b entity.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cur, ok := r.d.users[u.ID]
	if !ok {
		return errs.NotFound("user")
	}
	newKey := strings.ToLower(u.Email)
	if owner, taken := r.d.emails[newKey]; taken && owner != u.ID {
		return errs.Conflict("email already in use")
	}
	delete(r.d.emails, strings.ToLower(cur.Email))
	r.d.emails[newKey] = u.ID
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.d.now()
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return errs.NotFound("user")
	}
	delete(r.d.emails, strings.ToLower(u.Email))
	delete(r.d.users, id)
	delete(r.d.favorites, id)
	return nil
}

type recipeRepo struct{ d *db }

func (r *recipeRepo) Create(_ context.Context, rec *entity.Recipe) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.d.now()
	rec.UpdatedAt = rec.CreatedAt
	stored := cloneRecipe(rec)
	r.d.recipes[rec.ID] = &stored
	r.d.recipeOrder = append(r.d.recipeOrder, rec.ID)
	return nil
}

func (r *recipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	rec, ok := r.d.recipes[id]
	if !ok {
		return nil, errs.NotFound("recipe")
	}
	out := cloneRecipe(rec)
	return &out, nil
}

func matches(rec *entity.Recipe, f repository.RecipeFilter) bool {
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, rec.ID) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Title), q) {
		return true
	}
	for _, ing := range rec.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

func (r *recipeRepo) List(_ context.Context, f repository.RecipeFilter) ([]entity.Recipe, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := make([]entity.Recipe, 0, len(r.d.recipeOrder))
	for i := len(r.d.recipeOrder) - 1; i >= 0; i-- {
		rec, ok := r.d.recipes[r.d.recipeOrder[i]]
		if !ok || !matches(rec, f) {
			continue
		}
		out = append(out, cloneRecipe(rec))
	}
	return out, nil
}

func (r *recipeRepo) Update(_ context.Context, rec *entity.Recipe) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cur, ok := r.d.recipes[rec.ID]
	if !ok {
		return errs.NotFound("recipe")
	}
	cur.Title = rec.Title
	cur.Description = rec.Description
	cur.Ingredients = slices.Clone(rec.Ingredients)
	cur.Steps = slices.Clone(rec.Steps)
	cur.Category = rec.Category
	cur.Image = nil
	if rec.Image != nil {
		img := *rec.Image
		cur.Image = &img
	}
	cur.UpdatedAt = r.d.now()
	rec.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *recipeRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.recipes[id]; !ok {
		return errs.NotFound("recipe")
	}
	delete(r.d.recipes, id)
	r.d.recipeOrder = slices.DeleteFunc(r.d.recipeOrder, func(s string) bool { return s == id })
	return nil
}

func (r *recipeRepo) UpsertRating(_ context.Context, recipeID, userID string, value int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	rec, ok := r.d.recipes[recipeID]
	if !ok {
		return errs.NotFound("recipe")
	}
	rec.Rate(userID, value)
	return nil
}

type commentRepo struct{ d *db }

func (r *commentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = r.d.now()
	r.d.comments[c.ID] = *c
	r.d.commentOrder = append(r.d.commentOrder, c.ID)
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	c, ok := r.d.comments[id]
	if !ok {
		return nil, errs.NotFound("comment")
	}
	return &c, nil
}

func (r *commentRepo) ListByRecipe(_ context.Context, recipeID string) ([]entity.Comment, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := []entity.Comment{}
	for i := len(r.d.commentOrder) - 1; i >= 0; i-- {
		c, ok := r.d.comments[r.d.commentOrder[i]]
		if ok && c.RecipeID == recipeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *commentRepo) Update(_ context.Context, c *entity.Comment) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	cur, ok := r.d.comments[c.ID]
	if !ok {
		return errs.NotFound("comment")
	}
	cur.Content = c.Content
	r.d.comments[c.ID] = cur
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.comments[id]; !ok {
		return errs.NotFound("comment")
	}
	delete(r.d.comments, id)
	r.d.commentOrder = slices.DeleteFunc(r.d.commentOrder, func(s string) bool { return s == id })
	return nil
}

func (r *commentRepo) DeleteByRecipe(_ context.Context, recipeID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, c := range r.d.comments {
		if c.RecipeID == recipeID {
			delete(r.d.comments, id)
		}
	}
	r.d.commentOrder = slices.DeleteFunc(r.d.commentOrder, func(s string) bool {
		_, ok := r.d.comments[s]
		return !ok
	})
	return nil
}

type favoriteRepo struct{ d *db }

func (r *favoriteRepo) Add(_ context.Context, userID, recipeID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	set, ok := r.d.favorites[userID]
	if !ok {
		set = map[string]struct{}{}
		r.d.favorites[userID] = set
	}
	set[recipeID] = struct{}{}
	return nil
}

func (r *favoriteRepo) Remove(_ context.Context, userID, recipeID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.favorites[userID], recipeID)
	return nil
}

func (r *favoriteRepo) List(_ context.Context, userID string) ([]entity.Recipe, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := []entity.Recipe{}
	for id := range r.d.favorites[userID] {
		if rec, ok := r.d.recipes[id]; ok {
			out = append(out, cloneRecipe(rec))
		}
	}
	return out, nil
}
