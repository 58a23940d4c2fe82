package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/internal/infrastructure/memory"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/mailer"
)

type fakeSessions struct {
	mu sync.Mutex
	m  map[string]Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{m: map[string]Session{}} }

func (f *fakeSessions) Save(_ context.Context, s Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[s.UserID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, userID string) (Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[userID]
	return s, ok, nil
}

func (f *fakeSessions) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, userID)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.Job
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.Job))
	return nil
}

func (p *fakePublisher) templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, j := range p.jobs {
		out = append(out, j.Template)
	}
	return out
}

type fakeImages struct {
	mu        sync.Mutex
	objects   map[string][]byte
	n         int
	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeImages() *fakeImages { return &fakeImages{objects: map[string][]byte{}} }

func (f *fakeImages) Upload(_ context.Context, r io.Reader, _ int64, contentType string) (entity.Image, error) {
	if f.uploadErr != nil {
		return entity.Image{}, f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return entity.Image{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	key := "recipes/img-" + string(rune('a'+f.n-1)) + entity.ImageTypes[contentType]
	f.objects[key] = b
	return entity.Image{StorageID: key, URL: "https://cdn.test/" + key}, nil
}

func (f *fakeImages) Delete(_ context.Context, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, storageID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, storageID)
	return nil
}

type fakeIndex struct {
	docs      map[string]entity.Recipe
	searchErr error
	hits      []string
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Recipe{}} }

func (f *fakeIndex) Index(_ context.Context, r *entity.Recipe) error {
	f.docs[r.ID] = *r
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ entity.Category) ([]string, error) {
	return f.hits, f.searchErr
}

type fakeAggregates struct {
	mu          sync.Mutex
	m           map[string]entity.RatingSummary
	gens        map[string]int64
	invalidated []string
	// beforeSet runs once, ahead of the next Set, to interleave a write
	beforeSet func()
}

func newFakeAggregates() *fakeAggregates {
	return &fakeAggregates{m: map[string]entity.RatingSummary{}, gens: map[string]int64{}}
}

func (f *fakeAggregates) Get(_ context.Context, id string) (entity.RatingSummary, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	return s, f.gens[id], ok
}

func (f *fakeAggregates) Set(_ context.Context, id string, gen int64, s entity.RatingSummary) {
	if hook := f.beforeSet; hook != nil {
		f.beforeSet = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gens[id] == gen {
		f.m[id] = s
	}
}

func (f *fakeAggregates) Invalidate(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
	f.gens[id]++
	f.invalidated = append(f.invalidated, id)
}

var errBoom = errors.New("boom")

// env wires every service over one in-memory store.
type env struct {
	store     repository.Store
	sessions  *fakeSessions
	pub       *fakePublisher
	images    *fakeImages
	index     *fakeIndex
	cache     *fakeAggregates
	identity  *Identity
	auth      *AuthService
	users     *UserService
	recipes   *RecipeService
	ratings   *RatingService
	favorites *FavoriteService
	comments  *CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:    memory.NewStore(),
		sessions: newFakeSessions(),
		pub:      &fakePublisher{},
		images:   newFakeImages(),
		index:    newFakeIndex(),
		cache:    newFakeAggregates(),
	}
	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 2*time.Hour)
	notify := NewNotifier(e.pub, true, logger)
	e.identity = NewIdentity(jwt, e.sessions, e.store.Users, logger)
	e.auth = NewAuthService(e.store.Users, e.identity, notify, logger)
	e.users = NewUserService(e.store.Users, e.identity, notify, logger)
	e.recipes = NewRecipeService(e.store, e.images, e.index, e.cache, logger, 1<<10)
	e.ratings = NewRatingService(e.store.Recipes, e.store.Users, e.cache, logger)
	e.favorites = NewFavoriteService(e.store)
	e.comments = NewCommentService(e.store, notify, logger)
	return e
}

func (e *env) register(t *testing.T, name, email string) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "Secret1"})
	require.NoError(t, err)
	return res
}

func sampleRecipe() RecipeInput {
	return RecipeInput{
		Title:       "Chocolate cake",
		Description: "A rich and moist chocolate cake.",
		Ingredients: []string{"flour", "egg"},
		Steps:       []string{"mix", "bake"},
		Category:    "dessert",
	}
}

func (e *env) createRecipe(t *testing.T, authorID string) *entity.Recipe {
	t.Helper()
	r, err := e.recipes.Create(context.Background(), authorID, sampleRecipe(), nil)
	require.NoError(t, err)
	return r
}

func pngUpload(n int) *ImageUpload {
	return &ImageUpload{Body: bytes.NewReader(make([]byte, n)), Size: int64(n), ContentType: "image/png"}
}
