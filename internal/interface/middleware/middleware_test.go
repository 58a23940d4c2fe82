package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/infrastructure/memory"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"bearer lower", "bearer  abc ", "", "abc"},
		{"other scheme", "Basic abc", "fromcookie", ""},
		{"cookie", "", "fromcookie", "fromcookie"},
		{"none", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: tc.cookie})
			}
			assert.Equal(t, tc.want, AccessToken(c))
		})
	}
}

func TestAuth(t *testing.T) {
	store := memory.NewStore()
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	identity := application.NewIdentity(jwt, nil, store.Users, helpers.NewDiscardLogger())

	u := &entity.User{Name: "Ann", Email: "ann@example.com", Password: "x"}
	require.NoError(t, store.Users.Create(context.Background(), u))
	pair, err := identity.Issue(context.Background(), u)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(identity, nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+c.GetString(CtxUserNameKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID+"|Ann", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	require.NoError(t, store.Users.Delete(context.Background(), u.ID))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const id = "6f1c0c3e-5d7b-4c36-9d8e-0b8f2f0e9a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	assert.Equal(t, id, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	assert.NotEqual(t, "not a uuid", serve(r, req).Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.9", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", serve(r, req).Body.String())
}

type fakeCounter struct {
	hits map[string]int
	err  error
}

func (f *fakeCounter) Hit(_ context.Context, key string, _ time.Duration) (int, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.hits[key]++
	return f.hits[key], 1500 * time.Millisecond, nil
}

func TestRateLimit(t *testing.T) {
	counter := &fakeCounter{hits: map[string]int{}}
	r := gin.New()
	r.Use(RateLimit(counter, Rule{Max: 2, Window: time.Minute, Key: KeyByIPAndRoute(), Allow: AllowReadOnly()}))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	post := func() *httptest.ResponseRecorder {
		return serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	}
	w := post()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, http.StatusNoContent, post().Code)

	w = post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/login", nil)).Code)
	}

	counter.err = errors.New("redis down")
	assert.Equal(t, http.StatusNoContent, post().Code)
}

func TestRateLimit_NilCounterPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, Rule{Max: 1, Window: time.Minute, Key: KeyByUserID()}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestPrivateOnly(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/vars", PrivateOnly(AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/vars", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/vars", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	assert.Equal(t, http.StatusNotFound, serve(r, req).Code)
}
