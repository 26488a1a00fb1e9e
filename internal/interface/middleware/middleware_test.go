package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthService(t *testing.T) (*application.AuthService, *entity.User) {
	t.Helper()
	store := memory.NewUserStore()
	u := entity.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	store.Put(u)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	return application.NewAuthService(store, jwt, memory.NewSessionStore(), nil), &u
}

func protected(auth *application.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt64(CtxUserIDKey)})
	})
	return r
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	auth, _ := newAuthService(t)
	r := protected(auth)

	for _, header := range []string{"", "Bearer not-a-jwt", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
}

func TestAuthAcceptsBearerAndCookie(t *testing.T) {
	auth, u := newAuthService(t)
	pair, err := auth.IssueTokens(context.Background(), u)
	require.NoError(t, err)
	r := protected(auth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":1}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: pair.AccessToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsSupersededSession(t *testing.T) {
	auth, u := newAuthService(t)
	old, err := auth.IssueTokens(context.Background(), u)
	require.NoError(t, err)
	_, err = auth.IssueTokens(context.Background(), u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+old.AccessToken)
	w := httptest.NewRecorder()
	protected(auth).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDGeneratedAndReused(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRealIPPrefersProxyHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	cases := map[string]http.Header{
		"203.0.113.7":  {"Cf-Connecting-Ip": {"203.0.113.7"}, "X-Forwarded-For": {"198.51.100.1"}},
		"198.51.100.1": {"X-Forwarded-For": {"198.51.100.1, 10.0.0.1"}},
	}
	for want, h := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header = h
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String())
	}
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := helpers.NewRedisClient(addr, os.Getenv("TEST_REDIS_PASSWORD"), 15)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	key := func(*gin.Context) string { return "rl:test:" + t.Name() }
	require.NoError(t, rdb.Del(context.Background(), key(nil)).Err())

	r := gin.New()
	r.POST("/login", RateLimit(rdb, 2, time.Minute, key, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAllowPrivateIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "10.1.2.3")
	assert.True(t, AllowPrivateIP()(c))
	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))
}
