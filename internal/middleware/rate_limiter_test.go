package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRateLimiter creates a rate limiter with miniredis for testing
func setupTestRateLimiter(t testing.TB, maxRequests int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
	})
	return rl, mr
}

func newLimitedRouter(rl *RateLimiter, scope string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware(scope))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func hit(router http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := newLimitedRouter(rl, "auth")

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := newLimitedRouter(rl, "auth")

	for i := 0; i < 5; i++ {
		hit(router, "192.168.1.1")
	}
	w := hit(router, "192.168.1.1")

	assert.Equal(t, http.StatusTooManyRequests, w.Code, "6th request should be rate limited")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	router := newLimitedRouter(rl, "auth")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.2").Code, "IP2 request %d should succeed", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, hit(router, "192.168.1.1").Code)
}

func TestRateLimiter_ScopesIndependent(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Minute)
	auth := newLimitedRouter(rl, "auth")
	search := newLimitedRouter(rl, "artist_search")

	assert.Equal(t, http.StatusOK, hit(auth, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(auth, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(search, "10.0.0.1").Code)

	assert.True(t, mr.Exists("ratelimit:auth:10.0.0.1"))
	assert.True(t, mr.Exists("ratelimit:artist_search:10.0.0.1"))
}

func TestRateLimiter_CheckLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	ctx := context.Background()
	ip := "192.168.1.100"

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit(ctx, "auth", ip)
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ctx, "auth", ip)
	require.NoError(t, err)
	assert.False(t, allowed, "4th request should be denied")
	assert.Greater(t, retryAfter, time.Duration(0), "Should have retry-after duration")
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 2, time.Second)
	ctx := context.Background()
	ip := "192.168.1.100"

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ctx, "auth", ip)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _, err := rl.CheckLimit(ctx, "auth", ip)
	require.NoError(t, err)
	assert.False(t, allowed, "3rd request should be denied")

	mr.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ctx, "auth", ip)
	require.NoError(t, err)
	assert.True(t, allowed, "Request should be allowed after window expires")
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, time.Minute)
	router := newLimitedRouter(rl, "auth")
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(router, "192.168.1.1").Code)
	}
}

func TestRateLimiter_SequentialBurst(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 10, time.Minute)
	router := newLimitedRouter(rl, "auth")

	successCount, limitedCount := 0, 0
	for i := 0; i < 20; i++ {
		switch hit(router, "192.168.1.1").Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			limitedCount++
		}
	}

	assert.Equal(t, 10, successCount, "Should allow exactly 10 requests")
	assert.Equal(t, 10, limitedCount, "Should block exactly 10 requests")
}

func TestPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Passthrough())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, hit(router, "192.168.1.1").Code)
}

// BenchmarkRateLimiter_CheckLimit benchmarks the CheckLimit method
func BenchmarkRateLimiter_CheckLimit(b *testing.B) {
	rl, _ := setupTestRateLimiter(b, 1000000, time.Minute)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = rl.CheckLimit(ctx, "bench", "192.168.1.100")
	}
}
