package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client-42"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("client-42"), "fourth request must be throttled")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	require.True(t, rl.Allow("client-42"))
	require.False(t, rl.Allow("client-42"))
	assert.True(t, rl.Allow("client-77"), "a different client keeps its own budget")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	require.True(t, rl.Allow("client-42"))
	require.False(t, rl.Allow("client-42"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("client-42"), "new window grants fresh budget")
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Close()

	assert.Equal(t, 5, rl.Remaining("client-42"), "untouched key has the full budget")
	rl.Allow("client-42")
	rl.Allow("client-42")
	assert.Equal(t, 3, rl.Remaining("client-42"))
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Close()
	rl.Close()
}

func rateLimitedRouter(limit int) (*gin.Engine, *RateLimiter) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(limit, time.Minute)
	r := gin.New()
	r.Use(RateLimit(rl))
	r.GET("/api/v1/deals", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, rl
}

func TestRateLimit_RejectsWithErrorEnvelope(t *testing.T) {
	r, rl := rateLimitedRouter(1)
	defer rl.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}

func TestRateLimit_SetsBudgetHeaders(t *testing.T) {
	r, rl := rateLimitedRouter(10)
	defer rl.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil))

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_SeparatesClientsByHeader(t *testing.T) {
	r, rl := rateLimitedRouter(1)
	defer rl.Close()

	first := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	first.Header.Set("X-Client-ID", "client-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	second.Header.Set("X-Client-ID", "client-77")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code, "another client is not throttled by the first")
}
