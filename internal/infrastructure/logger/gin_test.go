package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	router.Use(GinMiddleware(log))
	return router, logs
}

func TestGinMiddleware_LogsCompletedRequests(t *testing.T) {
	router, logs := observedRouter(t)
	router.GET("/api/v1/deals", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"deals": []string{}})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals?stage=sent", nil)
	router.ServeHTTP(w, req)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zap.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/deals", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "stage=sent", fields["query"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	router, logs := observedRouter(t)
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestGinMiddleware_AttachesLoggerToRequestContext(t *testing.T) {
	router, _ := observedRouter(t)

	var requestID string
	var hadLogger bool
	router.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID = GetRequestID(ctx)
		hadLogger = FromContext(ctx) != nil
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, "req-1", requestID)
	assert.True(t, hadLogger)
}

func TestRecovery_ConvertsPanicsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("scoring blew up")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "scoring blew up", entries[0].ContextMap()["error"])
}

func TestGetGinLogger_FallsBackToNop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))

	log := zap.NewExample()
	c.Set("logger", log)
	assert.Same(t, log, GetGinLogger(c))
}
