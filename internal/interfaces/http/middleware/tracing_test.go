package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func tracedRouter(t *testing.T, mw ...gin.HandlerFunc) (*gin.Engine, *tracetest.InMemoryExporter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{ServiceName: "portal-backend", Enabled: true}))
	r.Use(mw...)
	r.GET("/api/v1/deals/:id/score", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"score": 0.82})
	})
	r.GET("/api/v1/deals/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
	})
	return r, exporter
}

func spanAttr(span tracetest.SpanStub, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_NamesSpanByRoutePattern(t *testing.T) {
	r, exporter := tracedRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil))
	require.Equal(t, http.StatusOK, w.Code)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/deals/:id/score", spans[0].Name)
}

func TestTracing_EnrichesSpanWithRequestID(t *testing.T) {
	r, exporter := tracedRouter(t, RequestID())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil)
	req.Header.Set(RequestIDHeader, "portal-trace-9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	val, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "portal-trace-9", val.AsString())
}

func TestTracing_TruncatesOversizedHeaderRequestID(t *testing.T) {
	r, exporter := tracedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	val, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Len(t, val.AsString(), maxRequestIDLength)
}

func TestTracing_ClientIDHeaderMustBeUUID(t *testing.T) {
	t.Run("valid UUID accepted", func(t *testing.T) {
		r, exporter := tracedRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil)
		req.Header.Set("X-Client-ID", "0195c2a8-7b3e-7c90-b1a4-3f6d9e1c2a4b")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		val, ok := spanAttr(exporter.GetSpans()[0], "client_id")
		require.True(t, ok)
		assert.Equal(t, "0195c2a8-7b3e-7c90-b1a4-3f6d9e1c2a4b", val.AsString())
	})

	t.Run("arbitrary string dropped", func(t *testing.T) {
		r, exporter := tracedRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil)
		req.Header.Set("X-Client-ID", "'; DROP TABLE deals;--")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		_, ok := spanAttr(exporter.GetSpans()[0], "client_id")
		assert.False(t, ok)
	})
}

func TestTracingAttributeInjector_PrefersJWTClaims(t *testing.T) {
	claims := func(c *gin.Context) {
		c.Set(JWTClientIDKey, "b6d7c1de-13a8-4a54-9c5e-08f2a6d3e911")
		c.Set(JWTUserIDKey, "4f9c2a11-6a0b-4e3d-8cf7-5b2d91e04a77")
	}
	r, exporter := tracedRouter(t, claims, TracingAttributeInjector())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	clientID, ok := spanAttr(spans[0], "client_id")
	require.True(t, ok)
	assert.Equal(t, "b6d7c1de-13a8-4a54-9c5e-08f2a6d3e911", clientID.AsString())

	userID, ok := spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, "4f9c2a11-6a0b-4e3d-8cf7-5b2d91e04a77", userID.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	t.Run("marks 4xx spans", func(t *testing.T) {
		r, exporter := tracedRouter(t, SpanErrorMarker())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals/42", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "Not Found", spans[0].Status.Description)
	})

	t.Run("leaves 2xx spans alone", func(t *testing.T) {
		r, exporter := tracedRouter(t, SpanErrorMarker())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals/42/score", nil))
		require.Equal(t, http.StatusOK, w.Code)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status.Code)
	})
}

func TestTracing_DisabledIsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, exporter.GetSpans())
}
