package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps header-supplied request IDs before they land
// in trace attributes.
const maxRequestIDLength = 128

// TracingConfig configures the otelgin tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig traces every request through otelgin and enriches
// the server span with request_id, client_id and user_id. Span names
// use the route pattern, e.g. "GET /api/v1/deals/:id/score".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
	}
}

// TracingAttributeInjector re-applies the identity attributes once the
// JWT middleware has run, so authenticated spans carry the claim values
// rather than the header fallbacks. Place it after both TracingWithConfig
// and the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

// SpanErrorMarker flags the server span for 4xx/5xx responses. Place it
// after TracingWithConfig.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := traceRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if clientID := traceClientID(c); clientID != "" {
		span.SetAttributes(attribute.String("client_id", clientID))
	}
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok && id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}
	}
}

// traceRequestID prefers the ID set by the RequestID middleware and
// truncates raw header values so oversized headers cannot bloat spans.
func traceRequestID(c *gin.Context) string {
	if id := GetRequestID(c); id != "" {
		return id
	}
	headerID := c.GetHeader(RequestIDHeader)
	if len(headerID) > maxRequestIDLength {
		return headerID[:maxRequestIDLength]
	}
	return headerID
}

// traceClientID trusts the JWT claim first. The X-Client-ID header is
// only accepted when it parses as a UUID, which keeps arbitrary caller
// strings out of trace attributes.
func traceClientID(c *gin.Context) string {
	if id := jwtClientID(c); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Client-ID")
	if headerID == "" {
		return ""
	}
	if _, err := uuid.Parse(headerID); err != nil {
		return ""
	}
	return headerID
}
