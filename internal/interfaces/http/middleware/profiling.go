package middleware

import (
	"context"
	"strings"

	"github.com/agencyos/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// profilingSkipPaths lists endpoints whose profiles are noise: health
// checks and the swagger UI.
var profilingSkipPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/ready":   true,
	"/metrics": true,
}

var profilingSkipPrefixes = []string{"/swagger", "/api-docs"}

// Profiling wraps handler execution in pprof labels so Pyroscope can
// slice flame graphs by controller, route, method and client.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if profilingSkipPaths[path] {
			c.Next()
			return
		}
		for _, prefix := range profilingSkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels builds the label set for a request. Everything here
// is low cardinality: the route pattern rather than the raw path, and
// the client ID only when the JWT middleware resolved one.
func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)
	labels[telemetry.ProfilingLabelMethod] = c.Request.Method

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if controller := controllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}
	if clientID := jwtClientID(c); clientID != "" {
		labels[telemetry.ProfilingLabelClientID] = clientID
	}
	return labels
}

// controllerFromRoute picks the resource segment out of a route
// pattern: "/api/v1/deals/:id/score" yields "deals".
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
