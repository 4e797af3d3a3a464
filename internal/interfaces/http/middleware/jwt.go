package middleware

import (
	"net/http"
	"strings"

	"github.com/agencyos/backend/internal/infrastructure/auth"
	"github.com/agencyos/backend/internal/infrastructure/logger"
	"github.com/agencyos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys populated by the JWT middleware.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTClientIDKey = "jwt_client_id"
	JWTRoleKey     = "jwt_role"
)

const bearerPrefix = "Bearer "

// JWTMiddlewareConfig configures the authentication middleware.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist, when set, rejects revoked tokens and invalidated
	// sessions.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths bypass authentication entirely.
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig returns the portal's JWT middleware configuration.
// The skip list covers the unauthenticated surface: health checks, login,
// invite acceptance, and the Stripe webhook (signature-verified instead).
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/system/ping",
			"/api/v1/invites/accept",
			"/api/v1/webhooks/stripe",
		},
	}
}

// JWTAuthMiddlewareWithConfig authenticates requests with a Bearer
// access token and stores the claims in the gin context. The request
// context logger is enriched with user_id and client_id so downstream
// log lines carry the caller identity.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			rejectUnauthenticated(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && !passesBlacklist(c, cfg, claims) {
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTClientIDKey, claims.ClientID)
		c.Set(JWTRoleKey, string(claims.Role))

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		if claims.ClientID != "" {
			ctx, _ = logger.WithClientID(ctx, log, claims.ClientID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// passesBlacklist checks token revocation and session invalidation.
// Lookup failures fail open so an unavailable Redis does not take the
// portal down, but they are logged.
func passesBlacklist(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID), zap.Error(err))
			}
		} else if blacklisted {
			rejectUnauthenticated(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
			return false
		}
	}

	if claims.UserID != "" {
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check user token invalidation",
					zap.String("user_id", claims.UserID), zap.Error(err))
			}
		} else if invalidated {
			rejectUnauthenticated(c, cfg, auth.ErrTokenBlacklisted, "User session has been invalidated")
			return false
		}
	}

	return true
}

func rejectUnauthenticated(c *gin.Context, cfg JWTMiddlewareConfig, err error, logMessage string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", logMessage),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := "UNAUTHORIZED", "Authentication required"
	switch err {
	case auth.ErrExpiredToken:
		code, message = "TOKEN_EXPIRED", "Token has expired"
	case auth.ErrInvalidToken:
		code, message = "INVALID_TOKEN", "Invalid token"
	case auth.ErrInvalidTokenType:
		code, message = "INVALID_TOKEN_TYPE", "Invalid token type"
	case auth.ErrTokenNotYetValid:
		code, message = "TOKEN_NOT_VALID", "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		code, message = "TOKEN_REVOKED", "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTUserID returns the authenticated user ID, or "".
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTClientID returns the authenticated client ID. Empty for staff
// tokens.
func GetJWTClientID(c *gin.Context) string {
	if clientID, exists := c.Get(JWTClientIDKey); exists {
		if id, ok := clientID.(string); ok {
			return id
		}
	}
	return ""
}

// RequireStaff rejects non-staff tokens with 403. It must run after
// JWTAuthMiddlewareWithConfig.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(JWTRoleKey) != string(auth.RoleStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID("FORBIDDEN", "Staff access required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
