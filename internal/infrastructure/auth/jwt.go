package auth

import (
	"errors"
	"time"

	"github.com/agencyos/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tags a JWT as access or refresh so one cannot stand in for
// the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Role distinguishes agency staff from portal clients.
type Role string

const (
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims carries the portal identity inside a JWT. ClientID is set for
// portal client users only; staff tokens leave it empty.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ClientID  string    `json:"client_id,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// TokenPair is what a login or refresh hands back to the caller.
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService signs and validates portal tokens with an HS256 shared
// secret.
type JWTService struct {
	secret            []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
	}
}

// GenerateTokenInput identifies the user a token pair is minted for.
type GenerateTokenInput struct {
	UserID   uuid.UUID
	Email    string
	Role     Role
	ClientID *uuid.UUID
}

// GenerateTokenPair mints a matched access and refresh token for the
// user. Both carry the same identity; only type and lifetime differ.
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	now := time.Now()

	accessToken, accessExpiry, err := s.mint(input, TokenTypeAccess, now, s.accessExpiration)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := s.mint(input, TokenTypeRefresh, now, s.refreshExpiration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshTokenExpiresAt: refreshExpiry,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) mint(input GenerateTokenInput, tokenType TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	clientID := ""
	if input.ClientID != nil {
		clientID = input.ClientID.String()
	}

	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    input.UserID.String(),
		Email:     input.Email,
		Role:      input.Role,
		ClientID:  clientID,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken checks signature, lifetime, and token type, and
// returns the embedded claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken is ValidateAccessToken for refresh tokens.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Pin the algorithm; "alg: none" and RS->HS confusion both die here.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// RefreshTokenPair trades a valid refresh token for a fresh pair
// carrying the same identity.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrInvalidClaims
	}

	var clientID *uuid.UUID
	if claims.ClientID != "" {
		parsed, err := uuid.Parse(claims.ClientID)
		if err != nil {
			return nil, ErrInvalidClaims
		}
		clientID = &parsed
	}

	return s.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Email:    claims.Email,
		Role:     claims.Role,
		ClientID: clientID,
	})
}

// GetUserUUID parses the user ID out of the claims.
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetClientUUID parses the client ID out of the claims. Staff tokens
// have none, which comes back as uuid.Nil without error.
func (c *Claims) GetClientUUID() (uuid.UUID, error) {
	if c.ClientID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.ClientID)
}

// IsStaff reports whether the claims belong to an agency staff user.
func (c *Claims) IsStaff() bool {
	return c.Role == RoleStaff
}

// GetIssuedAtTime returns the token's issued-at time, or the zero time
// when the claim is absent.
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// GetRemainingTTL returns how long the token stays valid. A logout uses
// this as the blacklist TTL so revocations expire with the token.
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
