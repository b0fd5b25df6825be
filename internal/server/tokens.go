package server

import (
	"fmt"
	"strings"
	"time"

	"waypost/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer      = "waypost-api"
	resetTokenTTL    = 10 * time.Minute
	purposeReset     = "password_reset"
	defaultTokenTTL  = 24 * time.Hour
	bearerPrefix     = "Bearer "
	localsUserIDKey  = "userID"
	localsClaimsKey  = "claims"
)

// AuthClaims is the bearer token payload. Handlers trust these fields for the
// token's lifetime without re-reading the user record.
type AuthClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// resetClaims is the short-lived password-reset token payload. The purpose
// field keeps reset tokens from being accepted as session tokens and vice versa.
type resetClaims struct {
	UserID  uint   `json:"userId"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (s *Server) tokenTTL() time.Duration {
	if s.config.TokenTTLHours > 0 {
		return time.Duration(s.config.TokenTTLHours) * time.Hour
	}
	return defaultTokenTTL
}

// generateToken creates a signed session token for the given user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateResetToken creates a short-lived single-purpose token for the
// password reset flow.
func (s *Server) generateResetToken(user *models.User) (string, error) {
	now := time.Now()
	claims := resetClaims{
		UserID:  user.ID,
		Purpose: purposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Server) parseResetToken(tokenString string) (*resetClaims, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthenticatedError("Invalid or expired reset token")
	}
	if claims.Purpose != purposeReset {
		return nil, models.NewUnauthenticatedError("Invalid or expired reset token")
	}
	return claims, nil
}

// AuthRequired verifies the Authorization bearer token and stores the caller's
// identity in request locals. Requests without a valid token never reach the
// guarded handler.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return models.RespondWithAppError(c,
				models.NewUnauthenticatedError("Missing or malformed authorization header"))
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims := &AuthClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.config.JWTSecret), nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid || claims.UserID == 0 {
			return models.RespondWithAppError(c,
				models.NewUnauthenticatedError("Invalid or expired token"))
		}

		c.Locals(localsUserIDKey, claims.UserID)
		c.Locals(localsClaimsKey, claims)
		return c.Next()
	}
}

// optionalUserID resolves the caller's ID on public routes. A missing or
// invalid token yields zero rather than an error so anonymous reads still work.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return 0
	}
	tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !token.Valid {
		return 0
	}
	return claims.UserID
}

// currentUserID returns the authenticated caller's ID from request locals.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(localsUserIDKey).(uint); ok {
		return id
	}
	return 0
}
