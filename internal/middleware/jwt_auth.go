package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"wanderlog/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuthMiddleware for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// GenerateToken issues a signed JWT bound to the user's id and role.
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken checks the token's signature and expiry and returns its claims.
// The response-facing error is uniform; expired vs malformed shows up only in
// the server log.
func VerifyToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Not authorized, token failed")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		log.Printf("token verification failed: %v", err)
		return nil, models.NewUnauthorizedError("Not authorized, token failed")
	}
	return claims, nil
}

// JWTAuthMiddleware checks for a valid bearer JWT and stores the resolved
// user id and role in the request context.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token provided")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := VerifyToken(parts[1], secret)
			if err != nil {
				return err
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserRole, claims.Role)

			return next(c)
		}
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c echo.Context) uint {
	if id, ok := c.Get(ContextUserID).(uint); ok {
		return id
	}
	return 0
}

// UserRole returns the authenticated user's role from the request context.
func UserRole(c echo.Context) string {
	if role, ok := c.Get(ContextUserRole).(string); ok {
		return role
	}
	return models.RoleUser
}
