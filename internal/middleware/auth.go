package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/pkg/jwtutil"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// JWTAuth validates the JWT token and stores the claims in the request context
func JWTAuth(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.AuthErrorsCounter.Inc()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store user info in context for later use
			c.Set("user", claims)
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}

// RequireRoles rejects requests whose authenticated user has none of the given roles
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			role, ok := c.Get("user_role").(string)
			if !ok {
				log.Warn("Missing role in request context")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			log.Warn("Role not allowed for this operation",
				zap.String("role", role),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// GetUserClaims retrieves the authenticated user's claims from the context
func GetUserClaims(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}
