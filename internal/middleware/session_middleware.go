package middleware

import (
	"strings"

	"terriertaste/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ViewerKey is the Locals key under which the authenticated *models.User is
// stored for downstream handlers.
const ViewerKey = "viewer"

// bearerToken extracts the opaque session token from the Authorization
// header, or "" when absent or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthRequired rejects requests whose bearer token does not resolve to a
// live session, and stores the resolved user in Locals otherwise.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authService.Authenticate(bearerToken(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}

		c.Locals(ViewerKey, user)
		return c.Next()
	}
}

// WithViewer attaches the viewer identity when a valid bearer token is
// present, and lets the request through anonymously otherwise. Used by the
// listing endpoint so signed-in users see their own ratings inline.
func WithViewer(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := authService.Authenticate(bearerToken(c)); err == nil {
			c.Locals(ViewerKey, user)
		}
		return c.Next()
	}
}
