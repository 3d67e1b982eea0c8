package middleware

import (
	"log"
	"strings"

	"gymlog/internal/models"
	"gymlog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("role", claims["role"])

		// Continue to the next handler
		return c.Next()
	}
}

// CurrentUser reconstructs the acting user from the claims AuthRequired
// stored in the context. ID and role are all the authorization guard
// needs, so no repository lookup happens per request.
func CurrentUser(c *fiber.Ctx) *models.User {
	user := &models.User{}
	if id, ok := c.Locals("user_id").(string); ok {
		user.ID = id
	}
	if username, ok := c.Locals("username").(string); ok {
		user.Username = username
	}
	if role, ok := c.Locals("role").(string); ok {
		user.Role = role
	}
	if user.Role == "" {
		user.Role = models.RoleViewer
	}
	return user
}
