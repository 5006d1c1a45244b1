package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
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

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("roles", claims["roles"])

		return c.Next()
	}
}

// RoleRequired allows the request through only when the token carries at
// least one of the given role names. It must run after AuthRequired.
func RoleRequired(roleNames ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roleNames))
	for _, name := range roleNames {
		allowed[name] = true
	}

	return func(c *fiber.Ctx) error {
		claimed, ok := c.Locals("roles").([]interface{})
		if ok {
			for _, r := range claimed {
				if name, ok := r.(string); ok && allowed[name] {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient role for this operation",
		})
	}
}
