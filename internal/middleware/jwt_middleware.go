package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"socialite/internal/services"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware that checks for a valid bearer token and
// attaches the decoded identity to the request context. Requests with a
// missing, malformed or expired token never reach the handler.
func AuthRequired(accountService *services.AccountService) fiber.Handler {
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

		ident, err := accountService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by AuthRequired. The zero value
// means no identity was attached.
func IdentityFromCtx(c *fiber.Ctx) services.Identity {
	ident, _ := c.Locals(identityKey).(services.Identity)
	return ident
}
