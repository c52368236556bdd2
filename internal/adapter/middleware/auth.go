package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/security"
)

// KeyResolver resolves a hashed API key to the account that owns it.
type KeyResolver interface {
	AccountForHash(keyHash string) (uuid.UUID, bool)
}

// Protected authenticates requests with a Bearer API key. The raw key is
// hashed and looked up; plain-text keys are never compared or stored. On
// success the owning account id is stashed in Locals("account_id").
func Protected(keys KeyResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"code": "UNAUTHORIZED", "message": "missing API key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"code": "UNAUTHORIZED", "message": "invalid Authorization header"})
		}

		accountID, ok := keys.AccountForHash(security.HashKey(parts[1]))
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"code": "UNAUTHORIZED", "message": "invalid API key"})
		}

		c.Locals("account_id", accountID)
		return c.Next()
	}
}
