package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/security"
)

func Protected(keys *storage.KeyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Get token from header: "Bearer lg_live_..."
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}
		apiKey := parts[1]

		// 2. Hash the key (we never compare plain text!)
		accountID, ok := keys.Lookup(security.HashKey(apiKey))
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API key"})
		}

		// 3. Save account id to context so handlers know who is calling
		c.Locals("account_id", accountID)

		return c.Next()
	}
}
