package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsAccountID = "accountID"

// RequireAccessToken gates a route behind a valid bearer access token.
// Verification is signature + expiry only; no store round-trip.
func (h *AuthHandler) RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := h.tokenService.VerifyAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(localsAccountID, claims.UserID)
		return c.Next()
	}
}
