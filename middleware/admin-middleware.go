package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gosim-wonderland/wonderland-server/auth"
)

// AdminRequired rejects requests without a valid admin JWT. The token is
// read from the Authorization header or the JWT cookie, matching how the
// admin panel sends it.
func AdminRequired(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenStr string

		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else {
			tokenStr = c.Cookies("JWT")
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "admin authentication required",
			})
		}

		claims, err := authSvc.ParseToken(tokenStr)
		if err != nil || claims.User == nil || claims.User.ID != "admin" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid admin token",
			})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
