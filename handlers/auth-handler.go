package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// AdminLogin checks the shared admin secret and issues the JWT the
// moderation routes require.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	type loginRequest struct {
		Password string `json:"password"`
	}

	var input loginRequest
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !h.auth.Verify(input.Password) {
		return fail(c, fiber.StatusUnauthorized, "invalid password")
	}

	tokenStr, err := h.auth.IssueToken()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    tokenStr,
		Expires:  time.Now().Add(time.Hour * 12),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   tokenStr,
	})
}
