package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ApprovePhoto moves a photo to the wall. A photo that has already been
// decided answers 404: repeated moderation is a no-op, not an error.
func (h *Handler) ApprovePhoto(c *fiber.Ctx) error {
	ok, err := h.photos.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "approval failed")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, "photo not found or already processed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "photo approved",
	})
}

// RejectPhoto marks a photo rejected. The row stays for audit; a second
// reject is the same 404 no-op as a reject after approve.
func (h *Handler) RejectPhoto(c *fiber.Ctx) error {
	ok, err := h.photos.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "rejection failed")
	}
	if !ok {
		return fail(c, fiber.StatusNotFound, "photo not found or already processed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "photo rejected",
	})
}
